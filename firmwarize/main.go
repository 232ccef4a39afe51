package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"launchpad.net/mbed-fota-tools/firmware"
	"launchpad.net/mbed-fota-tools/logging"
	"launchpad.net/mbed-fota-tools/sysutils"
	"launchpad.net/mbed-fota-tools/tools"
)

type environment struct {
	logger    *slog.Logger
	dir       string
	describer firmware.Describer
	signer    firmware.ManifestSigner
	progress  bool
}

func main() {
	logger := logging.FromEnv()
	runner := tools.NewRunner(logger)

	dir, err := os.Getwd()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	git, err := tools.NewGit(runner)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	manifestTool, err := tools.NewManifestTool(runner)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	os.Exit(run(os.Args[1:], environment{
		logger:    logger,
		dir:       dir,
		describer: git,
		signer:    manifestTool,
		progress:  logging.IsTerminal(os.Stderr),
	}))
}

func run(argv []string, env environment) int {
	var args arguments
	parser := newParser(&args)
	if _, err := parser.ParseArgs(argv); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		return 2
	}

	logger := env.logger
	resolver := &firmware.Resolver{Dir: env.dir, Describer: env.describer, Logger: logger}

	if args.Input == "" {
		input, ok := resolver.Input(args.Target)
		if !ok {
			logger.Error("Unable to detect input file name, use --input")
			return 1
		}
		args.Input = input
		logger.Info("Detected input file path (use --input to override)", "input", input)
	}

	if !sysutils.FileExists(resolver.Abs(args.Input)) {
		logger.Error("Firmware image " + args.Input + " does not exists, use --input")
		return 1
	}

	if args.Target == "" {
		target, ok := resolver.Target(args.Input)
		if !ok {
			logger.Error("Unable to detect target name, use --target")
			return 1
		}
		args.Target = target
		logger.Info("Detected target name (use --target to override)", "target", target)
	}

	if args.Output == "" {
		args.Output = resolver.Output(args.Input, args.Target)
		logger.Info("Using output name (use --output to override)", "output", args.Output)
	}

	if sysutils.FileExists(resolver.Abs(args.Output)) && !args.ForceOverwrite {
		logger.Error("Output file " + args.Output + " already exists (use --force-overwrite to overwrite)")
		return 1
	}

	if !strings.HasSuffix(args.Input, firmware.UpdateSuffix) {
		logger.Warn("Input filename does not end with "+firmware.UpdateSuffix+", did you pass the correct input file?",
			"input", args.Input)
	}

	manifestConfig := args.ManifestConfig
	if manifestConfig != "" {
		manifestConfig = resolver.Abs(manifestConfig)
	}

	packager := &firmware.Packager{Signer: env.signer, Logger: logger, Progress: env.progress}
	err := packager.Pack(resolver.Abs(args.Input), resolver.Abs(args.Output), manifestConfig,
		args.Positional.ManifestToolArgs)
	if err != nil {
		logger.Error(err.Error())

		var toolErr *tools.ToolError
		if errors.As(err, &toolErr) {
			return toolErr.ExitCode()
		}
		return 1
	}

	return 0
}
