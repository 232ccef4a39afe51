package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"launchpad.net/mbed-fota-tools/fota"
	"launchpad.net/mbed-fota-tools/logging"
	"launchpad.net/mbed-fota-tools/mbedconfig"
	"launchpad.net/mbed-fota-tools/sysutils"
	"launchpad.net/mbed-fota-tools/tools"
)

const (
	bootloaderDir    = "mbed-bootloader"
	bootloaderBinDir = "mbed-bootloader-bin"
	presetsDir       = "presets"

	bootloaderLabelPrefix = "BL_"
	extraLabelsKey        = "target.extra_labels_add"
)

// BoardBuilder runs the board build tooling in the current directory.
type BoardBuilder interface {
	Deploy() error
	BuildPresets(target string) error
	ExportBootloader(outDir string) error
}

type environment struct {
	logger      *slog.Logger
	stderr      io.Writer
	builder     BoardBuilder
	provisioner fota.DevConfigProvisioner
}

func main() {
	logger := logging.FromEnv()
	runner := tools.NewRunner(logger)

	mbed, err := tools.NewMbed(runner)
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
		logger:      logger,
		stderr:      os.Stderr,
		builder:     mbed,
		provisioner: manifestTool,
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

	root, err := filepath.Abs(args.ProjectDir)
	if err != nil {
		env.logger.Error(err.Error())
		return 1
	}

	b := &bootstrapper{root: root, env: env}
	if err := b.run(args); err != nil {
		return b.fail(err)
	}
	return 0
}

type bootstrapper struct {
	root string
	env  environment
}

func (b *bootstrapper) fail(err error) int {
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) {
		fmt.Fprintln(b.env.stderr, flagsErr.Message)
		return 2
	}

	b.env.logger.Error(err.Error())

	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.ExitCode()
	}
	return 1
}

func (b *bootstrapper) appConfigPath() string {
	return filepath.Join(b.root, mbedconfig.AppConfigFile)
}

func (b *bootstrapper) run(args arguments) error {
	app, err := mbedconfig.LoadAppConfig(b.appConfigPath())
	if err != nil {
		return err
	}
	if err := validateTarget(args.Target, app.KnownTargets()); err != nil {
		return err
	}

	return sysutils.WithDir(b.root, func() error {
		if err := b.prepareEnv(args.Target); err != nil {
			return err
		}

		// deploy may have brought in a different configuration
		app, err := mbedconfig.LoadAppConfig(b.appConfigPath())
		if err != nil {
			return err
		}

		if needsBootloader(app, args.Target) {
			if err := b.compileBootloader(args.Target); err != nil {
				return err
			}
		}

		if fota.Enabled(app, args.Target) {
			injector := &fota.Injector{
				Root:              b.root,
				ManifestConfig:    args.ManifestConfig,
				UpdateCertificate: args.UpdateCertificate,
				Provisioner:       b.env.provisioner,
				Logger:            b.env.logger,
			}
			b.env.logger.Info("Injecting FOTA configuration", "file", app.Path())
			if err := injector.Run(app); err != nil {
				return err
			}
		}

		return nil
	})
}

// prepareEnv points the project at target and fetches its dependencies.
func (b *bootstrapper) prepareEnv(target string) error {
	state := mbedconfig.State{Root: ".", Target: target, Toolchain: mbedconfig.DefaultToolchain}
	if err := mbedconfig.WriteState(b.root, state); err != nil {
		return err
	}

	b.env.logger.Info("Deploying project dependencies", "target", target)
	return b.env.builder.Deploy()
}

func needsBootloader(app *mbedconfig.AppConfig, target string) bool {
	value, _ := app.TargetOverride(target, extraLabelsKey)
	labels, _ := value.([]interface{})
	for _, label := range labels {
		if s, ok := label.(string); ok && strings.HasPrefix(s, bootloaderLabelPrefix) {
			return true
		}
	}
	return false
}

func (b *bootstrapper) compileBootloader(target string) error {
	b.env.logger.Info("Building bootloader", "target", target)

	outDir := filepath.Join(b.root, bootloaderBinDir)
	return sysutils.WithDir(filepath.Join(b.root, bootloaderDir), func() error {
		if err := mbedconfig.WriteState(".", mbedconfig.State{Root: "."}); err != nil {
			return err
		}

		return sysutils.WithDir(presetsDir, func() error {
			if err := b.env.builder.BuildPresets(target); err != nil {
				return err
			}
			return b.env.builder.ExportBootloader(outDir)
		})
	})
}
