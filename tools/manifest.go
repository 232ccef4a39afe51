//
// Helpers to drive manifest-tool and manifest-dev-tool
//
// Copyright (c) 2025 Canonical Ltd.
//
package tools

const (
	devToolModule = "manifesttool.dev_tool.dev_tool"
	mtoolModule   = "manifesttool.mtool.mtool"

	// manifest-dev-tool insists on an update URL; the package is never
	// fetched from it.
	dummyUpdateURL = " "
)

// ManifestTool creates signed update manifests, either with the
// development tool and its self-provisioned keys or with the production
// tool and a user supplied configuration.
type ManifestTool struct {
	runner *Runner
	python []string
}

// NewManifestTool returns a ManifestTool honouring the PYTHON environment
// variable.
func NewManifestTool(runner *Runner) (*ManifestTool, error) {
	python, err := CommandFromEnv(EnvPython, "python3")
	if err != nil {
		return nil, err
	}
	return &ManifestTool{runner: runner, python: python}, nil
}

// InitDevConfig provisions the development configuration, keys and
// certificate under .manifest-dev-tool in the current directory.
func (m *ManifestTool) InitDevConfig() error {
	return m.runner.Run("", join(m.python, "-m", devToolModule, "init")...)
}

// CreateDev writes a manifest for payload to output, signing the image with
// the development keys.
func (m *ManifestTool) CreateDev(payload, output string, extra []string) error {
	args := []string{"-m", devToolModule, "create",
		"-u", dummyUpdateURL,
		"-p", payload,
		"--sign-image",
		"-o", output,
	}
	return m.runner.Run("", join(m.python, append(args, extra...)...)...)
}

// Create writes a manifest to output as described by the manifest-tool
// configuration at config.
func (m *ManifestTool) Create(config, output string, extra []string) error {
	args := []string{"-m", mtoolModule, "create",
		"-c", config,
		"-o", output,
	}
	return m.runner.Run("", join(m.python, append(args, extra...)...)...)
}
