//
// Helpers to drive mbed CLI and the mbed-bootloader preset scripts
//
// Copyright (c) 2025 Canonical Ltd.
//
package tools

const (
	buildPresetsScript = "build_presets.py"
	exportScript       = "export.py"
)

// Mbed builds boards with mbed CLI and bootloaders with the preset scripts
// shipped in mbed-bootloader. Every call runs in the current working
// directory.
type Mbed struct {
	runner *Runner
	mbed   []string
	python []string
}

// NewMbed returns an Mbed honouring the MBED and PYTHON environment
// variables.
func NewMbed(runner *Runner) (*Mbed, error) {
	mbed, err := CommandFromEnv(EnvMbed, "mbed")
	if err != nil {
		return nil, err
	}
	python, err := CommandFromEnv(EnvPython, "python3")
	if err != nil {
		return nil, err
	}
	return &Mbed{runner: runner, mbed: mbed, python: python}, nil
}

// Deploy fetches the libraries the project depends on.
func (m *Mbed) Deploy() error {
	return m.runner.Run("", join(m.mbed, "deploy")...)
}

// BuildPresets generates the bootloader build presets for target.
func (m *Mbed) BuildPresets(target string) error {
	return m.runner.Run("", join(m.python, buildPresetsScript, target)...)
}

// ExportBootloader copies the built bootloader binaries into outDir.
func (m *Mbed) ExportBootloader(outDir string) error {
	return m.runner.Run("", join(m.python, exportScript, outDir)...)
}
