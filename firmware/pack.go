package firmware

import (
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"launchpad.net/mbed-fota-tools/sysutils"
)

// RawBinaryFormat is the manifest-tool payload format of a plain image.
const RawBinaryFormat = "raw-binary"

// ManifestSigner creates update manifests.
type ManifestSigner interface {
	// CreateDev signs payload with the development keys.
	CreateDev(payload, output string, extra []string) error
	// Create follows the manifest-tool configuration at config.
	Create(config, output string, extra []string) error
}

// Packager prepends a signed manifest to firmware images.
type Packager struct {
	Signer ManifestSigner
	Logger *slog.Logger
	// Progress shows a progress bar while writing large packages.
	Progress bool
}

// Pack writes the manifest for input followed by input itself to output.
// The development keys sign the manifest unless manifestConfig names a
// manifest-tool configuration. extra is passed on to the manifest tool.
func (p *Packager) Pack(input, output, manifestConfig string, extra []string) (err error) {
	manifest, removeManifest, err := sysutils.TempFile("manifest-*.bin")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, removeManifest())
	}()

	if manifestConfig == "" {
		p.Logger.Debug("Using manifest-dev-tool")
		err = p.Signer.CreateDev(input, manifest, extra)
	} else {
		p.Logger.Debug("Using manifest-tool", "config", manifestConfig)
		err = p.createWithConfig(input, manifest, manifestConfig, extra)
	}
	if err != nil {
		return err
	}

	if err := sysutils.ConcatFiles(output, p.Progress, manifest, input); err != nil {
		return err
	}

	p.Logger.Info("DONE! Grab your package", "output", output)
	return nil
}

func (p *Packager) createWithConfig(input, manifest, manifestConfig string, extra []string) (err error) {
	data, err := os.ReadFile(manifestConfig)
	if err != nil {
		return err
	}

	data, err = setPayload(data, input)
	if err != nil {
		return fmt.Errorf("cannot parse %s: %w", manifestConfig, err)
	}

	config, removeConfig, err := sysutils.TempFile("manifest-config-*.yaml")
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, removeConfig())
	}()

	if err := os.WriteFile(config, data, 0600); err != nil {
		return err
	}

	return p.Signer.Create(config, manifest, extra)
}

// setPayload points the payload of a manifest-tool configuration at the raw
// image in input.
func setPayload(data []byte, input string) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = make(map[string]interface{})
	}

	payload, ok := doc["payload"].(map[string]interface{})
	if !ok {
		payload = make(map[string]interface{})
		doc["payload"] = payload
	}
	payload["file-path"] = input
	payload["format"] = RawBinaryFormat

	return yaml.Marshal(doc)
}
