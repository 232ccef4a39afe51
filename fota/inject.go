package fota

import (
	"encoding/base64"
	"log/slog"
	"path/filepath"
	"reflect"

	"launchpad.net/mbed-fota-tools/mbedconfig"
	"launchpad.net/mbed-fota-tools/sysutils"
)

const (
	// DevConfigDir holds the configuration, keys and certificate
	// provisioned by manifest-dev-tool.
	DevConfigDir  = ".manifest-dev-tool"
	devConfigFile = "dev.cfg.yaml"
	devCertFile   = "dev.cert.der"

	// manifest-dev-tool init drops this next to the config; the firmware
	// does not build it.
	defaultResourcesFile = "update_default_resources.c"
)

// Configuration keys of the anjay-mbed-fota library.
const (
	KeyEnable     = "anjay-mbed-fota.enable"
	KeyUpdateCert = "anjay-mbed-fota.update-cert"
	KeyVendorID   = "anjay-mbed-fota.vendor-id"
	KeyClassID    = "anjay-mbed-fota.class-id"
)

// DevConfigProvisioner creates the manifest-dev-tool configuration in the
// current directory.
type DevConfigProvisioner interface {
	InitDevConfig() error
}

// Trust is what a device needs to verify update images.
type Trust struct {
	VendorID    string
	ClassID     string
	Certificate []byte
}

// Enabled reports whether target turns FOTA on in app.
func Enabled(app *mbedconfig.AppConfig, target string) bool {
	v, ok := app.TargetOverride(target, KeyEnable)
	return ok && truthy(v)
}

func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

// Injector gathers the FOTA trust material for the project at Root.
type Injector struct {
	Root string
	// ManifestConfig and UpdateCertificate default to the development
	// files, which are provisioned on first use.
	ManifestConfig    string
	UpdateCertificate string
	Provisioner       DevConfigProvisioner
	Logger            *slog.Logger
}

func (i *Injector) logger() *slog.Logger {
	if i.Logger == nil {
		return slog.Default()
	}
	return i.Logger
}

func (i *Injector) devConfigPath() string {
	return filepath.Join(i.Root, DevConfigDir, devConfigFile)
}

func (i *Injector) devCertPath() string {
	return filepath.Join(i.Root, DevConfigDir, devCertFile)
}

// manifestConfig returns the manifest config to read, running
// manifest-dev-tool init when the development one does not exist yet.
func (i *Injector) manifestConfig() (string, error) {
	if i.ManifestConfig != "" {
		return i.ManifestConfig, nil
	}

	path := i.devConfigPath()
	if sysutils.FileExists(path) {
		return path, nil
	}

	i.logger().Info("provisioning development manifest configuration", "dir", i.Root)
	if err := sysutils.WithDir(i.Root, i.Provisioner.InitDevConfig); err != nil {
		return "", err
	}
	if err := sysutils.RemoveIfExists(filepath.Join(i.Root, defaultResourcesFile)); err != nil {
		return "", err
	}
	return path, nil
}

// Prepare loads and validates the trust material.
func (i *Injector) Prepare() (Trust, error) {
	configPath, err := i.manifestConfig()
	if err != nil {
		return Trust{}, err
	}

	id, err := LoadManifestIdentity(configPath)
	if err != nil {
		return Trust{}, err
	}

	certPath := i.UpdateCertificate
	if certPath == "" {
		certPath = i.devCertPath()
	}
	cert, err := LoadCertificateDER(certPath)
	if err != nil {
		return Trust{}, err
	}

	if id.VendorID == "" || id.ClassID == "" || len(cert) == 0 {
		return Trust{}, ErrIncompleteConfig
	}

	trust := Trust{Certificate: cert}
	if trust.VendorID, err = NormalizeID("vendor-id", id.VendorID); err != nil {
		return Trust{}, err
	}
	if trust.ClassID, err = NormalizeID("class-id", id.ClassID); err != nil {
		return Trust{}, err
	}

	i.logger().Debug("loaded FOTA trust material",
		"manifest_config", configPath,
		"certificate", certPath,
		"vendor_id", trust.VendorID,
		"class_id", trust.ClassID)
	return trust, nil
}

// Inject writes trust into the wildcard overrides of app and saves it.
func Inject(app *mbedconfig.AppConfig, trust Trust) error {
	if trust.VendorID == "" || trust.ClassID == "" || len(trust.Certificate) == 0 {
		return ErrIncompleteConfig
	}

	overrides := []struct {
		key   string
		value string
	}{
		{KeyUpdateCert, base64.StdEncoding.EncodeToString(trust.Certificate)},
		{KeyVendorID, trust.VendorID},
		{KeyClassID, trust.ClassID},
	}
	for _, o := range overrides {
		if err := app.SetOverride(mbedconfig.Wildcard, o.key, o.value); err != nil {
			return err
		}
	}
	return app.Save()
}

// Run prepares the trust material and injects it into app.
func (i *Injector) Run(app *mbedconfig.AppConfig) error {
	trust, err := i.Prepare()
	if err != nil {
		return err
	}
	return Inject(app, trust)
}
