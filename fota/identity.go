package fota

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"launchpad.net/mbed-fota-tools/mbedconfig"
)

// manifest-tool nests the identifiers, older manifest-dev-tool configs keep
// them at the top level.
var (
	vendorIDPaths = []mbedconfig.Path{{"vendor", "vendor-id"}, {"vendor-id"}}
	classIDPaths  = []mbedconfig.Path{{"device", "class-id"}, {"class-id"}}
)

// ManifestIdentity holds the identifiers a device matches update manifests
// against. Either may be empty when the config does not provide it.
type ManifestIdentity struct {
	VendorID string
	ClassID  string
}

// LoadManifestIdentity reads the vendor-id and class-id from a manifest-tool
// or manifest-dev-tool configuration file.
func LoadManifestIdentity(path string) (ManifestIdentity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ManifestIdentity{}, err
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ManifestIdentity{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	var id ManifestIdentity
	id.VendorID, _ = mbedconfig.LookupString(doc, vendorIDPaths...)
	id.ClassID, _ = mbedconfig.LookupString(doc, classIDPaths...)
	return id, nil
}

// NormalizeID returns id, a GUID in dashed or plain hex form, as 32
// lowercase hex digits.
func NormalizeID(field, id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", ErrInvalidID{Field: field, Value: id, Err: err}
	}
	return hex.EncodeToString(u[:]), nil
}
