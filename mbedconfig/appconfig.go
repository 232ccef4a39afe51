package mbedconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// AppConfigFile is the application configuration file at the project root.
const AppConfigFile = "mbed_app.json"

const (
	// Wildcard is the target_overrides key applying to every target.
	Wildcard = "*"

	targetOverrides = "target_overrides"
)

var prettyOptions = &pretty.Options{Indent: "    "}

// AppConfig is an mbed_app.json document. Edits are applied to the JSON
// text itself so that key order survives a rewrite.
type AppConfig struct {
	path string
	raw  []byte
	doc  map[string]interface{}
}

// LoadAppConfig reads the application configuration at path. Comments are
// accepted and dropped.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{path: path, raw: jsonc.ToJSON(data)}
	if err := cfg.decode(); err != nil {
		return nil, fmt.Errorf("cannot parse %s: %w", path, err)
	}

	return cfg, nil
}

func (a *AppConfig) decode() error {
	var doc map[string]interface{}
	if err := json.Unmarshal(a.raw, &doc); err != nil {
		return err
	}
	a.doc = doc
	return nil
}

// Path returns the file the configuration was loaded from.
func (a *AppConfig) Path() string {
	return a.path
}

// Document returns the decoded document for use with Lookup.
func (a *AppConfig) Document() map[string]interface{} {
	return a.doc
}

// KnownTargets lists the target_overrides keys other than the wildcard,
// sorted.
func (a *AppConfig) KnownTargets() []string {
	overrides, _ := Lookup(a.doc, Path{targetOverrides})
	m, _ := overrides.(map[string]interface{})

	targets := make([]string, 0, len(m))
	for name := range m {
		if name != Wildcard {
			targets = append(targets, name)
		}
	}
	sort.Strings(targets)

	return targets
}

// TargetOverride returns target_overrides[target][key].
func (a *AppConfig) TargetOverride(target, key string) (interface{}, bool) {
	return Lookup(a.doc, Path{targetOverrides, target, key})
}

// SetOverride sets target_overrides[target][key] to value, creating the
// intermediate objects when needed.
func (a *AppConfig) SetOverride(target, key string, value interface{}) error {
	path := strings.Join([]string{
		escapePathKey(targetOverrides),
		escapePathKey(target),
		escapePathKey(key),
	}, ".")

	raw, err := sjson.SetBytes(a.raw, path, value)
	if err != nil {
		return fmt.Errorf("cannot set %s override %s: %w", target, key, err)
	}

	prev := a.raw
	a.raw = raw
	if err := a.decode(); err != nil {
		a.raw = prev
		return err
	}

	return nil
}

// Save rewrites the file with four space indentation and a trailing
// newline, keeping its permissions.
func (a *AppConfig) Save() error {
	mode := os.FileMode(0644)
	if stat, err := os.Stat(a.path); err == nil {
		mode = stat.Mode().Perm()
	}

	return os.WriteFile(a.path, a.Bytes(), mode)
}

// Bytes returns the document as Save would write it.
func (a *AppConfig) Bytes() []byte {
	out := pretty.PrettyOptions(a.raw, prettyOptions)
	return append(bytes.TrimRight(out, "\n"), '\n')
}

// escapePathKey quotes the characters sjson gives meaning to in a path.
func escapePathKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			b.WriteByte('\\')
		}
		b.WriteByte(key[i])
	}
	return b.String()
}
