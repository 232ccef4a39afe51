package mbedconfig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	. "gopkg.in/check.v1"
)

type AppConfigTestSuite struct {
	path string
}

var _ = Suite(&AppConfigTestSuite{})

const testAppConfig = `{
    "config": {
        "lwm2m_server_uri": {
            "value": "\"coaps://eu.iot.avsystem.cloud:5684\""
        }
    },
    "target_overrides": {
        "*": {
            "platform.stdio-baud-rate": 115200
        },
        "DISCO_L496AG": {
            "target.extra_labels_add": ["BL_INTERNAL_FLASH"],
            "anjay-mbed-fota.enable": true
        },
        "NUCLEO_F429ZI": {
            "target.network-default-interface-type": "ETHERNET"
        }
    }
}
`

func (s *AppConfigTestSuite) SetUpTest(c *C) {
	s.path = filepath.Join(c.MkDir(), AppConfigFile)
	c.Assert(os.WriteFile(s.path, []byte(testAppConfig), 0644), IsNil)
}

func (s *AppConfigTestSuite) TestKnownTargets(c *C) {
	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)
	c.Assert(cfg.KnownTargets(), DeepEquals, []string{"DISCO_L496AG", "NUCLEO_F429ZI"})
}

func (s *AppConfigTestSuite) TestTargetOverride(c *C) {
	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)

	labels, ok := cfg.TargetOverride("DISCO_L496AG", "target.extra_labels_add")
	c.Assert(ok, Equals, true)
	c.Assert(labels, DeepEquals, []interface{}{"BL_INTERNAL_FLASH"})

	enabled, ok := cfg.TargetOverride("DISCO_L496AG", "anjay-mbed-fota.enable")
	c.Assert(ok, Equals, true)
	c.Assert(enabled, Equals, true)

	_, ok = cfg.TargetOverride("NUCLEO_F429ZI", "anjay-mbed-fota.enable")
	c.Assert(ok, Equals, false)

	_, ok = cfg.TargetOverride("K64F", "anjay-mbed-fota.enable")
	c.Assert(ok, Equals, false)
}

func (s *AppConfigTestSuite) TestComments(c *C) {
	withComments := `{
    // comment
    "target_overrides": {
        /* block */
        "K64F": {}
    }
}`
	c.Assert(os.WriteFile(s.path, []byte(withComments), 0644), IsNil)

	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)
	c.Assert(cfg.KnownTargets(), DeepEquals, []string{"K64F"})
}

func (s *AppConfigTestSuite) TestMalformed(c *C) {
	c.Assert(os.WriteFile(s.path, []byte(`{"target_overrides": `), 0644), IsNil)

	_, err := LoadAppConfig(s.path)
	c.Assert(err, ErrorMatches, "cannot parse .*mbed_app.json: .*")
}

func (s *AppConfigTestSuite) TestSetOverrideAndSave(c *C) {
	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)

	c.Assert(cfg.SetOverride(Wildcard, "anjay-mbed-fota.vendor-id", "fa6b4a53d5ad5fdfbe9de663e4d41ffe"), IsNil)
	c.Assert(cfg.SetOverride(Wildcard, "anjay-mbed-fota.class-id", "00000000000000000000000000000001"), IsNil)

	v, ok := LookupString(cfg.Document(), Path{"target_overrides", "*", "anjay-mbed-fota.vendor-id"})
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "fa6b4a53d5ad5fdfbe9de663e4d41ffe")

	c.Assert(cfg.Save(), IsNil)

	data, err := os.ReadFile(s.path)
	c.Assert(err, IsNil)
	c.Assert(data[len(data)-1], Equals, byte('\n'))
	c.Assert(data[len(data)-2], Not(Equals), byte('\n'))

	reloaded, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)
	c.Assert(cmp.Diff(cfg.Document(), reloaded.Document()), Equals, "")

	wildcard, ok := Lookup(reloaded.Document(), Path{"target_overrides", "*"})
	c.Assert(ok, Equals, true)
	c.Assert(cmp.Diff(map[string]interface{}{
		"platform.stdio-baud-rate":  float64(115200),
		"anjay-mbed-fota.vendor-id": "fa6b4a53d5ad5fdfbe9de663e4d41ffe",
		"anjay-mbed-fota.class-id":  "00000000000000000000000000000001",
	}, wildcard), Equals, "")
}

func (s *AppConfigTestSuite) TestSavePreservesKeyOrder(c *C) {
	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)
	c.Assert(cfg.SetOverride(Wildcard, "anjay-mbed-fota.class-id", "x"), IsNil)

	out := string(cfg.Bytes())
	config := indexOf(c, out, `"config"`)
	overrides := indexOf(c, out, `"target_overrides"`)
	disco := indexOf(c, out, `"DISCO_L496AG"`)
	nucleo := indexOf(c, out, `"NUCLEO_F429ZI"`)
	baud := indexOf(c, out, `"platform.stdio-baud-rate"`)
	classID := indexOf(c, out, `"anjay-mbed-fota.class-id"`)

	c.Assert(config < overrides, Equals, true)
	c.Assert(disco < nucleo, Equals, true)
	c.Assert(baud < classID, Equals, true)
	c.Assert(classID < disco, Equals, true)
}

func (s *AppConfigTestSuite) TestSetOverrideCreatesWildcard(c *C) {
	c.Assert(os.WriteFile(s.path, []byte(`{"target_overrides": {"K64F": {}}}`), 0644), IsNil)

	cfg, err := LoadAppConfig(s.path)
	c.Assert(err, IsNil)
	c.Assert(cfg.SetOverride(Wildcard, "anjay-mbed-fota.update-cert", "MIIB"), IsNil)

	v, ok := cfg.TargetOverride(Wildcard, "anjay-mbed-fota.update-cert")
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "MIIB")
	// the wildcard never shows up as a target
	c.Assert(cfg.KnownTargets(), DeepEquals, []string{"K64F"})
}

func (s *AppConfigTestSuite) TestEscapePathKey(c *C) {
	c.Check(escapePathKey("*"), Equals, `\*`)
	c.Check(escapePathKey("anjay-mbed-fota.enable"), Equals, `anjay-mbed-fota\.enable`)
	c.Check(escapePathKey("target_overrides"), Equals, "target_overrides")
}

func indexOf(c *C, s, sub string) int {
	i := strings.Index(s, sub)
	c.Assert(i >= 0, Equals, true, Commentf("%s not found", sub))
	return i
}
