package mbedconfig

import (
	. "gopkg.in/check.v1"
	"gopkg.in/yaml.v3"
)

type LookupTestSuite struct{}

var _ = Suite(&LookupTestSuite{})

var (
	vendorPaths = []Path{{"vendor", "vendor-id"}, {"vendor-id"}}
)

func decodeYAML(c *C, text string) interface{} {
	var doc interface{}
	c.Assert(yaml.Unmarshal([]byte(text), &doc), IsNil)
	return doc
}

func (s *LookupTestSuite) TestLegacyFlatKey(c *C) {
	doc := decodeYAML(c, "vendor-id: fa6b4a53d5ad5fdfbe9de663e4d41ffe\n")

	v, ok := LookupString(doc, vendorPaths...)
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "fa6b4a53d5ad5fdfbe9de663e4d41ffe")
}

func (s *LookupTestSuite) TestNestedPreferred(c *C) {
	doc := decodeYAML(c, `
vendor-id: legacy
vendor:
  vendor-id: nested
`)

	v, ok := LookupString(doc, vendorPaths...)
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "nested")
}

func (s *LookupTestSuite) TestNullFallsThrough(c *C) {
	doc := decodeYAML(c, `
vendor:
  vendor-id:
vendor-id: legacy
`)

	v, ok := LookupString(doc, vendorPaths...)
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "legacy")
}

func (s *LookupTestSuite) TestAbsent(c *C) {
	doc := decodeYAML(c, "device:\n  class-id: abc\n")

	_, ok := Lookup(doc, vendorPaths...)
	c.Assert(ok, Equals, false)

	_, ok = Lookup(nil, vendorPaths...)
	c.Assert(ok, Equals, false)
}

func (s *LookupTestSuite) TestNonMappingIntermediate(c *C) {
	doc := decodeYAML(c, "vendor: acme\n")

	_, ok := Lookup(doc, Path{"vendor", "vendor-id"})
	c.Assert(ok, Equals, false)
}

func (s *LookupTestSuite) TestThirdLayout(c *C) {
	doc := decodeYAML(c, "identity:\n  vendor: {id: third}\n")

	v, ok := LookupString(doc, append(vendorPaths, Path{"identity", "vendor", "id"})...)
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "third")
}

func (s *LookupTestSuite) TestLookupStringScalars(c *C) {
	doc := decodeYAML(c, "enable: true\nsize: 42\nlabels: [BL_INTERNAL_FLASH]\n")

	v, ok := LookupString(doc, Path{"enable"})
	c.Check(ok, Equals, true)
	c.Check(v, Equals, "true")

	v, ok = LookupString(doc, Path{"size"})
	c.Check(ok, Equals, true)
	c.Check(v, Equals, "42")

	_, ok = LookupString(doc, Path{"labels"})
	c.Check(ok, Equals, false)
}

func (s *LookupTestSuite) TestLegacyMapType(c *C) {
	doc := map[interface{}]interface{}{
		"device": map[interface{}]interface{}{"class-id": "cafe"},
	}

	v, ok := LookupString(doc, Path{"device", "class-id"}, Path{"class-id"})
	c.Assert(ok, Equals, true)
	c.Assert(v, Equals, "cafe")
}
