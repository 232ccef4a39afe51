package mbedconfig

import "fmt"

// Path is a sequence of nested mapping keys.
type Path []string

// Lookup walks doc along each path in turn and returns the value found at the
// first one that resolves. A missing key, a null value or a non-mapping
// intermediate all count as absent.
//
// Listing several paths lets one call site accept more than one historical
// layout of the same document, newest first.
func Lookup(doc interface{}, paths ...Path) (interface{}, bool) {
	for _, path := range paths {
		if v, ok := walk(doc, path); ok {
			return v, true
		}
	}
	return nil, false
}

// LookupString is Lookup for scalar values, which are rendered with
// fmt.Sprint when not already strings. Mappings and sequences are absent.
func LookupString(doc interface{}, paths ...Path) (string, bool) {
	v, ok := Lookup(doc, paths...)
	if !ok {
		return "", false
	}

	switch v := v.(type) {
	case string:
		return v, true
	case map[string]interface{}, map[interface{}]interface{}, []interface{}:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

func walk(node interface{}, path Path) (interface{}, bool) {
	for _, key := range path {
		var ok bool
		switch m := node.(type) {
		case map[string]interface{}:
			node, ok = m[key]
		case map[interface{}]interface{}:
			node, ok = m[key]
		}
		if !ok || node == nil {
			return nil, false
		}
	}
	return node, node != nil
}
