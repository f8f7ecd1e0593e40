package esadapter

import (
	"github.com/mintel/elasticsearch-adapter/pkg/str"
)

// Restrict applies the restrict/skip lists of every json-typed attribute to
// values before they are written. The restrict list keeps only the listed
// sub-keys; the skip list then drops the listed sub-keys. Both apply
// element-wise when the attribute value is a list of objects.
//
// values is mutated in place and returned.
func (c *Collection) Restrict(values Record) Record {
	if c == nil || values == nil {
		return values
	}
	for name, attr := range c.Attributes {
		if attr == nil || attr.Type != "json" {
			continue
		}
		v, ok := values[name]
		if !ok {
			continue
		}
		if len(attr.RestrictAttributes) > 0 {
			keepKeys(v, attr.RestrictAttributes)
		}
		if len(attr.SkipAttributes) > 0 {
			dropKeys(v, attr.SkipAttributes)
		}
	}
	return values
}

// keepKeys deletes every sub-key of v not present in keep.
func keepKeys(v interface{}, keep []string) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k := range t {
			if !str.In(k, keep...) {
				delete(t, k)
			}
		}
	case []interface{}:
		for _, e := range t {
			keepKeys(e, keep)
		}
	}
}

// dropKeys deletes every sub-key of v present in skip.
func dropKeys(v interface{}, skip []string) {
	switch t := v.(type) {
	case map[string]interface{}:
		for k := range t {
			if str.In(k, skip...) {
				delete(t, k)
			}
		}
	case []interface{}:
		for _, e := range t {
			dropKeys(e, skip)
		}
	}
}
