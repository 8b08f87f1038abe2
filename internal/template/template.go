// Package template models OpenNebula free-form templates and decides when a
// desired template requires an update call.
//
// OpenNebula stores every template value as text. User supplied desired
// values (ints, bools, lists) are coerced the same way before they are
// compared against an observed template, otherwise a diff would report drift
// forever for values like MEMORY=2048 vs MEMORY="2048".
package template

import (
	"fmt"
	"reflect"
	"strings"
)

// Template is a nested attribute map. A value is a string, a nested Template
// (vector attribute), or a sequence of scalars before normalization.
type Template map[string]interface{}

// Normalize coerces every leaf of t to its text form in place:
//   - nested maps are normalized recursively
//   - sequences are joined with ", "
//   - any other non-string scalar is replaced with its string form
//
// Normalize is idempotent.
func Normalize(t Template) {
	for key, value := range t {
		switch v := value.(type) {
		case Template:
			Normalize(v)
		case map[string]interface{}:
			Normalize(Template(v))
			t[key] = Template(v)
		case string:
		case nil:
			t[key] = ""
		default:
			if s, ok := joinSequence(v); ok {
				t[key] = s
				continue
			}
			t[key] = fmt.Sprint(v)
		}
	}
}

// joinSequence joins slices and arrays of any element type.
func joinSequence(value interface{}) (string, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", false
	}
	parts := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		parts = append(parts, fmt.Sprint(rv.Index(i).Interface()))
	}
	return strings.Join(parts, ", "), true
}

// NeedsUpdate reports whether applying desired on top of current would
// change anything. Keys that exist only in current are ignored.
//
// desired is normalized in place and must be treated as consumed.
func NeedsUpdate(current, desired Template) bool {
	if len(desired) == 0 {
		return false
	}

	Normalize(desired)

	intersection := make(Template, len(desired))
	for key := range desired {
		value, ok := current[key]
		if !ok {
			return true
		}
		intersection[key] = value
	}

	return !equal(intersection, desired)
}

// equal compares two templates treating Template and map[string]interface{}
// as the same shape.
func equal(a, b Template) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok {
			return false
		}
		am, aIsMap := asTemplate(av)
		bm, bIsMap := asTemplate(bv)
		switch {
		case aIsMap && bIsMap:
			if !equal(am, bm) {
				return false
			}
		case aIsMap != bIsMap:
			return false
		default:
			if !reflect.DeepEqual(av, bv) {
				return false
			}
		}
	}
	return true
}

func asTemplate(v interface{}) (Template, bool) {
	switch m := v.(type) {
	case Template:
		return m, true
	case map[string]interface{}:
		return Template(m), true
	}
	return nil, false
}
