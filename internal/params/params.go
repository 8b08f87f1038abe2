// Package params holds the parameter set of one invocation and resolves
// secondary identities (names) into primary ones (IDs).
package params

import (
	"context"
	"fmt"
	"maps"
	"strconv"

	"github.com/jbweber/onectl/internal/locator"
	"github.com/jbweber/onectl/internal/resource"
)

// Set maps parameter names to values. Values are strings, ints, bools or nil.
type Set map[string]interface{}

// Get returns the value of name, or nil if it is not set.
func (s Set) Get(name string) interface{} {
	return s[name]
}

// IsParameter reports whether name was provided or resolved with a non-nil
// value.
func (s Set) IsParameter(name string) bool {
	v, ok := s[name]
	return ok && v != nil
}

// String returns the value of name as a string. Missing and nil values
// return "".
func (s Set) String(name string) string {
	v := s[name]
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value of name as an int. A missing or nil value returns
// nil so that ID 0 stays distinct from "not given".
func (s Set) Int(name string) (*int, error) {
	var n int
	switch v := s[name].(type) {
	case nil:
		return nil, nil
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != float64(int(v)) {
			return nil, fmt.Errorf("parameter %s: %v is not an integer", name, v)
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", name, err)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("parameter %s: unsupported type %T", name, v)
	}
	return &n, nil
}

// Bool returns the value of name as a bool. Missing values return false.
func (s Set) Bool(name string) (bool, error) {
	switch v := s[name].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parameter %s: %w", name, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("parameter %s: unsupported type %T", name, v)
	}
}

// Finder looks up a single object. In production, this is satisfied by
// *locator.Locator.
type Finder interface {
	Find(ctx context.Context, kind resource.Kind, s locator.Strategy) (*resource.Handle, error)
}

// resolution injects the ID parameter To when the name parameter From is set.
type resolution struct {
	From string
	To   string
	Kind resource.Kind
}

var resolutions = []resolution{
	{From: "cluster_name", To: "cluster_id", Kind: resource.KindCluster},
}

// Resolve returns a copy of raw with secondary-identity parameters resolved.
// When cluster_name is set and a cluster with that name exists, cluster_id
// is added. A miss leaves the ID unset. Ambiguous names are an error.
func Resolve(ctx context.Context, raw Set, finder Finder) (Set, error) {
	resolved := maps.Clone(raw)
	if resolved == nil {
		resolved = Set{}
	}

	for _, r := range resolutions {
		if !raw.IsParameter(r.From) {
			continue
		}

		h, err := finder.Find(ctx, r.Kind, locator.MatchName(raw.String(r.From)))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", r.From, err)
		}
		if h != nil {
			resolved[r.To] = h.ID
		}
	}

	return resolved, nil
}
