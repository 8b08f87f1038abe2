// Package locator resolves resource identities from user input.
//
// Single-resource lookups enforce "exactly one match or none": zero matches
// is absence (nil, nil), more than one is always a *MultipleMatchesError.
// VM name patterns select in bulk instead and return every match in pool
// order.
package locator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jbweber/onectl/internal/resource"
)

var (
	// ErrMultipleMatches is returned when a name resolves to more than one object.
	ErrMultipleMatches = errors.New("multiple matches")

	// ErrNotFound is returned when a required lookup has no match.
	ErrNotFound = errors.New("not found")
)

// MultipleMatchesError names the ambiguous kind and name.
type MultipleMatchesError struct {
	Kind resource.Kind
	Name string
}

func (e *MultipleMatchesError) Error() string {
	return fmt.Sprintf("there are more %s with name: %s", e.Kind.Plural(), e.Name)
}

func (e *MultipleMatchesError) Is(target error) bool {
	return target == ErrMultipleMatches
}

// NotFoundError describes a required lookup that matched nothing.
type NotFoundError struct {
	Kind  resource.Kind
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %s with %s", strings.ToUpper(string(e.Kind)), e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StrategyType tags the lookup strategies.
type StrategyType int

const (
	ByID StrategyType = iota
	ByExactName
	ByRegex
)

func (t StrategyType) String() string {
	switch t {
	case ByID:
		return "id"
	case ByExactName:
		return "name"
	case ByRegex:
		return "regex"
	default:
		return fmt.Sprintf("strategy(%d)", int(t))
	}
}

// Strategy is a tagged lookup strategy. Build values with MatchID,
// MatchName and MatchRegex.
type Strategy struct {
	Type            StrategyType
	ID              int
	Name            string
	Pattern         string
	CaseInsensitive bool

	re *regexp.Regexp
}

// MatchID matches the integer ID.
func MatchID(id int) Strategy {
	return Strategy{Type: ByID, ID: id}
}

// MatchName matches the exact name.
func MatchName(name string) Strategy {
	return Strategy{Type: ByExactName, Name: name}
}

// MatchRegex matches names against pattern anchored at the start of the
// name.
func MatchRegex(pattern string, caseInsensitive bool) (Strategy, error) {
	expr := "^(?:" + pattern + ")"
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return Strategy{}, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
	}
	return Strategy{Type: ByRegex, Pattern: pattern, CaseInsensitive: caseInsensitive, re: re}, nil
}

// ParsePattern interprets a VM name pattern. A leading "~" makes the rest a
// regular expression, "~*" additionally makes it case-insensitive. Anything
// else is an exact name.
func ParsePattern(pattern string) (Strategy, error) {
	switch {
	case strings.HasPrefix(pattern, "~*"):
		return MatchRegex(pattern[2:], true)
	case strings.HasPrefix(pattern, "~"):
		return MatchRegex(pattern[1:], false)
	}
	return MatchName(pattern), nil
}

// Matches reports whether h satisfies the strategy.
func (s Strategy) Matches(h resource.Handle) bool {
	switch s.Type {
	case ByID:
		return h.ID == s.ID
	case ByExactName:
		return h.Name == s.Name
	case ByRegex:
		return s.re != nil && s.re.MatchString(h.Name)
	}
	return false
}

// Describe renders the strategy for messages, e.g. "name=web1".
func (s Strategy) Describe() string {
	switch s.Type {
	case ByID:
		return fmt.Sprintf("id=%d", s.ID)
	case ByRegex:
		return fmt.Sprintf("pattern=%s", s.Pattern)
	}
	return "name=" + s.Name
}

// label is the name used in MultipleMatchesError.
func (s Strategy) label(fallback string) string {
	switch s.Type {
	case ByExactName:
		return s.Name
	case ByRegex:
		return s.Pattern
	}
	return fallback
}
