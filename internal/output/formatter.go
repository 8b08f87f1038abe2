// Package output provides formatters for displaying OpenNebula resources
// and command results in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/onectl/internal/resource"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// Result is the outcome record of a command.
type Result struct {
	Changed         bool   `json:"changed" yaml:"changed"`
	Failed          bool   `json:"failed,omitempty" yaml:"failed,omitempty"`
	OriginalMessage string `json:"original_message" yaml:"original_message"`
	Message         string `json:"message" yaml:"message"`
}

// Formatter formats resources and results for output.
type Formatter interface {
	// FormatHandle formats a single resource.
	FormatHandle(h *resource.Handle) (string, error)

	// FormatHandleList formats a list of resources.
	FormatHandleList(handles []resource.Handle) (string, error)

	// FormatResult formats a command result.
	FormatResult(r Result) (string, error)
}

// StateNamer renders the state of a handle, e.g. "ACTIVE/RUNNING".
type StateNamer func(h *resource.Handle) string

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
	// StateName renders the STATE column in table format. If nil, the
	// numeric state is shown.
	StateName StateNamer
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders, StateName: opts.StateName}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
