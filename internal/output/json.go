package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/onectl/internal/resource"
)

// JSONFormatter formats resources as JSON.
type JSONFormatter struct{}

// FormatHandle formats a single resource as JSON.
func (f *JSONFormatter) FormatHandle(h *resource.Handle) (string, error) {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s to JSON: %w", h.Kind, err)
	}

	return string(data) + "\n", nil
}

// FormatHandleList formats a list of resources as a JSON array.
func (f *JSONFormatter) FormatHandleList(handles []resource.Handle) (string, error) {
	if len(handles) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(handles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal resources to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatResult formats a result as a JSON object.
func (f *JSONFormatter) FormatResult(r Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
