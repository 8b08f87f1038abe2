package output

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/onectl/internal/resource"
)

// YAMLFormatter formats resources as YAML.
type YAMLFormatter struct{}

// FormatHandle formats a single resource as YAML.
func (f *YAMLFormatter) FormatHandle(h *resource.Handle) (string, error) {
	data, err := yaml.Marshal(h)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s to YAML: %w", h.Kind, err)
	}

	return string(data), nil
}

// FormatHandleList formats a list of resources as YAML.
// Outputs as a YAML stream (multiple documents separated by ---).
func (f *YAMLFormatter) FormatHandleList(handles []resource.Handle) (string, error) {
	if len(handles) == 0 {
		return "", nil
	}

	var buf bytes.Buffer

	for i := range handles {
		data, err := yaml.Marshal(&handles[i])
		if err != nil {
			return "", fmt.Errorf("failed to marshal %s %d to YAML: %w", handles[i].Kind, handles[i].ID, err)
		}

		// Add document separator between resources (but not before the first one)
		if i > 0 {
			buf.WriteString("---\n")
		}

		buf.Write(data)
	}

	return buf.String(), nil
}

// FormatResult formats a result as YAML.
func (f *YAMLFormatter) FormatResult(r Result) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to YAML: %w", err)
	}

	return string(data), nil
}
