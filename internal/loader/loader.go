// Package loader reads parameter sets and desired templates from YAML
// files.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/onectl/internal/params"
	"github.com/jbweber/onectl/internal/template"
)

// LoadParamsFromFile loads a parameter set from a YAML file.
func LoadParamsFromFile(path string) (params.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadParamsFromYAML(data)
}

// LoadParamsFromYAML loads a parameter set from YAML bytes. The document
// must be a mapping of scalar values; an empty document is an empty set.
func LoadParamsFromYAML(data []byte) (params.Set, error) {
	set := params.Set{}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	for name, value := range set {
		if name == "" {
			return nil, fmt.Errorf("parameter names must not be empty")
		}
		switch value.(type) {
		case nil, string, int, bool, float64:
		default:
			return nil, fmt.Errorf("parameter %s: unsupported value of type %T", name, value)
		}
	}

	return set, nil
}

// LoadTemplateFromFile loads a desired template from a YAML file.
func LoadTemplateFromFile(path string) (template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadTemplateFromYAML(data)
}

// LoadTemplateFromYAML loads a desired template from YAML bytes. Values
// keep their YAML types; template.NeedsUpdate normalizes them.
func LoadTemplateFromYAML(data []byte) (template.Template, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	t := template.Template{}
	for key, value := range raw {
		if key == "" {
			return nil, fmt.Errorf("template attribute names must not be empty")
		}
		t[key] = value
	}

	return t, nil
}

// EncodeParams renders a parameter set as YAML with sorted keys.
func EncodeParams(set params.Set) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(map[string]interface{}(set)); err != nil {
		return nil, fmt.Errorf("failed to marshal parameters to YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal parameters to YAML: %w", err)
	}

	return buf.Bytes(), nil
}
