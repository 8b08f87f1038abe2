package vm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jbweber/onectl/internal/resource"
	"github.com/jbweber/onectl/internal/template"
)

// labelsKey is the user template attribute holding comma-separated labels.
const labelsKey = "LABELS"

// LabelsAndAttributes splits the user template of a VM into its labels and
// the remaining attributes.
func LabelsAndAttributes(h *resource.Handle) ([]string, template.Template) {
	labels := []string{}
	attrs := template.Template{}

	for key, value := range h.UserTemplate {
		if key != labelsKey {
			attrs[key] = value
			continue
		}
		if s, ok := value.(string); ok {
			labels = splitLabels(s)
		}
	}

	return labels, attrs
}

func splitLabels(s string) []string {
	labels := []string{}
	for _, l := range strings.Split(s, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// FetchLabelsAndAttributes re-reads the VM and returns its labels and
// attributes.
func FetchLabelsAndAttributes(ctx context.Context, client infoClient, id int) ([]string, template.Template, error) {
	h, err := client.Info(ctx, resource.KindVM, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get VM %d: %w", id, err)
	}
	labels, attrs := LabelsAndAttributes(h)
	return labels, attrs, nil
}
