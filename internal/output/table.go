package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/jbweber/onectl/internal/permissions"
	"github.com/jbweber/onectl/internal/resource"
)

// TableFormatter formats resources as human-readable tables.
type TableFormatter struct {
	// NoHeaders omits the header row.
	NoHeaders bool
	// StateName renders the STATE column.
	StateName StateNamer
}

// FormatHandle formats a single resource as a table row.
func (f *TableFormatter) FormatHandle(h *resource.Handle) (string, error) {
	return f.FormatHandleList([]resource.Handle{*h})
}

// FormatHandleList formats a list of resources as a table.
func (f *TableFormatter) FormatHandleList(handles []resource.Handle) (string, error) {
	if len(handles) == 0 {
		return "No resources found\n", nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	// Write header unless NoHeaders is set
	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "ID\tNAME\tOWNER\tGROUP\tSTATE\tPERMS")
	}

	for i := range handles {
		h := &handles[i]

		owner := h.UName
		if owner == "" {
			owner = strconv.Itoa(h.UID)
		}
		group := h.GName
		if group == "" {
			group = strconv.Itoa(h.GID)
		}

		perms := "-"
		if h.Permissions != nil {
			perms = permissions.Encode(*h.Permissions)
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			h.ID, h.Name, owner, group, f.state(h), perms)
	}

	_ = w.Flush()
	return buf.String(), nil
}

func (f *TableFormatter) state(h *resource.Handle) string {
	if f.StateName != nil {
		if s := f.StateName(h); s != "" {
			return s
		}
		return "-"
	}
	return strconv.Itoa(h.State)
}

// FormatResult formats a result as a two column table.
func (f *TableFormatter) FormatResult(r Result) (string, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	if !f.NoHeaders {
		_, _ = fmt.Fprintln(w, "CHANGED\tMESSAGE")
	}

	message := r.Message
	if message == "" {
		message = "-"
	}
	if r.Failed {
		message = "FAILED: " + message
	}
	_, _ = fmt.Fprintf(w, "%t\t%s\n", r.Changed, message)

	_ = w.Flush()
	return buf.String(), nil
}
