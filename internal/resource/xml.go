package resource

import (
	"encoding/xml"
	"fmt"
)

type pool struct {
	Items []Handle `xml:",any"`
}

// DecodePool decodes a <KIND_POOL> document. Elements that are not objects
// of the requested kind are skipped.
func DecodePool(kind Kind, data []byte) ([]Handle, error) {
	var p pool
	if err := xml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode %s pool: %w", kind, err)
	}

	handles := make([]Handle, 0, len(p.Items))
	for _, h := range p.Items {
		if h.XMLName.Local != kind.Element() {
			continue
		}
		h.Kind = kind
		handles = append(handles, h)
	}
	return handles, nil
}

// DecodeHandle decodes a single object document as returned by an info call.
func DecodeHandle(kind Kind, data []byte) (*Handle, error) {
	var h Handle
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind, err)
	}
	h.Kind = kind
	return &h, nil
}
