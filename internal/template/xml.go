package template

import (
	"encoding/xml"
	"strings"
)

// UnmarshalXML decodes a TEMPLATE or USER_TEMPLATE element. Leaf elements
// become strings, elements with children become nested templates and
// repeated attributes (several DISK or NIC entries) become a []interface{}.
func (t *Template) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	value, err := decodeValue(d)
	if err != nil {
		return err
	}
	if sub, ok := value.(Template); ok {
		*t = sub
		return nil
	}
	*t = Template{}
	return nil
}

func decodeValue(d *xml.Decoder) (interface{}, error) {
	var text strings.Builder
	var sub Template

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if sub == nil {
				sub = Template{}
			}
			value, err := decodeValue(d)
			if err != nil {
				return nil, err
			}
			sub.add(el.Name.Local, value)
		case xml.CharData:
			text.Write(el)
		case xml.EndElement:
			if sub != nil {
				return sub, nil
			}
			return text.String(), nil
		}
	}
}

func (t Template) add(key string, value interface{}) {
	existing, ok := t[key]
	if !ok {
		t[key] = value
		return
	}
	if list, ok := existing.([]interface{}); ok {
		t[key] = append(list, value)
		return
	}
	t[key] = []interface{}{existing, value}
}
