// Package document implements the generic key/value payload type used for
// every request, response and event on the wire. A Document behaves like a
// JSON object that remembers insertion order and distinguishes "field was
// supplied" from "field is zero".
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Document struct {
	keys   []string
	values map[string]any
}

func New() *Document {
	return &Document{values: make(map[string]any)}
}

// Parse decodes a single JSON object. Field order is preserved. Null values
// are dropped so that Has reports only fields the sender actually supplied.
func Parse(raw []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse document: not a JSON object")
	}

	doc, err := parseObject(dec)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// parseObject consumes key/value pairs up to and including the closing brace.
func parseObject(dec *json.Decoder) (*Document, error) {
	doc := New()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return doc, nil
		}
		key := tok.(string)

		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		if value != nil {
			doc.set(key, value)
		}
	}
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v.String())
	case bool:
		return v, nil
	case string:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		// JSON null
		return nil, nil
	}
}

func parseArray(dec *json.Decoder) ([]*Document, error) {
	var items []*Document
	for {
		if !dec.More() {
			// consume the closing bracket
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		}
		value, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		// only object elements are meaningful on this protocol
		if item, ok := value.(*Document); ok {
			items = append(items, item)
		}
	}
}

func (d *Document) set(key string, value any) {
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Has reports whether the field was explicitly supplied.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

func (d *Document) Len() int { return len(d.keys) }

// Keys returns field names in insertion order.
func (d *Document) Keys() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

func (d *Document) SetString(key, value string)        { d.set(key, value) }
func (d *Document) SetBool(key string, value bool)     { d.set(key, value) }
func (d *Document) SetInt(key string, value int64)     { d.set(key, value) }
func (d *Document) SetFloat(key string, value float64) { d.set(key, value) }
func (d *Document) SetDoc(key string, value *Document) { d.set(key, value) }

func (d *Document) SetArray(key string, items []*Document) {
	if items == nil {
		items = []*Document{}
	}
	d.set(key, items)
}

// Typed getters return the zero value for absent or mistyped fields.

func (d *Document) String(key string) string {
	v, _ := d.values[key].(string)
	return v
}

func (d *Document) Bool(key string) bool {
	v, _ := d.values[key].(bool)
	return v
}

func (d *Document) Int(key string) int64 {
	switch v := d.values[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func (d *Document) Float(key string) float64 {
	switch v := d.values[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func (d *Document) Doc(key string) *Document {
	v, _ := d.values[key].(*Document)
	return v
}

func (d *Document) Array(key string) []*Document {
	v, _ := d.values[key].([]*Document)
	return v
}

// Apply overlays every field of other onto d, preserving d's ordering for
// keys that already exist.
func (d *Document) Apply(other *Document) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		d.set(key, other.values[key])
	}
}

// Clone returns a shallow copy. Nested documents and arrays are shared; the
// protocol treats handed-off documents as read-only.
func (d *Document) Clone() *Document {
	out := New()
	out.Apply(d)
	return out
}

func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(d.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON serializes the document to a single wire frame.
func (d *Document) JSON() []byte {
	raw, err := d.MarshalJSON()
	if err != nil {
		// every storable value type is marshalable
		return []byte("{}")
	}
	return raw
}
