// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind tags the variant held by a FieldValue.
type Kind int

const (
	Absent Kind = iota
	String
	Number
	List
	Raw
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case List:
		return "list"
	case Raw:
		return "raw"
	default:
		return "absent"
	}
}

// FieldValue is a tagged union over string, number, list of primitives, any
// other JSON value (Raw) and absence. The zero value is Absent, which is not
// the same thing as an empty string or an empty list.
type FieldValue struct {
	kind  Kind
	str   string
	num   float64
	items []string
	raw   json.RawMessage
}

// AbsentValue returns the absent FieldValue.
func AbsentValue() FieldValue { return FieldValue{} }

// StringValue wraps s.
func StringValue(s string) FieldValue { return FieldValue{kind: String, str: s} }

// NumberValue wraps n.
func NumberValue(n float64) FieldValue { return FieldValue{kind: Number, num: n} }

// ListValue wraps a copy of items. A nil slice still yields a present, empty
// list.
func ListValue(items []string) FieldValue {
	cp := make([]string, len(items))
	copy(cp, items)
	return FieldValue{kind: List, items: cp}
}

// RawValue wraps an arbitrary JSON document, compacted so that equal
// documents compare equal byte for byte.
func RawValue(doc []byte) FieldValue {
	var buf bytes.Buffer
	if err := json.Compact(&buf, doc); err != nil {
		return FieldValue{kind: Raw, raw: append(json.RawMessage(nil), doc...)}
	}
	return FieldValue{kind: Raw, raw: buf.Bytes()}
}

func (v FieldValue) Kind() Kind      { return v.kind }
func (v FieldValue) IsAbsent() bool  { return v.kind == Absent }
func (v FieldValue) Str() string     { return v.str }
func (v FieldValue) Num() float64    { return v.num }
func (v FieldValue) RawJSON() []byte { return append([]byte(nil), v.raw...) }

// Items returns a copy of the list elements.
func (v FieldValue) Items() []string {
	cp := make([]string, len(v.items))
	copy(cp, v.items)
	return cp
}

// String renders the value for human-readable reports. Absent renders as
// "None" to match the historical report text.
func (v FieldValue) String() string {
	switch v.kind {
	case String:
		return v.str
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case List:
		return "[" + strings.Join(v.items, ", ") + "]"
	case Raw:
		return string(v.raw)
	default:
		return "None"
	}
}

// Interface returns the value as a plain Go value (nil, string, float64,
// []string or a decoded JSON value) for encoders that walk interfaces.
func (v FieldValue) Interface() any {
	switch v.kind {
	case String:
		return v.str
	case Number:
		return v.num
	case List:
		return v.Items()
	case Raw:
		var out any
		if err := json.Unmarshal(v.raw, &out); err != nil {
			return string(v.raw)
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes Absent as null.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case String:
		return marshal(v.str)
	case Number:
		return json.Marshal(v.num)
	case List:
		return marshal(v.Items())
	case Raw:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// marshal encodes without HTML escaping.
func marshal(x any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(x); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON decodes any JSON value; null becomes Absent.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	*v = FromJSON(gjson.ParseBytes(data))
	return nil
}

// MarshalYAML lets yaml encoders see the underlying value.
func (v FieldValue) MarshalYAML() (interface{}, error) {
	return v.Interface(), nil
}

// FromJSON converts a gjson result into a FieldValue. Arrays made only of
// strings and numbers become lists, every other composite becomes Raw.
// List items are strings: numeric elements keep their JSON text, so [1,2]
// is re-emitted as ["1","2"]. Comparison is on that text and unaffected.
func FromJSON(r gjson.Result) FieldValue {
	switch r.Type {
	case gjson.Null:
		return AbsentValue()
	case gjson.String:
		return StringValue(r.Str)
	case gjson.Number:
		return NumberValue(r.Float())
	case gjson.True, gjson.False:
		return RawValue([]byte(r.Raw))
	}

	if !r.Exists() {
		return AbsentValue()
	}

	if r.IsArray() {
		elems := r.Array()
		items := make([]string, 0, len(elems))
		for _, e := range elems {
			if e.Type != gjson.String && e.Type != gjson.Number {
				return RawValue([]byte(r.Raw))
			}
			items = append(items, e.String())
		}
		return ListValue(items)
	}

	return RawValue([]byte(r.Raw))
}
