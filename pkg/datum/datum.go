// Package datum defines the record type shared by scales, adapters, and the
// dataset readers: an ordered mapping from field name to a numeric or
// categorical value.
//
// Field order is preserved from the source document (JSON key order, CSV
// header order) because some adapters derive stage order from it.
package datum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

// Value is a numeric or categorical field value.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Number(v float64) Value { return Value{kind: KindNumber, num: v} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func Null() Value            { return Value{} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsNull() bool   { return v.kind == KindNull }

// Float returns the numeric reading of v. Strings that parse as numbers are
// accepted; anything else reports false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String returns the categorical reading of v. Numbers are formatted in
// their shortest form; null is the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	}
	return ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	}
	return []byte("null"), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Null()
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case data[0] == 't' || data[0] == 'f':
		*v = String(string(data))
	case data[0] == '{' || data[0] == '[':
		*v = String(string(data))
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("datum: invalid number %s", data)
		}
		*v = Number(f)
	}
	return nil
}

// Point is one record: an ordered mapping from field name to Value.
// The zero Point is empty and ready to use.
type Point struct {
	fields []string
	values map[string]Value
}

// FromMap builds a Point from m, ordering fields as listed in order. Fields
// of m missing from order are appended in lexical order.
func FromMap(m map[string]Value, order ...string) Point {
	var p Point
	for _, f := range order {
		if v, ok := m[f]; ok {
			p.Set(f, v)
		}
	}
	rest := make([]string, 0, len(m))
	for f := range m {
		if _, ok := p.values[f]; !ok {
			rest = append(rest, f)
		}
	}
	slices.Sort(rest)
	for _, f := range rest {
		p.Set(f, m[f])
	}
	return p
}

// Set assigns field. New fields are appended to the field order.
func (p *Point) Set(field string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[field]; !ok {
		p.fields = append(p.fields, field)
	}
	p.values[field] = v
}

// Get returns the value of field.
func (p Point) Get(field string) (Value, bool) {
	v, ok := p.values[field]
	return v, ok
}

// Has reports whether field is present.
func (p Point) Has(field string) bool {
	_, ok := p.values[field]
	return ok
}

// Number returns the numeric reading of field, or 0 when the field is
// missing, non-numeric, or non-finite.
func (p Point) Number(field string) float64 {
	f, ok := p.values[field].Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Text returns the categorical reading of field, or "" when missing.
func (p Point) Text(field string) string {
	return p.values[field].String()
}

// Fields returns the field names in document order.
func (p Point) Fields() []string {
	out := make([]string, len(p.fields))
	copy(out, p.fields)
	return out
}

// Len returns the number of fields.
func (p Point) Len() int { return len(p.fields) }

func (p Point) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := p.values[f].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (p *Point) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("datum: expected object, got %v", tok)
	}
	*p = Point{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("datum: expected key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("datum: field %q: %w", key, err)
		}
		p.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
