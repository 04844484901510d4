package models

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the shapes a Value can take.
type ValueKind int

const (
	// Empty is the typed default for a field nothing was extracted for.
	Empty ValueKind = iota
	// Text is a scalar string.
	Text
	// Number is a scalar numeric value.
	Number
	// List is an ordered list of strings.
	List
)

// Value is one extracted field value. A Value is never partially set:
// either the whole field was found or the Value stays Empty.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	List   []string
}

// EmptyValue returns the empty default.
func EmptyValue() Value { return Value{} }

// TextValue returns a scalar string Value. An empty string is Empty.
func TextValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Kind: Text, Text: s}
}

// NumberValue returns a scalar numeric Value.
func NumberValue(n float64) Value { return Value{Kind: Number, Number: n} }

// ListValue returns a list Value. An empty list is Empty.
func ListValue(items []string) Value {
	if len(items) == 0 {
		return Value{}
	}
	return Value{Kind: List, List: items}
}

// IsEmpty reports whether the value is the empty default.
func (v Value) IsEmpty() bool { return v.Kind == Empty }

// String renders the value as plain text without field-kind formatting.
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Text
	case Number:
		return trimNumber(v.Number)
	case List:
		return FormatBullets(v.List)
	default:
		return ""
	}
}

// MarshalJSON emits the natural interchange form: string, number,
// array of strings, or "" for the empty default.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Text:
		return json.Marshal(v.Text)
	case Number:
		return json.Marshal(v.Number)
	case List:
		return json.Marshal(v.List)
	default:
		return json.Marshal("")
	}
}

// UnmarshalJSON accepts the same interchange forms MarshalJSON emits.
// null and "" both decode to the empty default.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = TextValue(t)
	case float64:
		*v = NumberValue(t)
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("list value items must be strings, got %T", item)
			}
			items = append(items, s)
		}
		*v = ListValue(items)
	default:
		return fmt.Errorf("unsupported value shape %T", t)
	}
	return nil
}
