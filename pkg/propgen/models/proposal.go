package models

import "encoding/json"

// ProposalData maps every proposal field to its extracted value.
// A fresh instance carries the empty default for each field.
type ProposalData map[Field]Value

// NewProposalData returns a ProposalData with every field at its
// empty default.
func NewProposalData() ProposalData {
	data := make(ProposalData, len(Fields()))
	for _, f := range Fields() {
		data[f] = EmptyValue()
	}
	return data
}

// Get returns the value for a field, or the empty default for a field
// that is absent from the map.
func (d ProposalData) Get(f Field) Value {
	if v, ok := d[f]; ok {
		return v
	}
	return EmptyValue()
}

// MarshalJSON emits a flat field-name-to-value object.
func (d ProposalData) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(d))
	for f, v := range d {
		out[string(f)] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat field-name-to-value object. Unknown keys
// are dropped so hand-edited data files cannot poison the field set;
// fields missing from the input stay at their empty default.
func (d *ProposalData) UnmarshalJSON(data []byte) error {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewProposalData()
	for name, v := range raw {
		f := Field(name)
		if f.Valid() {
			out[f] = v
		}
	}
	*d = out
	return nil
}
