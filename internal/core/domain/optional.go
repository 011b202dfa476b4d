package domain

import "encoding/json"

// OptionalString is a tri-state JSON field: absent, explicit null, or a
// value. Plain *string conflates the first two, which matters for
// employment end_date where change reporting depends on whether the caller
// mentioned the field at all.
type OptionalString struct {
	Set   bool    // true when the field appeared in the payload
	Value *string // nil for explicit null
}

// UnmarshalJSON is only invoked when the field is present in the payload,
// including for a literal null, so Set is unconditionally true here. An
// omitted field leaves the zero value (Set=false).
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// MarshalJSON renders the value, or null when unset or explicitly null.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// NewOptionalString builds a present OptionalString with a value.
func NewOptionalString(s string) OptionalString {
	return OptionalString{Set: true, Value: &s}
}

// NullOptionalString builds a present OptionalString that is explicitly null.
func NullOptionalString() OptionalString {
	return OptionalString{Set: true}
}
