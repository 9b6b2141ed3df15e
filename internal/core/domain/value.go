package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants of a PropertyValue.
type ValueKind int

const (
	// KindAbsent means no usable value was present.
	KindAbsent ValueKind = iota
	// KindString is a textual value.
	KindString
	// KindNumber is a numeric value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
)

// PropertyValue is a category property value: string, number or bool.
// The server serializes property values either as bare scalars or wrapped
// in a {"value": ...} object; both forms are accepted. All type coercion
// happens here so the rest of the pipeline never touches raw JSON.
type PropertyValue struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue builds a string-typed PropertyValue.
func StringValue(s string) PropertyValue {
	return PropertyValue{Kind: KindString, Str: s}
}

// NumberValue builds a number-typed PropertyValue.
func NumberValue(f float64) PropertyValue {
	return PropertyValue{Kind: KindNumber, Num: f}
}

// BoolValue builds a bool-typed PropertyValue.
func BoolValue(b bool) PropertyValue {
	return PropertyValue{Kind: KindBool, Bool: b}
}

// UnmarshalJSON accepts a scalar or a {"value": ...} wrapper.
// Values of any other shape decode as absent rather than failing the
// whole collection; a malformed property is a data-integrity warning,
// not a fatal error.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = PropertyValue{}
		return nil
	}

	switch {
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case trimmed == "true" || trimmed == "false":
		*v = BoolValue(trimmed == "true")
	case strings.HasPrefix(trimmed, "{"):
		var wrapper struct {
			Value *PropertyValue `json:"value"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Value == nil {
			*v = PropertyValue{}
			return nil
		}
		*v = *wrapper.Value
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			*v = PropertyValue{}
			return nil
		}
		*v = NumberValue(n)
	}
	return nil
}

// MarshalJSON writes the scalar form.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	default:
		return []byte("null"), nil
	}
}

// IsAbsent reports whether the value carries no data.
func (v PropertyValue) IsAbsent() bool {
	return v.Kind == KindAbsent
}

// String renders the value as text.
func (v PropertyValue) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Float coerces the value to a float64. Strings are parsed; booleans and
// absent values do not coerce.
func (v PropertyValue) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FloatOr coerces to float64, returning def on failure.
func (v PropertyValue) FloatOr(def float64) float64 {
	f, ok := v.Float()
	if !ok {
		return def
	}
	return f
}

// Int coerces the value to an int. Numeric values truncate; strings must
// parse as a base-10 integer.
func (v PropertyValue) Int() (int, bool) {
	switch v.Kind {
	case KindNumber:
		return int(v.Num), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// IntOr coerces to int, returning def on failure.
func (v PropertyValue) IntOr(def int) int {
	n, ok := v.Int()
	if !ok {
		return def
	}
	return n
}

// ResolvedProperties is the effective property set of an entity after
// entity-level and category-level inheritance have been merged.
// A nil map means the entity has no visualization data at all.
type ResolvedProperties map[string]PropertyValue

// Has reports whether a property is present.
func (p ResolvedProperties) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// FloatOr returns the named property as float64, or def when the property
// is missing or does not coerce.
func (p ResolvedProperties) FloatOr(name string, def float64) float64 {
	v, ok := p[name]
	if !ok {
		return def
	}
	return v.FloatOr(def)
}

// Float returns the named property as float64 when present and coercible.
func (p ResolvedProperties) Float(name string) (float64, bool) {
	v, ok := p[name]
	if !ok {
		return 0, false
	}
	return v.Float()
}

// IntOr returns the named property as int, or def when the property is
// missing or does not coerce.
func (p ResolvedProperties) IntOr(name string, def int) int {
	v, ok := p[name]
	if !ok {
		return def
	}
	return v.IntOr(def)
}

// StringOr returns the named property rendered as text, or def when missing.
func (p ResolvedProperties) StringOr(name, def string) string {
	v, ok := p[name]
	if !ok {
		return def
	}
	return v.String()
}
