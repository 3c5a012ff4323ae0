package refdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is the zero Value.
	KindNull Kind = iota
	// KindString holds a string.
	KindString
	// KindInteger holds an int64. A source number is an integer only when its
	// textual form parses losslessly as int64 ("7" yes, "7.0" no).
	KindInteger
	// KindFloat holds a float64.
	KindFloat
	// KindBool holds a bool.
	KindBool
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is an immutable scalar field value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue wraps an int64.
func IntValue(i int64) Value { return Value{kind: KindInteger, i: i} }

// FloatValue wraps a float64.
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// numberValue converts a JSON number token, preserving the integer/float
// distinction of the source text.
func numberValue(n json.Number) (Value, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return IntValue(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return Value{}, fmt.Errorf("number %q out of range: %w", string(n), err)
	}
	return FloatValue(f), nil
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string variant.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer variant. A float does not report as an integer
// even when it has no fractional part.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInteger
}

// AsFloat returns the numeric value as a float64 for either numeric kind.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInteger:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// AsBool returns the bool variant.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String returns a display form suitable for logs and list views.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "?"
	}
}

// Equal reports whether v equals o. Strings compare case-insensitively when
// foldCase is set. Integers and floats compare across kinds after coercion to
// a common numeric representation, so IntValue(7) equals FloatValue(7.0).
func (v Value) Equal(o Value, foldCase bool) bool {
	if vn, ok := v.AsFloat(); ok {
		on, ook := o.AsFloat()
		if !ook {
			return false
		}
		if v.kind == KindInteger && o.kind == KindInteger {
			return v.i == o.i
		}
		return vn == on
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		if foldCase {
			return strings.EqualFold(v.str, o.str)
		}
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	default:
		return false
	}
}
