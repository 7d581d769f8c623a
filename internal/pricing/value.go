package pricing

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	dErrors "quotient/pkg/domain-errors"
)

// Value is a caller-supplied raw parameter value: a string or a number,
// untyped at the JSON boundary. It is resolved explicitly against the
// parameter's declared type by the engine, never by implicit coercion.
type Value struct {
	raw   string
	num   decimal.Decimal
	isNum bool
}

// StringValue wraps a string literal.
func StringValue(s string) Value {
	return Value{raw: s}
}

// NumberValue wraps a numeric literal.
func NumberValue(d decimal.Decimal) Value {
	return Value{raw: d.String(), num: d, isNum: true}
}

// String returns the canonical string form used for option lookup: the
// literal text for strings, the decimal rendering for numbers (so JSON 2
// and "2" address the same option).
func (v Value) String() string {
	return v.raw
}

// Decimal returns the numeric interpretation of the value, parsing string
// values on demand.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if v.isNum {
		return v.num, true
	}
	d, err := decimal.NewFromString(v.raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// UnmarshalJSON accepts JSON strings and numbers; anything else is a
// validation error.
func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		d, derr := decimal.NewFromString(n.String())
		if derr != nil {
			return dErrors.New(dErrors.CodeValidation, "parameter values must be strings or numbers")
		}
		*v = NumberValue(d)
		return nil
	}
	return dErrors.New(dErrors.CodeValidation, "parameter values must be strings or numbers")
}

// MarshalJSON renders numbers as numbers and strings as strings, so stored
// input snapshots round-trip the caller's request.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		return []byte(v.num.String()), nil
	}
	return json.Marshal(v.raw)
}

// Inputs maps parameter names to the raw values supplied by the caller.
type Inputs map[string]Value
