package field

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type valueKind int

const (
	valueNull valueKind = iota
	valueNumber
	valueBool
	valueText
)

// Value is a field's current value as reported by the controller.
// The firmware reports numbers for every field the panel renders, but the
// descriptor format allows strings ("r,g,b" for color fields) and booleans,
// so all three are accepted.
type Value struct {
	kind valueKind
	num  float64
	text string
	flag bool
}

// NumberValue returns a numeric Value.
func NumberValue(f float64) Value {
	return Value{kind: valueNumber, num: f}
}

// TextValue returns a string Value.
func TextValue(s string) Value {
	return Value{kind: valueText, text: s}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	return Value{kind: valueBool, flag: b}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("unsupported field value %s: %w", string(data), err)
		}
		*v = NumberValue(f)
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueNumber:
		return json.Marshal(v.num)
	case valueBool:
		return json.Marshal(v.flag)
	case valueText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}

// IsNull reports whether the controller sent no value.
func (v Value) IsNull() bool {
	return v.kind == valueNull
}

// Float returns the value as a number. Booleans map to 0/1 and numeric
// strings are parsed; ok is false when no number can be derived.
func (v Value) Float() (f float64, ok bool) {
	switch v.kind {
	case valueNumber:
		return v.num, true
	case valueBool:
		if v.flag {
			return 1, true
		}
		return 0, true
	case valueText:
		f, err := strconv.ParseFloat(v.text, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Int returns the value truncated to an int, or -1 when it is not numeric.
func (v Value) Int() int {
	f, ok := v.Float()
	if !ok {
		return -1
	}
	return int(f)
}

// Truthy follows the browser client's truthiness: zero, empty string, false
// and null are false; everything else, including the string "0", is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case valueNumber:
		return v.num != 0
	case valueBool:
		return v.flag
	case valueText:
		return v.text != ""
	default:
		return false
	}
}

// String returns the value as it is sent in a form body.
func (v Value) String() string {
	switch v.kind {
	case valueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case valueBool:
		return strconv.FormatBool(v.flag)
	case valueText:
		return v.text
	default:
		return ""
	}
}
