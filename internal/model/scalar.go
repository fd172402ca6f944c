package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	fdec "github.com/rezonia/fiscal-validator/internal/decimal"
)

var jsonNull = []byte("null")

// Text is a string field that also accepts JSON numbers and booleans.
// Parsers emit document numbers, CFOPs and CNPJs either way.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	*t = Text(trimmed)
	return nil
}

// String returns the text value
func (t Text) String() string {
	return string(t)
}

// IsEmpty reports whether the text is blank
func (t Text) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Amount is a numeric field as received: locale-formatted text or a JSON number.
// The zero value is an absent amount.
type Amount struct {
	raw     string
	set     bool
	numeric bool
}

// AmountOf builds an amount from text, e.g. "1.234,56"
func AmountOf(raw string) Amount {
	if strings.TrimSpace(raw) == "" {
		return Amount{}
	}
	return Amount{raw: raw, set: true}
}

// AmountFromDecimal builds a numeric amount
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{raw: d.String(), set: true, numeric: true}
}

// IsSet reports whether a value was provided
func (a Amount) IsSet() bool {
	return a.set
}

// Raw returns the value as received
func (a Amount) Raw() string {
	return a.raw
}

// Decimal normalizes the amount. Absent amounts are zero.
func (a Amount) Decimal() (decimal.Decimal, error) {
	if !a.set {
		return fdec.Zero, nil
	}
	if a.numeric {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return fdec.Zero, err
		}
		return d, nil
	}
	return fdec.Parse(a.raw)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*a = Amount{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = AmountOf(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*a = Amount{raw: string(trimmed), set: true, numeric: true}
	default:
		// booleans, objects and arrays are kept and fail normalization later
		*a = Amount{raw: string(trimmed), set: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.set {
		return jsonNull, nil
	}
	if a.numeric {
		return []byte(a.raw), nil
	}
	return json.Marshal(a.raw)
}
