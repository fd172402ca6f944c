package decimal

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// Precision used for intermediate math
const (
	MoneyPlaces    int32 = 2
	QuantityPlaces int32 = 4
)

// DefaultTolerance is the absolute tolerance used when comparing monetary totals
var DefaultTolerance = decimal.New(1, -2)

// ErrInvalidNumber is returned when numeric text cannot be normalized
var ErrInvalidNumber = errors.New("invalid numeric text")

// currency markers stripped before parsing
var currencyMarkers = []string{"R$", "BRL", "$"}

// FromString parses canonical decimal text (no locale handling)
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// Parse normalizes locale-formatted numeric text into a decimal.
//
// Currency markers and whitespace are removed. When both comma and period
// appear, period is the thousands separator and comma the decimal separator
// ("1.234,56"). A lone comma is the decimal separator ("35,57"). Anything
// else is parsed as-is.
func Parse(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if s == "" {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return d, nil
}

// RoundMoney rounds to cents
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// RoundQuantity rounds quantities and unit prices to 4 places
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(MoneyPlaces)
}

// LineTotal computes quantity * unit price at money precision
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return Mul(RoundQuantity(quantity), RoundQuantity(unitPrice))
}

// CalculatePercentage computes: amount * (percentage/100), rounded to cents
func CalculatePercentage(amount decimal.Decimal, percentage decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return amount.Mul(percentage).Div(hundred).Round(MoneyPlaces)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Diff returns |a - b|
func Diff(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// WithinTolerance reports whether |a - b| <= tolerance
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return Diff(a, b).LessThanOrEqual(tolerance)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// Float returns the float64 value, used for result payloads
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// FormatBRL renders a value in Brazilian notation: "R$ 1.234,56"
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(MoneyPlaces)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
