package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/decimal"
)

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("123456.78")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("123456.78")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"brazilian thousands and cents", "1.234,56", "1234.56"},
		{"comma decimal", "35,57", "35.57"},
		{"currency prefix", "R$ 1.234,56", "1234.56"},
		{"currency without space", "R$38,57", "38.57"},
		{"integer", "1234", "1234"},
		{"canonical", "1234.56", "1234.56"},
		{"four fractional digits", "2,5000", "2.5"},
		{"surrounding whitespace", "  10,00 ", "10"},
		{"negative", "-1.000,50", "-1000.5"},
		{"non-breaking space", "1 234,56", "1234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, d.Equal(dec.RequireFromString(tt.expected)),
				"input=%q: got %s, want %s", tt.input, d.String(), tt.expected)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "R$", "abc", "1,2,3", "12a"} {
		t.Run(input, func(t *testing.T) {
			d, err := decimal.Parse(input)
			require.ErrorIs(t, err, decimal.ErrInvalidNumber)
			assert.True(t, d.IsZero())
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	first, err := decimal.Parse("R$ 9.876,5432")
	require.NoError(t, err)

	second, err := decimal.Parse(first.String())
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.Equal(t, "9876.5432", second.String())
}

func TestMul(t *testing.T) {
	a := dec.NewFromInt(100)
	b := dec.NewFromFloat(0.15)
	result := decimal.Mul(a, b)
	assert.True(t, result.Equal(dec.NewFromInt(15)))
}

func TestLineTotal(t *testing.T) {
	qty := dec.RequireFromString("3.33335")
	price := dec.RequireFromString("10")

	// quantity rounds to 3.3334 before the product
	result := decimal.LineTotal(qty, price)
	assert.True(t, result.Equal(dec.RequireFromString("33.33")), "got %s", result)
}

func TestCalculatePercentage(t *testing.T) {
	amount := dec.NewFromInt(300)
	percentage := dec.RequireFromString("18")

	result := decimal.CalculatePercentage(amount, percentage)
	assert.True(t, result.Equal(dec.NewFromInt(54)))
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.NewFromInt(100),
		dec.NewFromInt(200),
		dec.NewFromInt(300),
	}
	result := decimal.Sum(values)
	assert.True(t, result.Equal(dec.NewFromInt(600)))
}

func TestSum_Empty(t *testing.T) {
	result := decimal.Sum([]dec.Decimal{})
	assert.True(t, result.IsZero())
}

func TestWithinTolerance(t *testing.T) {
	base := dec.NewFromInt(300)
	assert.True(t, decimal.WithinTolerance(base, dec.RequireFromString("300.01"), decimal.DefaultTolerance))
	assert.True(t, decimal.WithinTolerance(base, dec.RequireFromString("299.99"), decimal.DefaultTolerance))
	assert.False(t, decimal.WithinTolerance(base, dec.RequireFromString("300.1"), decimal.DefaultTolerance))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "R$ 0,00"},
		{"38.57", "R$ 38,57"},
		{"1234.5", "R$ 1.234,50"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-300.1", "-R$ 300,10"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, decimal.FormatBRL(dec.RequireFromString(tt.input)))
		})
	}
}

// Benchmark tests

func BenchmarkParse(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = decimal.Parse("R$ 1.234,56")
	}
}
