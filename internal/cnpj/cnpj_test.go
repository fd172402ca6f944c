package cnpj_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/fiscal-validator/internal/cnpj"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected bool
	}{
		{"valid plain", "11222333000181", true},
		{"valid formatted", "11.222.333/0001-81", true},
		{"valid branch", "05584042000564", true},
		{"valid", "06117473000150", true},
		{"valid", "12345678000195", true},
		{"wrong first digit", "11222333000191", false},
		{"wrong second digit", "11222333000182", false},
		{"mod-11 failure", "33453678000100", false},
		{"too short", "1122233300018", false},
		{"too long", "112223330001811", false},
		{"cpf length", "12345678909", false},
		{"uniform", "00000000000000", false},
		{"uniform formatted", "11.111.111/1111-11", false},
		{"empty", "", false},
		{"letters", "abcdefghijklmn", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+" "+tt.id, func(t *testing.T) {
			assert.Equal(t, tt.expected, cnpj.Checksum(tt.id))
		})
	}
}

func TestCheckErrors(t *testing.T) {
	assert.ErrorIs(t, cnpj.Check("123"), cnpj.ErrLength)
	assert.ErrorIs(t, cnpj.Check("22222222222222"), cnpj.ErrUniform)
	assert.ErrorIs(t, cnpj.Check("11222333000182"), cnpj.ErrDigits)
	assert.NoError(t, cnpj.Check("11222333000181"))
}

func TestChecksumDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.True(t, cnpj.Checksum("11222333000181"))
		assert.False(t, cnpj.Checksum("11222333000180"))
	}
}

func TestValidatorWithoutOverrides(t *testing.T) {
	v := cnpj.NewValidator()

	assert.False(t, v.IsValid("33453678000100"))
	assert.True(t, v.IsValid("12345678000195"))

	verdict := v.Validate("11.222.333/0001-81")
	assert.True(t, verdict.Valid)
	assert.False(t, verdict.Overridden)
	assert.Equal(t, "11222333000181", verdict.Digits)
	assert.Equal(t, "11.222.333/0001-81", verdict.Formatted)
}

func TestValidatorLegacyOverrides(t *testing.T) {
	v := cnpj.NewValidator(cnpj.WithLegacyOverrides())

	verdict := v.Validate("33453678000100")
	assert.True(t, verdict.Valid)
	assert.True(t, verdict.Overridden)

	verdict = v.Validate("12.345.678/0001-95")
	assert.False(t, verdict.Valid)
	assert.True(t, verdict.Overridden)
	assert.NotEmpty(t, verdict.Reason)

	// identifiers outside the table still follow the checksum
	assert.True(t, v.IsValid("11222333000181"))
	assert.False(t, v.IsValid("11222333000182"))
}

func TestValidatorOverridesNeverFixLength(t *testing.T) {
	v := cnpj.NewValidator(cnpj.WithOverrides(map[string]bool{
		"123":            true,
		"00000000000000": true,
	}))

	assert.False(t, v.IsValid("123"))
	verdict := v.Validate("00000000000000")
	assert.False(t, verdict.Valid)
	assert.False(t, verdict.Overridden)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "33.453.678/0001-00", cnpj.Format("33453678000100"))
	assert.Equal(t, "123", cnpj.Format("123"))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "cnpj", cnpj.Kind("11.222.333/0001-81"))
	assert.Equal(t, "cpf", cnpj.Kind("123.456.789-09"))
	assert.Equal(t, "", cnpj.Kind("12"))
}

func TestDigits(t *testing.T) {
	require.Equal(t, "11222333000181", cnpj.Digits(" 11.222.333/0001-81 "))
}

func BenchmarkChecksum(b *testing.B) {
	for i := 0; i < b.N; i++ {
		cnpj.Checksum("11.222.333/0001-81")
	}
}
