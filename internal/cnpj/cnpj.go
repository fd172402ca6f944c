// Package cnpj validates Brazilian legal-entity taxpayer identifiers.
package cnpj

import (
	"errors"
	"fmt"
	"strings"
)

// Identifier lengths after stripping punctuation
const (
	Length    = 14
	CPFLength = 11
)

var weights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// Errors returned by Check
var (
	ErrLength  = errors.New("cnpj must have 14 digits")
	ErrUniform = errors.New("cnpj digits are all identical")
	ErrDigits  = errors.New("cnpj check digits do not match")
)

// Digits removes every non-digit character
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Check runs the mod-11 checksum and reports why the identifier fails
func Check(id string) error {
	digits := Digits(id)
	if len(digits) != Length {
		return ErrLength
	}
	if uniform(digits) {
		return ErrUniform
	}
	first := checkDigit(digits[:12], weights[1:])
	second := checkDigit(digits[:12]+string(first), weights[:])
	if digits[12] != first || digits[13] != second {
		return ErrDigits
	}
	return nil
}

// Checksum reports whether the identifier passes the mod-11 checksum
func Checksum(id string) bool {
	return Check(id) == nil
}

func checkDigit(base string, w []int) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * w[i]
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + 11 - rem)
}

func uniform(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// Format renders 14 digits as 00.000.000/0000-00. Other input is
// returned unchanged.
func Format(id string) string {
	d := Digits(id)
	if len(d) != Length {
		return id
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[:2], d[2:5], d[5:8], d[8:12], d[12:])
}

// Kind reports the identifier type by digit count: "cnpj", "cpf" or ""
func Kind(id string) string {
	switch len(Digits(id)) {
	case Length:
		return "cnpj"
	case CPFLength:
		return "cpf"
	}
	return ""
}
