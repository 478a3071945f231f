// Package core holds the domain types shared by the API server, the seeder
// and the sync worker.
//
// This file contains money parsing and formatting. Monetary amounts are kept
// as integer cents end to end; decimal strings only appear at the JSON
// boundary so no float arithmetic ever touches an amount in transit.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact monetary amount in cents.
type Money struct {
	Cents int64
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both "12.34" and "12,34" are accepted.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12.346") -> 1235, nil (rounds up)
//	ParseDecimalToCents("-3")     -> -300, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take the first two fractional digits, then half-up on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// String renders the amount as a plain decimal literal with trailing zeros
// trimmed, matching how the persistence layer's decimal type prints:
// 1552 -> "15.52", 1550 -> "15.5", 1500 -> "15".
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10)
	if rem := cents % 100; rem != 0 {
		if rem%10 == 0 {
			s += "." + strconv.FormatInt(rem/10, 10)
		} else if rem < 10 {
			s += ".0" + strconv.FormatInt(rem, 10)
		} else {
			s += "." + strconv.FormatInt(rem, 10)
		}
	}
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON emits the amount as an exact JSON number literal.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
// Fixture files carry plain numbers; API clients may send either.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		m.Cents = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if strings.ContainsAny(s, "eE") {
		expanded, err := expandExponent(s)
		if err != nil {
			return err
		}
		s = expanded
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// expandExponent rewrites an exponent-form literal like "1.5e2" as a plain
// decimal string by shifting the decimal point, so the cents conversion stays
// on the integer path. JSON permits exponent notation on any number.
func expandExponent(s string) (string, error) {
	i := strings.IndexAny(s, "eE")
	mantissa, expStr := s[:i], s[i+1:]
	exp, err := strconv.Atoi(expStr)
	if err != nil {
		return "", ErrInvalidAmount
	}

	neg := strings.HasPrefix(mantissa, "-")
	mantissa = strings.TrimPrefix(strings.TrimPrefix(mantissa, "-"), "+")

	intPart, fracPart, _ := strings.Cut(mantissa, ".")
	digits := intPart + fracPart
	if digits == "" {
		return "", ErrInvalidAmount
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return "", ErrInvalidAmount
		}
	}

	// Position of the decimal point measured from the left of the digit
	// string, after applying the exponent shift.
	point := len(intPart) + exp
	switch {
	case point <= 0:
		digits = strings.Repeat("0", -point+1) + digits
		point = 1
	case point > len(digits):
		digits = digits + strings.Repeat("0", point-len(digits))
	}

	out := digits[:point] + "." + digits[point:]
	out = strings.TrimSuffix(out, ".")
	if neg {
		out = "-" + out
	}
	return out, nil
}

// Float64 returns the amount in whole currency units for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}
