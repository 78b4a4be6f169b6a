// Package core holds the domain model of the sales ledger: money amounts,
// sale records, payment methods and the validation rules that guard them.
//
// All monetary values are integer cents of a convertible mark (KM), so
// totals are exact and never drift from unitPrice × quantity.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in cents (1 KM = 100 cents).
type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Negative and zero amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, ErrInvalidAmount
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && strings.Contains(frac, ".") {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) || !allDigits(frac) {
		return 0, ErrInvalidAmount
	}

	km, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || km > (1<<63-1)/100 {
		return 0, ErrInvalidAmount
	}

	cents := km * 100
	switch {
	case len(frac) >= 2:
		cents += int64(frac[0]-'0')*10 + int64(frac[1]-'0')
		// Half-up on the third decimal
		if len(frac) > 2 && frac[2] >= '5' {
			cents++
		}
	case len(frac) == 1:
		cents += int64(frac[0]-'0') * 10
	}

	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// KM returns the decimal mark value as a float64 for display purposes.
// Use cents for all arithmetic; this is only for formatting and JSON output.
func (m Money) KM() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON renders the amount as a plain decimal number, which is what
// the frontend and the original API exchange (e.g. 70, 12.5).
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.KM(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a JSON number and stores it as cents with the same
// rounding rules as ParseDecimalToCents.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := ParseDecimalToCents(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// Mul multiplies the amount by a quantity.
func (m Money) Mul(qty int) Money {
	return Money{Cents: m.Cents * int64(qty)}
}

// Add sums two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Neg returns the negated amount, used for reversal journal rows.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// FormatKM renders the amount as a human readable string, e.g. "70 KM"
// or "12.50 KM".
func (m Money) FormatKM() string {
	if m.Cents%100 == 0 {
		return strconv.FormatInt(m.Cents/100, 10) + " KM"
	}
	neg := ""
	c := m.Cents
	if c < 0 {
		neg = "-"
		c = -c
	}
	return neg + strconv.FormatInt(c/100, 10) + "." + pad2(c%100) + " KM"
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
