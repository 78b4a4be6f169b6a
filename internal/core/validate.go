package core

import (
	"strings"
	"time"
)

// Domain limits, in cents where monetary.
const (
	MaxUnitPriceCents = 100_000 * 100   // 100,000 KM per unit
	MaxQuantity       = 1000
	MaxTotalCents     = 1_000_000 * 100 // 1,000,000 KM per record
)

// DateLayout is the fixed-width calendar date format used throughout the
// ledger. Lexicographic order on these strings equals chronological order.
const DateLayout = "2006-01-02"

// ParsePrice parses a raw decimal price and checks the per-unit range.
func ParsePrice(raw string) (Money, error) {
	cents, err := ParseDecimalToCents(raw)
	if err != nil {
		return Money{}, Invalid("price out of range")
	}
	m := Money{Cents: cents}
	if err := ValidatePrice(m); err != nil {
		return Money{}, err
	}
	return m, nil
}

// ValidatePrice checks 0 < price ≤ 100,000 KM.
func ValidatePrice(m Money) error {
	if m.Cents <= 0 || m.Cents > MaxUnitPriceCents {
		return Invalid("price out of range")
	}
	return nil
}

// ValidateQuantity checks 1 ≤ qty ≤ 1000.
func ValidateQuantity(qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return Invalid("quantity out of range")
	}
	return nil
}

// ValidateTotal checks the derived total against the per-record cap.
func ValidateTotal(m Money) error {
	if m.Cents <= 0 || m.Cents > MaxTotalCents {
		return Invalid("total out of range")
	}
	return nil
}

// ParsePaymentMethod validates a raw payment method. An empty value defaults
// to cash, matching records submitted by older clients.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.TrimSpace(strings.ToLower(raw))) {
	case "":
		return PaymentCash, nil
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	default:
		return "", Invalid("invalid payment method")
	}
}

// ValidateDate parses a raw YYYY-MM-DD date and rejects anything after
// today. An empty date is rejected here as well; the handlers report the
// missing field before calling in, so this is a backstop.
func ValidateDate(raw string, today string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Invalid("date is required")
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return "", Invalid("invalid date")
	}
	normalized := t.Format(DateLayout)
	if normalized != raw {
		// Reject non-canonical forms like 2024-6-1
		return "", Invalid("invalid date")
	}
	if normalized > today {
		return "", Invalid("date cannot be in the future")
	}
	return normalized, nil
}

// Today formats the current calendar date in the shop timezone.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}
