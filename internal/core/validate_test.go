package core

import (
	"testing"
	"time"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"70", 7000, false},
		{"0.01", 1, false},
		{"100000", 10_000_000, false}, // upper bound inclusive
		{"100000.01", 0, true},
		{"100001", 0, true},
		{"0", 0, true},
		{"-10", 0, true},
		{"abc", 0, true},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePrice(%q) expected error", tc.in)
			} else if !IsValidation(err) {
				t.Errorf("ParsePrice(%q) error is not a ValidationError: %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got.Cents != tc.want {
			t.Errorf("ParsePrice(%q) = %d cents, want %d", tc.in, got.Cents, tc.want)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	for _, ok := range []int{1, 2, 500, 1000} {
		if err := ValidateQuantity(ok); err != nil {
			t.Errorf("ValidateQuantity(%d) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []int{0, -1, 1001} {
		if err := ValidateQuantity(bad); err == nil {
			t.Errorf("ValidateQuantity(%d) expected error", bad)
		}
	}
}

func TestValidateTotal(t *testing.T) {
	if err := ValidateTotal(Money{Cents: MaxTotalCents}); err != nil {
		t.Errorf("total at cap should pass: %v", err)
	}
	if err := ValidateTotal(Money{Cents: MaxTotalCents + 1}); err == nil {
		t.Error("total above cap should fail")
	}
	if err := ValidateTotal(Money{Cents: 0}); err == nil {
		t.Error("zero total should fail")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	cases := []struct {
		in      string
		want    PaymentMethod
		wantErr bool
	}{
		{"cash", PaymentCash, false},
		{"card", PaymentCard, false},
		{"CARD", PaymentCard, false},
		{"", PaymentCash, false}, // legacy default
		{"bitcoin", "", true},
		{"kartica", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePaymentMethod(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParsePaymentMethod(%q) expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePaymentMethod(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePaymentMethod(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateDate(t *testing.T) {
	today := "2024-06-15"
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"2024-06-15", false}, // today is allowed
		{"2024-06-14", false},
		{"2020-01-01", false},
		{"2024-06-16", true}, // tomorrow
		{"2099-01-01", true},
		{"2024-6-1", true}, // non-canonical
		{"15.06.2024", true},
		{"", true},
		{"not-a-date", true},
	}
	for _, tc := range cases {
		got, err := ValidateDate(tc.in, today)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ValidateDate(%q) expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidateDate(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.in {
			t.Errorf("ValidateDate(%q) = %q", tc.in, got)
		}
	}
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Sarajevo")
	if err != nil {
		t.Skipf("timezone db unavailable: %v", err)
	}
	// 23:30 UTC on Jan 1 is already Jan 2 in Sarajevo (UTC+1).
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	if got := Today(now, loc); got != "2024-01-02" {
		t.Errorf("Today = %q, want 2024-01-02", got)
	}
}

func TestNormalizeLegacyRow(t *testing.T) {
	legacy := Sale{UnitPrice: Money{Cents: 7000}}
	s := legacy.Normalize()
	if s.PaymentMethod != PaymentCash {
		t.Errorf("payment method = %q, want cash", s.PaymentMethod)
	}
	if s.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", s.Quantity)
	}
	if s.Total.Cents != 7000 {
		t.Errorf("total = %d, want unit price 7000", s.Total.Cents)
	}

	// A fully populated record must pass through untouched.
	full := Sale{UnitPrice: Money{Cents: 3000}, Quantity: 2, Total: Money{Cents: 6000}, PaymentMethod: PaymentCard}
	if got := full.Normalize(); got != full {
		t.Errorf("Normalize changed a complete record: %+v", got)
	}
}
