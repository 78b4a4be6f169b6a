package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12.345", 1234, false}, // rounds down
		{"12.346", 1235, false}, // rounds up
		{"70", 7000, false},
		{"0.01", 1, false},
		{"", 0, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDecimalToCents(%q) expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDecimalToCents(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	m := Money{Cents: 7000}
	if got := m.Mul(3); got.Cents != 21000 {
		t.Errorf("Mul(3) = %d, want 21000", got.Cents)
	}
	if got := m.Add(Money{Cents: 50}); got.Cents != 7050 {
		t.Errorf("Add = %d, want 7050", got.Cents)
	}
	if got := m.Neg(); got.Cents != -7000 {
		t.Errorf("Neg = %d, want -7000", got.Cents)
	}
	if got := m.KM(); got != 70.0 {
		t.Errorf("KM = %v, want 70", got)
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{7000, "70"},
		{1250, "12.5"},
		{1, "0.01"},
	}
	for _, tc := range cases {
		b, err := Money{Cents: tc.cents}.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%d): %v", tc.cents, err)
		}
		if string(b) != tc.want {
			t.Errorf("MarshalJSON(%d) = %s, want %s", tc.cents, b, tc.want)
		}
	}
}

func TestMoneyFormatKM(t *testing.T) {
	if got := (Money{Cents: 7000}).FormatKM(); got != "70 KM" {
		t.Errorf("FormatKM = %q, want \"70 KM\"", got)
	}
	if got := (Money{Cents: 1234}).FormatKM(); got != "12.34 KM" {
		t.Errorf("FormatKM = %q, want \"12.34 KM\"", got)
	}
	if got := (Money{Cents: -1205}).FormatKM(); got != "-12.05 KM" {
		t.Errorf("FormatKM = %q, want \"-12.05 KM\"", got)
	}
}
