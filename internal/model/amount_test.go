package model

import "testing"

func TestParseAmountValid(t *testing.T) {
	got := ParseAmount("12345678901234567890")
	if got.String() != "12345678901234567890" {
		t.Fatalf("unexpected amount: %s", got)
	}
}

func TestParseAmountDegradesToZero(t *testing.T) {
	cases := []string{"", "  ", "abc", "1.5", "0x10", "1e18"}
	for _, raw := range cases {
		if got := ParseAmount(raw); got.Sign() != 0 {
			t.Fatalf("expected zero for %q, got %s", raw, got)
		}
	}
}

func TestAmountCovers(t *testing.T) {
	if !AmountCovers("100", "100") {
		t.Fatalf("equal amounts should cover")
	}
	if !AmountCovers("101", "100") {
		t.Fatalf("larger amount should cover")
	}
	if AmountCovers("99", "100") {
		t.Fatalf("smaller amount should not cover")
	}
	if AmountCovers("bogus", "1") {
		t.Fatalf("malformed amount degrades to zero and should not cover")
	}
}

func TestAmountPositive(t *testing.T) {
	if !AmountPositive("1") {
		t.Fatalf("1 should be positive")
	}
	if AmountPositive("0") || AmountPositive("-5") || AmountPositive("junk") {
		t.Fatalf("zero, negative, and malformed amounts are not positive")
	}
}
