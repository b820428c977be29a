package core

import "testing"

func TestParseAmountCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"12.50", 1250, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", -100, true},
		{"-0.50", -50, true},
		{"+3", 300, true},
		{".5", 50, true},
		{"92233720368547757.99", 9223372036854775799, true}, // largest representable
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1a", 0, false},
		{"-", 0, false},
		{"", 0, false},
		// Non-ASCII digits must be rejected, not byte-mangled into cents
		{"1.५", 0, false},
		{"5.٣", 0, false},
		{"१2", 0, false},
		// One past the largest representable amount must not wrap negative
		{"92233720368547758.99", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{500, "5.00"},
		{1250, "12.50"},
		{-1250, "-12.50"},
		{100000, "1000.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
