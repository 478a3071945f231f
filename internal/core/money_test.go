package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
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
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", -100, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
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
		{1552, "15.52"},
		{1550, "15.5"},
		{1500, "15"},
		{105, "1.05"},
		{5, "0.05"},
		{0, "0"},
		{-1234, "-12.34"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`174.52`), &m); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if m.Cents != 17452 {
		t.Fatalf("expected 17452 cents, got %d", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"20"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 2000 {
		t.Fatalf("expected 2000 cents, got %d", m.Cents)
	}

	// JSON permits exponent notation on numbers.
	expCases := []struct {
		in    string
		cents int64
	}{
		{`1e2`, 10000},
		{`1.5e1`, 1500},
		{`2.5E-2`, 3}, // 0.025, half-up
		{`-1.2e3`, -120000},
		{`"3e0"`, 300},
	}
	for _, tc := range expCases {
		var got Money
		if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if got.Cents != tc.cents {
			t.Fatalf("%s: expected %d cents, got %d", tc.in, tc.cents, got.Cents)
		}
	}
	var bad Money
	if err := json.Unmarshal([]byte(`"1e"`), &bad); err == nil {
		t.Fatal("expected error for truncated exponent")
	}

	out, err := json.Marshal(Money{Cents: 17452})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "174.52" {
		t.Fatalf("expected 174.52, got %s", out)
	}
}
