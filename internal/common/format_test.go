package common

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{44, "$44.00"},
		{38.5, "$38.50"},
		{1234.56, "$1,234.56"},
		{1000000, "$1,000,000.00"},
		{-12.5, "$-12.50"},
	}
	for _, c := range cases {
		if got := FormatMoney(c.in); got != c.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatWholeMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100000000, "$100,000,000"},
		{440000000, "$440,000,000"},
		{0, "$0"},
	}
	for _, c := range cases {
		if got := FormatWholeMoney(c.in); got != c.want {
			t.Errorf("FormatWholeMoney(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(-12.5); got != "-12.50%" {
		t.Errorf("FormatSignedPct(-12.5) = %q", got)
	}
	if got := FormatSignedPct(9.375); got != "+9.38%" {
		t.Errorf("FormatSignedPct(9.375) = %q", got)
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(0.875); got != "0.88x" {
		t.Errorf("FormatRatio(0.875) = %q", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(10000000); got != "10,000,000" {
		t.Errorf("FormatCount(10000000) = %q", got)
	}
}
