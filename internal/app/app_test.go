package app

import "testing"

func TestFormatINRGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{450, "₹450"},
		{1000, "₹1,000"},
		{45999, "₹45,999"},
		{100000, "₹1,00,000"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-45999, "₹-45,999"},
	}
	for _, c := range cases {
		if got := formatINR(c.in); got != c.want {
			t.Fatalf("formatINR(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
