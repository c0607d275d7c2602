package gst

import "testing"

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"999.5", "₹999.50"},
		{"1000", "₹1,000.00"},
		{"123456.789", "₹1,23,456.79"},
		{"10000000", "₹1,00,00,000.00"},
		{"-2360", "-₹2,360.00"},
	}
	for _, tc := range cases {
		if got := FormatINR(dec(tc.in)); got != tc.expected {
			t.Fatalf("FormatINR(%s) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestBreakdown_FormattedTotal(t *testing.T) {
	b := Breakdown{TotalAmount: dec("118000")}
	if got := b.FormattedTotal(); got != "₹1,18,000.00" {
		t.Fatalf("FormattedTotal expected ₹1,18,000.00, got %s", got)
	}
}
