package graph

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestUnmarshalDecimal_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       interface{}
		expected string
	}{
		{"20000", "20000"},
		{"1,18,000", "118000"},
		{"₹ 500", "500"},
		{"INR -1,234.50", "-1234.5"},
		{"  Rs. 99.50  ", "99.5"},
		{json.Number("0.105"), "0.105"},
		{int64(7), "7"},
		{nil, "0"},
	}
	for _, tc := range cases {
		d, err := UnmarshalDecimal(tc.in)
		if err != nil {
			t.Fatalf("UnmarshalDecimal(%v) error: %v", tc.in, err)
		}
		if d.String() != tc.expected {
			t.Fatalf("UnmarshalDecimal(%v) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestUnmarshalDecimal_RejectsGarbage(t *testing.T) {
	for _, in := range []interface{}{"abc", "", true} {
		if _, err := UnmarshalDecimal(in); err == nil {
			t.Fatalf("UnmarshalDecimal(%v) expected error", in)
		}
	}
}

func TestMarshalDecimal_WritesBareNumber(t *testing.T) {
	d, _ := UnmarshalDecimal("1,180.00")
	var buf bytes.Buffer
	MarshalDecimal(d).MarshalGQL(&buf)
	if buf.String() != "1180" {
		t.Fatalf("expected 1180, got %s", buf.String())
	}
}
