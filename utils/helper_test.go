package utils

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	got, err := NormalizePhoneNumber("98765 43210", CountryCode)
	if err != nil {
		t.Fatalf("NormalizePhoneNumber: %v", err)
	}
	if got != "+919876543210" {
		t.Fatalf("expected +919876543210, got %s", got)
	}
	if _, err := NormalizePhoneNumber("12345", CountryCode); err == nil {
		t.Fatalf("expected error for short number")
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected result %v", got)
	}
}
