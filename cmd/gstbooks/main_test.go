package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestTaxCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"tax", "--price", "₹1,180", "--qty", "1", "--rate", "18", "--from", "27", "--to", "29", "--mode", "inclusive"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("tax: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Taxable value: ₹1,000.00", "IGST:          ₹180.00", "Total amount:  ₹1,180.00"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
	if strings.Contains(got, "CGST") {
		t.Fatalf("inter-state output should not show CGST:\n%s", got)
	}
}

func TestTaxCommand_RejectsBadMode(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"tax", "--price", "100", "--rate", "18", "--from", "27", "--to", "27", "--mode", "gross"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error for unknown pricing mode")
	}
}
