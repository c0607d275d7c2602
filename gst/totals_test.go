package gst

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecomputeInvoiceTotals_SumsLines(t *testing.T) {
	lines := []LineDraft{
		{UnitPrice: dec("1000"), Quantity: dec("2"), TaxRatePercent: dec("18")},
		{UnitPrice: dec("118"), Quantity: dec("1"), TaxRatePercent: dec("18"), PricingMode: TaxInclusive},
		{UnitPrice: dec("50"), Quantity: dec("4"), TaxRatePercent: dec("0")},
	}
	totals, err := RecomputeInvoiceTotals("27", "27", lines)
	if err != nil {
		t.Fatalf("RecomputeInvoiceTotals: %v", err)
	}
	if len(totals.Lines) != 3 {
		t.Fatalf("expected 3 line breakdowns, got %d", len(totals.Lines))
	}
	assertAmount(t, "subtotal", totals.Subtotal, "2300.00")
	assertAmount(t, "totalTax", totals.TotalTax, "378.00")
	assertAmount(t, "grandTotal", totals.GrandTotal, "2678.00")

	var lineSum decimal.Decimal
	for _, b := range totals.Lines {
		lineSum = lineSum.Add(b.TotalAmount)
	}
	if !lineSum.Equal(totals.GrandTotal) {
		t.Fatalf("line totals %s != grand total %s", lineSum, totals.GrandTotal)
	}
}

func TestRecomputeInvoiceTotals_Idempotent(t *testing.T) {
	lines := []LineDraft{
		{UnitPrice: dec("333.33"), Quantity: dec("3"), TaxRatePercent: dec("12")},
		{UnitPrice: dec("9.99"), Quantity: dec("7.25"), TaxRatePercent: dec("28"), PricingMode: TaxInclusive},
	}
	first, err := RecomputeInvoiceTotals("27", "29", lines)
	if err != nil {
		t.Fatalf("RecomputeInvoiceTotals: %v", err)
	}
	second, err := RecomputeInvoiceTotals("27", "29", lines)
	if err != nil {
		t.Fatalf("RecomputeInvoiceTotals: %v", err)
	}
	if !first.GrandTotal.Equal(second.GrandTotal) || !first.Subtotal.Equal(second.Subtotal) || !first.TotalTax.Equal(second.TotalTax) {
		t.Fatalf("recompute not idempotent: %+v vs %+v", first, second)
	}
	for i := range first.Lines {
		if !sameBreakdown(first.Lines[i], second.Lines[i]) {
			t.Fatalf("line %d differs between runs", i)
		}
	}
}

func TestRecomputeInvoiceTotals_Empty(t *testing.T) {
	totals, err := RecomputeInvoiceTotals("27", "27", nil)
	if err != nil {
		t.Fatalf("RecomputeInvoiceTotals: %v", err)
	}
	if !totals.GrandTotal.IsZero() || len(totals.Lines) != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestRecomputeInvoiceTotals_ReportsLineIndex(t *testing.T) {
	lines := []LineDraft{
		{UnitPrice: dec("10"), Quantity: dec("1"), TaxRatePercent: dec("5")},
		{UnitPrice: dec("10"), Quantity: dec("-1"), TaxRatePercent: dec("5")},
	}
	_, err := RecomputeInvoiceTotals("27", "27", lines)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "lines[1].quantity" {
		t.Fatalf("expected field lines[1].quantity, got %s", ve.Field)
	}
}
