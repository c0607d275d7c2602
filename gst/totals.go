package gst

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineDraft is one editable invoice line before tax is applied.
type LineDraft struct {
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       decimal.Decimal `json:"quantity"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`
	PricingMode    PricingMode     `json:"pricing_mode"`
}

type InvoiceTotals struct {
	Lines      []Breakdown     `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalTax   decimal.Decimal `json:"total_tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// RecomputeInvoiceTotals computes every line and the invoice level sums.
// It is called once per edit with the complete line set.
func RecomputeInvoiceTotals(supplier, customer Jurisdiction, lines []LineDraft) (InvoiceTotals, error) {
	totals := InvoiceTotals{
		Lines:    make([]Breakdown, 0, len(lines)),
		Subtotal: decimalZero,
		TotalTax: decimalZero,
	}
	for i, l := range lines {
		b, err := ComputeLineTax(LineInput{
			UnitPrice:            l.UnitPrice,
			Quantity:             l.Quantity,
			SupplierJurisdiction: supplier,
			CustomerJurisdiction: customer,
			TaxRatePercent:       l.TaxRatePercent,
			PricingMode:          l.PricingMode,
		})
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return InvoiceTotals{}, &ValidationError{Field: fmt.Sprintf("lines[%d].%s", i, ve.Field), Reason: ve.Reason}
			}
			return InvoiceTotals{}, err
		}
		totals.Lines = append(totals.Lines, b)
		totals.Subtotal = totals.Subtotal.Add(b.TaxableValue)
		totals.TotalTax = totals.TotalTax.Add(b.TotalTax)
	}
	totals.GrandTotal = totals.Subtotal.Add(totals.TotalTax)
	return totals, nil
}
