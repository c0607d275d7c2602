// Package gst computes Indian Goods and Services Tax for invoice lines.
//
// Every function here is pure. Amounts are rounded half away from zero to
// two places, and the rounded parts of a Breakdown always add up exactly:
//
//	TotalAmount == TaxableValue + CGST + SGST + IGST
//
// For exclusive prices the taxable value is fixed and the total may drift by
// one paisa; for inclusive prices the total is fixed and the taxable value drifts.
package gst

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Jurisdiction identifies a tax locality, usually the two digit GST state code.
type Jurisdiction string

type PricingMode int

const (
	// TaxExclusive prices are net of tax; tax is added on top.
	TaxExclusive PricingMode = iota
	// TaxInclusive prices already contain the tax.
	TaxInclusive
)

func (m PricingMode) String() string {
	switch m {
	case TaxExclusive:
		return "exclusive"
	case TaxInclusive:
		return "inclusive"
	default:
		return fmt.Sprintf("PricingMode(%d)", int(m))
	}
}

// ParsePricingMode accepts "exclusive", "inclusive" and the empty string (exclusive).
func ParsePricingMode(s string) (PricingMode, error) {
	switch s {
	case "", "exclusive", "TaxExclusive":
		return TaxExclusive, nil
	case "inclusive", "TaxInclusive":
		return TaxInclusive, nil
	default:
		return TaxExclusive, &ValidationError{Field: "pricingMode", Reason: fmt.Sprintf("unknown pricing mode %q", s)}
	}
}

type LineInput struct {
	UnitPrice            decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity             decimal.Decimal `json:"quantity" validate:"gte=0"`
	SupplierJurisdiction Jurisdiction    `json:"supplier_jurisdiction" validate:"required"`
	CustomerJurisdiction Jurisdiction    `json:"customer_jurisdiction" validate:"required"`
	TaxRatePercent       decimal.Decimal `json:"tax_rate_percent" validate:"gte=0"`
	PricingMode          PricingMode     `json:"pricing_mode" validate:"oneof=0 1"`
}

type Breakdown struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	IGST         decimal.Decimal `json:"igst"`
	TotalTax     decimal.Decimal `json:"total_tax"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// IntraState reports whether the tax is split into central and state halves.
func (b Breakdown) IntraState() bool {
	return b.IGST.IsZero() && !b.CGST.IsZero()
}

const amountPlaces = 2

var (
	decimalZero       = decimal.Zero
	decimalOne        = decimal.NewFromInt(1)
	decimalTwo        = decimal.NewFromInt(2)
	decimalOneHundred = decimal.NewFromInt(100)
)

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountPlaces)
}

// ComputeLineTax returns the tax breakdown of one line.
func ComputeLineTax(in LineInput) (Breakdown, error) {
	if err := validateLineInput(in); err != nil {
		return Breakdown{}, err
	}

	base := in.UnitPrice.Mul(in.Quantity)
	factor := decimalOne.Add(in.TaxRatePercent.Div(decimalOneHundred))

	var taxable, gross decimal.Decimal
	if in.PricingMode == TaxInclusive {
		gross = base
		taxable = gross.Div(factor)
	} else {
		taxable = base
		gross = taxable.Mul(factor)
	}
	tax := gross.Sub(taxable)

	b := Breakdown{
		CGST: decimalZero,
		SGST: decimalZero,
		IGST: decimalZero,
	}
	if in.SupplierJurisdiction == in.CustomerJurisdiction {
		half := round2(tax.Div(decimalTwo))
		b.CGST = half
		b.SGST = half
	} else {
		b.IGST = round2(tax)
	}
	b.TotalTax = b.CGST.Add(b.SGST).Add(b.IGST)

	// Inclusive: the rounded gross is the total and the taxable value absorbs rounding.
	if in.PricingMode == TaxInclusive {
		b.TotalAmount = round2(gross)
		b.TaxableValue = b.TotalAmount.Sub(b.TotalTax)
	} else {
		b.TaxableValue = round2(taxable)
		b.TotalAmount = b.TaxableValue.Add(b.TotalTax)
	}
	return b, nil
}
