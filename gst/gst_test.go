package gst

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", name, want, got.String())
	}
}

func TestComputeLineTax_IntraStateExclusive(t *testing.T) {
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("1000"),
		Quantity:             dec("2"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "27",
		TaxRatePercent:       dec("18"),
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	assertAmount(t, "taxableValue", b.TaxableValue, "2000.00")
	assertAmount(t, "cgst", b.CGST, "180.00")
	assertAmount(t, "sgst", b.SGST, "180.00")
	assertAmount(t, "igst", b.IGST, "0")
	assertAmount(t, "totalTax", b.TotalTax, "360.00")
	assertAmount(t, "totalAmount", b.TotalAmount, "2360.00")
	if !b.IntraState() {
		t.Fatalf("expected intra-state breakdown")
	}
}

func TestComputeLineTax_InterStateExclusive(t *testing.T) {
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("1000"),
		Quantity:             dec("2"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "29",
		TaxRatePercent:       dec("18"),
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	assertAmount(t, "cgst", b.CGST, "0")
	assertAmount(t, "sgst", b.SGST, "0")
	assertAmount(t, "igst", b.IGST, "360.00")
	assertAmount(t, "totalAmount", b.TotalAmount, "2360.00")
	if b.IntraState() {
		t.Fatalf("expected inter-state breakdown")
	}
}

func TestComputeLineTax_InclusivePrice(t *testing.T) {
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("118"),
		Quantity:             dec("1"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "27",
		TaxRatePercent:       dec("18"),
		PricingMode:          TaxInclusive,
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	assertAmount(t, "totalAmount", b.TotalAmount, "118.00")
	assertAmount(t, "taxableValue", b.TaxableValue, "100.00")
	assertAmount(t, "cgst", b.CGST, "9.00")
	assertAmount(t, "sgst", b.SGST, "9.00")
}

func TestComputeLineTax_InclusiveKeepsAgreedPrice(t *testing.T) {
	// 10.00 at 18% splits into 0.7627 per half; both halves round down and the
	// paisa lost goes to the taxable value instead of the customer's total.
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("10"),
		Quantity:             dec("1"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "27",
		TaxRatePercent:       dec("18"),
		PricingMode:          TaxInclusive,
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	assertAmount(t, "totalAmount", b.TotalAmount, "10.00")
	assertAmount(t, "cgst", b.CGST, "0.76")
	assertAmount(t, "sgst", b.SGST, "0.76")
	assertAmount(t, "taxableValue", b.TaxableValue, "8.48")
}

func TestComputeLineTax_FractionalQuantity(t *testing.T) {
	// 2.5 kg at 99.99 -> 249.975 taxable, rounds half away from zero.
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("99.99"),
		Quantity:             dec("2.5"),
		SupplierJurisdiction: "07",
		CustomerJurisdiction: "09",
		TaxRatePercent:       dec("5"),
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	assertAmount(t, "taxableValue", b.TaxableValue, "249.98")
	// 249.975 * 0.05 = 12.49875
	assertAmount(t, "igst", b.IGST, "12.50")
	assertAmount(t, "totalAmount", b.TotalAmount, "262.48")
}

func TestComputeLineTax_ZeroRate(t *testing.T) {
	b, err := ComputeLineTax(LineInput{
		UnitPrice:            dec("450"),
		Quantity:             dec("3"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "27",
		TaxRatePercent:       dec("0"),
	})
	if err != nil {
		t.Fatalf("ComputeLineTax: %v", err)
	}
	for name, v := range map[string]decimal.Decimal{"cgst": b.CGST, "sgst": b.SGST, "igst": b.IGST, "totalTax": b.TotalTax} {
		if !v.IsZero() {
			t.Fatalf("%s: expected zero, got %s", name, v)
		}
	}
	assertAmount(t, "totalAmount", b.TotalAmount, "1350")
}

func TestComputeLineTax_Properties(t *testing.T) {
	prices := []string{"0", "0.01", "1", "9.99", "118", "333.33", "1000", "12345.67"}
	quantities := []string{"0", "0.5", "1", "2", "3", "7.25"}
	rates := []string{"0", "0.25", "3", "5", "12", "18", "28"}
	states := [][2]Jurisdiction{{"27", "27"}, {"27", "29"}}
	modes := []PricingMode{TaxExclusive, TaxInclusive}

	for _, p := range prices {
		for _, q := range quantities {
			for _, r := range rates {
				for _, st := range states {
					for _, m := range modes {
						in := LineInput{
							UnitPrice:            dec(p),
							Quantity:             dec(q),
							SupplierJurisdiction: st[0],
							CustomerJurisdiction: st[1],
							TaxRatePercent:       dec(r),
							PricingMode:          m,
						}
						b, err := ComputeLineTax(in)
						if err != nil {
							t.Fatalf("ComputeLineTax(%+v): %v", in, err)
						}
						sum := b.TaxableValue.Add(b.CGST).Add(b.SGST).Add(b.IGST)
						if !sum.Equal(b.TotalAmount) {
							t.Fatalf("%+v: parts %s != total %s", in, sum, b.TotalAmount)
						}
						if !b.CGST.Equal(b.SGST) {
							t.Fatalf("%+v: cgst %s != sgst %s", in, b.CGST, b.SGST)
						}
						split := b.CGST.IsPositive() || b.SGST.IsPositive()
						if split && !b.IGST.IsZero() {
							t.Fatalf("%+v: both split and integrated tax set", in)
						}
						if st[0] == st[1] && !b.IGST.IsZero() {
							t.Fatalf("%+v: igst on intra-state line", in)
						}
						if st[0] != st[1] && !b.TotalTax.Equal(b.IGST) {
							t.Fatalf("%+v: igst %s != totalTax %s", in, b.IGST, b.TotalTax)
						}
						again, _ := ComputeLineTax(in)
						if !sameBreakdown(again, b) {
							t.Fatalf("%+v: non-deterministic result", in)
						}
						// exact-sum rounding may drift from the rounded raw gross by at most one paisa
						base := in.UnitPrice.Mul(in.Quantity)
						gross := base
						if m == TaxExclusive {
							gross = base.Mul(decimal.NewFromInt(1).Add(in.TaxRatePercent.Div(decimal.NewFromInt(100))))
						}
						if b.TotalAmount.Sub(gross.Round(2)).Abs().GreaterThan(dec("0.01")) {
							t.Fatalf("%+v: total %s drifted from gross %s", in, b.TotalAmount, gross)
						}
						if m == TaxInclusive && !b.TotalAmount.Equal(base.Round(2)) {
							t.Fatalf("%+v: inclusive total %s != price %s", in, b.TotalAmount, base.Round(2))
						}
					}
				}
			}
		}
	}
}

func TestComputeLineTax_RejectsInvalidInput(t *testing.T) {
	valid := LineInput{
		UnitPrice:            dec("10"),
		Quantity:             dec("1"),
		SupplierJurisdiction: "27",
		CustomerJurisdiction: "27",
		TaxRatePercent:       dec("18"),
	}
	cases := []struct {
		name  string
		edit  func(*LineInput)
		field string
	}{
		{"negative price", func(in *LineInput) { in.UnitPrice = dec("-1") }, "unitPrice"},
		{"negative quantity", func(in *LineInput) { in.Quantity = dec("-0.5") }, "quantity"},
		{"negative rate", func(in *LineInput) { in.TaxRatePercent = dec("-18") }, "taxRatePercent"},
		{"unknown mode", func(in *LineInput) { in.PricingMode = PricingMode(7) }, "pricingMode"},
		{"missing supplier state", func(in *LineInput) { in.SupplierJurisdiction = "" }, "supplierJurisdiction"},
	}
	for _, tc := range cases {
		in := valid
		tc.edit(&in)
		_, err := ComputeLineTax(in)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, ve.Field)
		}
	}
}

func TestParsePricingMode(t *testing.T) {
	if m, err := ParsePricingMode(""); err != nil || m != TaxExclusive {
		t.Fatalf("empty mode: got %v, %v", m, err)
	}
	if m, err := ParsePricingMode("inclusive"); err != nil || m != TaxInclusive {
		t.Fatalf("inclusive mode: got %v, %v", m, err)
	}
	if _, err := ParsePricingMode("gross"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func sameBreakdown(a, b Breakdown) bool {
	return a.TaxableValue.Equal(b.TaxableValue) &&
		a.CGST.Equal(b.CGST) &&
		a.SGST.Equal(b.SGST) &&
		a.IGST.Equal(b.IGST) &&
		a.TotalTax.Equal(b.TotalTax) &&
		a.TotalAmount.Equal(b.TotalAmount)
}
