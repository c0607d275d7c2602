package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/gst"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateInvoiceLines(t *testing.T) {
	valid := NewInvoiceLine{
		ItemId:   uuid.New(),
		Quantity: decimal.RequireFromString("1.2345"),
		TaxRate:  decPtr("18"),
	}
	if err := validateInvoiceLines([]NewInvoiceLine{valid}); err != nil {
		t.Fatalf("expected valid line, got %v", err)
	}

	scale := []struct {
		name  string
		edit  func(*NewInvoiceLine)
		field string
	}{
		{"quantity finer than column", func(l *NewInvoiceLine) { l.Quantity = decimal.RequireFromString("1.23456") }, "lines[1].quantity"},
		{"price finer than column", func(l *NewInvoiceLine) { l.UnitPrice = decPtr("10.00001") }, "lines[1].unitPrice"},
		{"rate finer than column", func(l *NewInvoiceLine) { l.TaxRate = decPtr("18.125") }, "lines[1].taxRate"},
	}
	for _, tc := range scale {
		line := valid
		tc.edit(&line)
		err := validateInvoiceLines([]NewInvoiceLine{valid, line})
		var ve *gst.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field {
			t.Fatalf("%s: expected field %s, got %s", tc.name, tc.field, ve.Field)
		}
	}

	rejected := map[string]func(*NewInvoiceLine){
		"zero quantity":  func(l *NewInvoiceLine) { l.Quantity = decimal.Zero },
		"rate over 100":  func(l *NewInvoiceLine) { l.TaxRate = decPtr("1000") },
		"negative price": func(l *NewInvoiceLine) { l.UnitPrice = decPtr("-1") },
		"missing item":   func(l *NewInvoiceLine) { l.ItemId = uuid.Nil },
	}
	for name, edit := range rejected {
		line := valid
		edit(&line)
		if err := validateInvoiceLines([]NewInvoiceLine{line}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestExceedsPlaces(t *testing.T) {
	cases := []struct {
		in     string
		places int32
		want   bool
	}{
		{"1.2346", 4, false},
		{"1.23456", 4, true},
		{"18", 2, false},
		{"-0.005", 2, true},
	}
	for _, tc := range cases {
		if got := exceedsPlaces(decimal.RequireFromString(tc.in), tc.places); got != tc.want {
			t.Fatalf("exceedsPlaces(%s, %d) = %v, want %v", tc.in, tc.places, got, tc.want)
		}
	}
}
