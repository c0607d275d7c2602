package models

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestInvoiceStatus_UnmarshalGQL(t *testing.T) {
	var s InvoiceStatus
	if err := s.UnmarshalGQL("Paid"); err != nil || s != InvoiceStatusPaid {
		t.Fatalf("expected Paid, got %q (%v)", s, err)
	}
	if err := s.UnmarshalGQL("Refunded"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if err := s.UnmarshalGQL(3); err == nil {
		t.Fatalf("expected error for non-string value")
	}
}

func TestEnums_MarshalGQLQuotes(t *testing.T) {
	var buf bytes.Buffer
	AccountTypeRevenue.MarshalGQL(&buf)
	if buf.String() != `"Revenue"` {
		t.Fatalf("expected quoted Revenue, got %s", buf.String())
	}
}

func TestContactType_UnmarshalJSON(t *testing.T) {
	var c struct {
		Type ContactType `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"Vendor"}`), &c); err != nil || c.Type != ContactTypeVendor {
		t.Fatalf("expected Vendor, got %q (%v)", c.Type, err)
	}
	if err := json.Unmarshal([]byte(`{"type":"Supplier"}`), &c); err == nil {
		t.Fatalf("expected error for unknown contact type")
	}
}
