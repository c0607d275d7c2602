package middlewares

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
)

func TestGenerateLoaderResults_KeepsRequestOrder(t *testing.T) {
	a, b, missing := uuid.New(), uuid.New(), uuid.New()
	rows := []models.Contact{{ID: b, Name: "Bharat Traders"}, {ID: a, Name: "Asha Stores"}}

	results := generateLoaderResults(rows, []uuid.UUID{a, missing, b}, utils.ErrorRecordNotFound)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Data == nil || results[0].Data.Name != "Asha Stores" {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if !errors.Is(results[1].Error, utils.ErrorRecordNotFound) {
		t.Fatalf("expected not found for unknown id, got %+v", results[1])
	}
	if results[2].Data == nil || results[2].Data.Name != "Bharat Traders" {
		t.Fatalf("unexpected third result %+v", results[2])
	}
}

func TestGenerateLoaderArrayResults_GroupsByInvoice(t *testing.T) {
	inv1, inv2, empty := uuid.New(), uuid.New(), uuid.New()
	rows := []models.InvoiceLine{
		{ID: uuid.New(), InvoiceId: inv1, SortOrder: 0},
		{ID: uuid.New(), InvoiceId: inv2, SortOrder: 0},
		{ID: uuid.New(), InvoiceId: inv1, SortOrder: 1},
	}

	results := generateLoaderArrayResults(rows, []uuid.UUID{inv1, inv2, empty})
	if len(results[0].Data) != 2 || len(results[1].Data) != 1 {
		t.Fatalf("unexpected grouping %d/%d", len(results[0].Data), len(results[1].Data))
	}
	if results[0].Data[0].SortOrder != 0 || results[0].Data[1].SortOrder != 1 {
		t.Fatalf("expected lines in query order")
	}
	if results[0].Data[0] == results[0].Data[1] {
		t.Fatalf("expected distinct line pointers")
	}
	if results[2].Data == nil || len(results[2].Data) != 0 {
		t.Fatalf("expected empty lines for invoice without rows, got %+v", results[2].Data)
	}
}

func TestHandleError_RepeatsError(t *testing.T) {
	boom := errors.New("boom")
	results := handleError[*models.Contact](3, boom)
	for i, r := range results {
		if r.Error != boom {
			t.Fatalf("result %d: expected boom, got %v", i, r.Error)
		}
	}
}
