package graph

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/graph/model"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"github.com/smsagro/books_backend/workflow"
)

func TestErrorCode(t *testing.T) {
	id := uuid.New()
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &workflow.FinalizationError{Kind: workflow.KindValidation, InvoiceID: id}, CodeBadRequest},
		{"invalid transition", &workflow.FinalizationError{Kind: workflow.KindInvalidTransition, InvoiceID: id}, CodeConflict},
		{"unknown invoice", &workflow.FinalizationError{Kind: workflow.KindInvalidTransition, InvoiceID: id, Err: utils.ErrorRecordNotFound}, CodeNotFound},
		{"missing account", &workflow.FinalizationError{Kind: workflow.KindMissingAccount, InvoiceID: id}, CodeMissingAccount},
		{"conflict", &workflow.FinalizationError{Kind: workflow.KindPersistenceConflict, InvoiceID: id, Retryable: true}, CodeUnavailable},
		{"gst", &gst.ValidationError{Field: "quantity", Reason: "must not be negative"}, CodeBadRequest},
		{"not draft", fmt.Errorf("%w: status is Paid", models.ErrInvoiceNotDraft), CodeConflict},
		{"record not found", fmt.Errorf("contact x: %w", utils.ErrorRecordNotFound), CodeNotFound},
		{"no organization", utils.ErrorOrganizationRequired, CodeOrganizationRequired},
		{"no database", errDatabaseNotReady, CodeUnavailable},
		{"other", errors.New("boom"), CodeBadRequest},
	}
	for _, tc := range cases {
		if got := ErrorCode(tc.err); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestErrorPresenter_AddsFinalizationDetails(t *testing.T) {
	ctx := utils.SetCorrelationIdInContext(context.Background(), "cid-42")
	err := &workflow.FinalizationError{
		Kind:      workflow.KindMissingAccount,
		InvoiceID: uuid.New(),
		Missing:   []string{"Sales Revenue", "Output CGST"},
	}

	presented := ErrorPresenter(ctx, err)
	if presented.Message != err.Error() {
		t.Fatalf("expected message %q, got %q", err.Error(), presented.Message)
	}
	ext := presented.Extensions
	if ext["code"] != CodeMissingAccount || ext["kind"] != workflow.KindMissingAccount || ext["retryable"] != false {
		t.Fatalf("unexpected extensions %+v", ext)
	}
	missing, ok := ext["missingAccounts"].([]string)
	if !ok || len(missing) != 2 {
		t.Fatalf("expected missing accounts, got %+v", ext["missingAccounts"])
	}
	if ext["correlationId"] != "cid-42" {
		t.Fatalf("expected correlation id, got %v", ext["correlationId"])
	}
}

func TestErrorPresenter_NamesGstField(t *testing.T) {
	presented := ErrorPresenter(context.Background(), &gst.ValidationError{Field: "unitPrice", Reason: "must not be negative"})
	if presented.Extensions["code"] != CodeBadRequest || presented.Extensions["field"] != "unitPrice" {
		t.Fatalf("unexpected extensions %+v", presented.Extensions)
	}
}

func TestPricingMode(t *testing.T) {
	inclusive := model.PricingModeInclusive
	cases := []struct {
		in   *model.PricingMode
		want gst.PricingMode
	}{
		{nil, gst.TaxExclusive},
		{&inclusive, gst.TaxInclusive},
	}
	for _, tc := range cases {
		got, err := pricingMode(tc.in)
		if err != nil {
			t.Fatalf("pricingMode error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("expected %v, got %v", tc.want, got)
		}
	}
}
