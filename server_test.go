package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/graph"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"github.com/smsagro/books_backend/workflow"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return newRouter(logger)
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message    string         `json:"message"`
		Extensions map[string]any `json:"extensions"`
	} `json:"errors"`
}

func doGraphQL(t *testing.T, r http.Handler, query string, variables map[string]any, headers map[string]string) graphqlResponse {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/query", map[string]any{"query": query, "variables": variables}, headers)
	// gqlgen answers 422 when variables fail validation before execution
	if w.Code != http.StatusOK && w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 200 or 422, got %d: %s", w.Code, w.Body.String())
	}
	var resp graphqlResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

const computeLineTaxQuery = `query ($input: TaxLineInput!) {
  computeLineTax(input: $input) {
    taxableValue
    cgst
    sgst
    igst
    totalAmount
    intraState
    formattedTotal
  }
}`

type lineTaxResult struct {
	ComputeLineTax struct {
		TaxableValue   decimal.Decimal `json:"taxableValue"`
		CGST           decimal.Decimal `json:"cgst"`
		SGST           decimal.Decimal `json:"sgst"`
		IGST           decimal.Decimal `json:"igst"`
		TotalAmount    decimal.Decimal `json:"totalAmount"`
		IntraState     bool            `json:"intraState"`
		FormattedTotal string          `json:"formattedTotal"`
	} `json:"computeLineTax"`
}

func TestComputeLineTaxQuery_IntraState(t *testing.T) {
	r := testRouter(t)
	resp := doGraphQL(t, r, computeLineTaxQuery, map[string]any{"input": map[string]any{
		"unitPrice":            "1000",
		"quantity":             "1",
		"taxRatePercent":       "18",
		"supplierJurisdiction": "27",
		"customerJurisdiction": "27",
	}}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors %+v", resp.Errors)
	}
	var data lineTaxResult
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	b := data.ComputeLineTax
	if !b.CGST.Equal(decimal.NewFromInt(90)) || !b.SGST.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("unexpected split %s/%s", b.CGST, b.SGST)
	}
	if !b.IGST.IsZero() || !b.IntraState {
		t.Fatalf("expected intra-state breakdown")
	}
	if b.FormattedTotal != "₹1,180.00" {
		t.Fatalf("unexpected formatted total %q", b.FormattedTotal)
	}
}

func TestComputeLineTaxQuery_InclusiveInterState(t *testing.T) {
	r := testRouter(t)
	resp := doGraphQL(t, r, computeLineTaxQuery, map[string]any{"input": map[string]any{
		"unitPrice":            "₹1,180",
		"quantity":             1,
		"taxRatePercent":       18,
		"supplierJurisdiction": "27",
		"customerJurisdiction": "29",
		"pricingMode":          "Inclusive",
	}}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors %+v", resp.Errors)
	}
	var data lineTaxResult
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	b := data.ComputeLineTax
	if !b.TaxableValue.Equal(decimal.NewFromInt(1000)) || !b.IGST.Equal(decimal.NewFromInt(180)) {
		t.Fatalf("unexpected breakdown %+v", b)
	}
	if !b.TotalAmount.Equal(decimal.NewFromInt(1180)) || b.IntraState {
		t.Fatalf("unexpected total %s intraState=%v", b.TotalAmount, b.IntraState)
	}
}

func TestComputeLineTaxQuery_RejectsInvalidInput(t *testing.T) {
	r := testRouter(t)
	cases := []struct {
		name  string
		input map[string]any
		code  string
	}{
		{"negative price", map[string]any{"unitPrice": "-1", "quantity": "1", "taxRatePercent": "18", "supplierJurisdiction": "27", "customerJurisdiction": "27"}, graph.CodeBadRequest},
		{"missing customer", map[string]any{"unitPrice": "100", "quantity": "1", "taxRatePercent": "18", "supplierJurisdiction": "27", "customerJurisdiction": ""}, graph.CodeBadRequest},
		{"unknown pricing mode", map[string]any{"unitPrice": "100", "quantity": "1", "taxRatePercent": "18", "supplierJurisdiction": "27", "customerJurisdiction": "27", "pricingMode": "Gross"}, ""},
		{"not a number", map[string]any{"unitPrice": "abc", "quantity": "1", "taxRatePercent": "18", "supplierJurisdiction": "27", "customerJurisdiction": "27"}, ""},
	}
	for _, tc := range cases {
		resp := doGraphQL(t, r, computeLineTaxQuery, map[string]any{"input": tc.input}, nil)
		if len(resp.Errors) == 0 {
			t.Fatalf("%s: expected an error", tc.name)
		}
		if tc.code != "" && resp.Errors[0].Extensions["code"] != tc.code {
			t.Fatalf("%s: expected code %s, got %v", tc.name, tc.code, resp.Errors[0].Extensions["code"])
		}
	}
}

func TestInvoiceTotalsQuery(t *testing.T) {
	r := testRouter(t)
	query := `query ($input: InvoiceTotalsInput!) {
  invoiceTotals(input: $input) {
    lines { totalAmount }
    subtotal
    totalTax
    grandTotal
  }
}`
	resp := doGraphQL(t, r, query, map[string]any{"input": map[string]any{
		"supplierJurisdiction": "27",
		"customerJurisdiction": "27",
		"lines": []map[string]any{
			{"unitPrice": "1000", "quantity": "2", "taxRatePercent": "18"},
			{"unitPrice": "50", "quantity": "3", "taxRatePercent": "5"},
		},
	}}, nil)
	if len(resp.Errors) > 0 {
		t.Fatalf("unexpected errors %+v", resp.Errors)
	}
	var data struct {
		InvoiceTotals struct {
			Lines      []struct{}      `json:"lines"`
			GrandTotal decimal.Decimal `json:"grandTotal"`
		} `json:"invoiceTotals"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.InvoiceTotals.Lines) != 2 || !data.InvoiceTotals.GrandTotal.Equal(decimal.RequireFromString("2517.50")) {
		t.Fatalf("unexpected totals %+v", data.InvoiceTotals)
	}
}

func TestDatabaseQueriesUnavailableWithoutDB(t *testing.T) {
	prev := config.GetDB()
	config.SetDB(nil)
	t.Cleanup(func() { config.SetDB(prev) })

	r := testRouter(t)
	resp := doGraphQL(t, r, `mutation ($id: UUID!) { finalizeInvoice(id: $id) { status } }`,
		map[string]any{"id": uuid.NewString()},
		map[string]string{"X-Organization-Id": uuid.NewString(), "x-correlation-id": "cid-1"})
	if len(resp.Errors) != 1 {
		t.Fatalf("expected one error, got %+v", resp.Errors)
	}
	ext := resp.Errors[0].Extensions
	if ext["code"] != graph.CodeUnavailable || ext["correlationId"] != "cid-1" {
		t.Fatalf("unexpected extensions %+v", ext)
	}

	w := doJSON(r, http.MethodPost, "/internal/ops/outbox/replay", map[string]int{"record_id": 1}, map[string]string{
		"X-Organization-Id": uuid.NewString(),
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestQueryRejectsMalformedOrganizationId(t *testing.T) {
	r := testRouter(t)
	w := doJSON(r, http.MethodPost, "/query", map[string]any{"query": "{ accounts { id } }"}, map[string]string{
		"X-Organization-Id": "not-a-uuid",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUnknownRouteNotFound(t *testing.T) {
	r := testRouter(t)
	w := doJSON(r, http.MethodPost, "/tax/compute", map[string]string{"unit_price": "1"}, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCorrelationIdEchoed(t *testing.T) {
	r := testRouter(t)
	w := doJSON(r, http.MethodGet, "/healthz", nil, map[string]string{"x-correlation-id": "abc-123"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("x-correlation-id"); got != "abc-123" {
		t.Fatalf("expected correlation id echoed, got %q", got)
	}
}

func TestErrorStatus(t *testing.T) {
	id := uuid.New()
	conflict := &workflow.FinalizationError{Kind: workflow.KindPersistenceConflict, InvoiceID: id, Retryable: true, Err: &mysqlDriver.MySQLError{Number: 1213}}
	notFound := &workflow.FinalizationError{Kind: workflow.KindInvalidTransition, InvoiceID: id, Err: utils.ErrorRecordNotFound}
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &workflow.FinalizationError{Kind: workflow.KindValidation, InvoiceID: id}, http.StatusBadRequest},
		{"invalid transition", &workflow.FinalizationError{Kind: workflow.KindInvalidTransition, InvoiceID: id}, http.StatusConflict},
		{"unknown invoice", notFound, http.StatusNotFound},
		{"missing account", &workflow.FinalizationError{Kind: workflow.KindMissingAccount, InvoiceID: id, Missing: []string{"Sales Revenue"}}, http.StatusUnprocessableEntity},
		{"conflict", conflict, http.StatusServiceUnavailable},
		{"gst", &gst.ValidationError{Field: "quantity", Reason: "must be >= 0"}, http.StatusBadRequest},
		{"not draft", fmt.Errorf("%w: status is Paid", models.ErrInvoiceNotDraft), http.StatusConflict},
		{"record not found", fmt.Errorf("contact x: %w", utils.ErrorRecordNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := errorStatus(tc.err); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}
