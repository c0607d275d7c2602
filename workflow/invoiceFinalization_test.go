package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
)

type fixture struct {
	store   *memStore
	orgID   uuid.UUID
	invoice models.Invoice
	itemA   uuid.UUID
	itemB   uuid.UUID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func defaultChart(orgID uuid.UUID) []models.Account {
	return []models.Account{
		{ID: uuid.New(), OrganizationId: orgID, Name: models.AccountNameReceivable, Type: models.AccountTypeAsset},
		{ID: uuid.New(), OrganizationId: orgID, Name: models.AccountNameSales, Type: models.AccountTypeRevenue},
		{ID: uuid.New(), OrganizationId: orgID, Name: models.AccountNameGST, Type: models.AccountTypeLiability},
		{ID: uuid.New(), OrganizationId: orgID, Name: "Bank", Type: models.AccountTypeAsset},
	}
}

// newFixture builds a Draft invoice for two items:
// 2 x 1000 @18% (item A, stock 10) and 3 x 50 @5% (item B, stock 1), intra-state.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: newMemStore(),
		orgID: uuid.New(),
		itemA: uuid.New(),
		itemB: uuid.New(),
	}
	f.store.accounts[f.orgID] = defaultChart(f.orgID)
	f.store.stock[f.itemA] = dec("10")
	f.store.stock[f.itemB] = dec("1")

	drafts := []gst.LineDraft{
		{UnitPrice: dec("1000"), Quantity: dec("2"), TaxRatePercent: dec("18")},
		{UnitPrice: dec("50"), Quantity: dec("3"), TaxRatePercent: dec("5")},
	}
	totals, err := gst.RecomputeInvoiceTotals("27", "27", drafts)
	if err != nil {
		t.Fatalf("RecomputeInvoiceTotals: %v", err)
	}

	inv := models.Invoice{
		ID:             uuid.New(),
		OrganizationId: f.orgID,
		ContactId:      uuid.New(),
		InvoiceNumber:  "INV-0001",
		InvoiceDate:    time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC),
		Status:         models.InvoiceStatusDraft,
		PlaceOfSupply:  "27",
		Subtotal:       totals.Subtotal,
		TotalTax:       totals.TotalTax,
		GrandTotal:     totals.GrandTotal,
	}
	items := []uuid.UUID{f.itemA, f.itemB}
	for i, b := range totals.Lines {
		inv.Lines = append(inv.Lines, models.InvoiceLine{
			ID:           uuid.New(),
			InvoiceId:    inv.ID,
			ItemId:       items[i],
			SortOrder:    i,
			Quantity:     drafts[i].Quantity,
			UnitPrice:    drafts[i].UnitPrice,
			TaxRate:      drafts[i].TaxRatePercent,
			TaxableValue: b.TaxableValue,
			CGST:         b.CGST,
			SGST:         b.SGST,
			IGST:         b.IGST,
			TotalTax:     b.TotalTax,
			TotalAmount:  b.TotalAmount,
		})
	}
	f.store.invoices[inv.ID] = inv
	f.invoice = inv
	return f
}

func requireKind(t *testing.T, err error, kind FinalizationErrorKind, sentinel error) *FinalizationError {
	t.Helper()
	var fe *FinalizationError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FinalizationError, got %v", err)
	}
	if fe.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, fe.Kind, err)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is(err, %v)", sentinel)
	}
	return fe
}

func (f *fixture) requireUntouched(t *testing.T) {
	t.Helper()
	if got := f.store.invoice(f.invoice.ID).Status; got != models.InvoiceStatusDraft {
		t.Fatalf("expected invoice to stay Draft, got %s", got)
	}
	if n := len(f.store.ledgerRows()); n != 0 {
		t.Fatalf("expected no ledger rows, got %d", n)
	}
	if len(f.store.journals) != 0 {
		t.Fatalf("expected no journal entries, got %d", len(f.store.journals))
	}
	if !f.store.stockOf(f.itemA).Equal(dec("10")) || !f.store.stockOf(f.itemB).Equal(dec("1")) {
		t.Fatalf("stock changed: A=%s B=%s", f.store.stockOf(f.itemA), f.store.stockOf(f.itemB))
	}
}

func TestFinalizeInvoice_PostsBalancedJournal(t *testing.T) {
	f := newFixture(t)

	res, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	if err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}
	if res.Status != models.InvoiceStatusPaid {
		t.Fatalf("expected Paid, got %s", res.Status)
	}
	if res.OrganizationId != f.orgID {
		t.Fatalf("result organization %s, expected %s", res.OrganizationId, f.orgID)
	}
	if got := f.store.invoice(f.invoice.ID).Status; got != models.InvoiceStatusPaid {
		t.Fatalf("stored status: expected Paid, got %s", got)
	}

	if len(f.store.journals) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(f.store.journals))
	}
	je := f.store.journals[0]
	if je.Description != "Sales Invoice INV-0001" {
		t.Fatalf("unexpected description %q", je.Description)
	}
	if je.ReferenceType != models.JournalReferenceInvoice || je.ReferenceId != f.invoice.ID {
		t.Fatalf("unexpected reference %s/%s", je.ReferenceType, je.ReferenceId)
	}
	if !je.EntryDate.Equal(f.invoice.InvoiceDate) {
		t.Fatalf("journal date %s != invoice date %s", je.EntryDate, f.invoice.InvoiceDate)
	}

	rows := f.store.ledgerRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(rows))
	}
	debit, credit := models.SumLedger(rows)
	if !debit.Equal(credit) {
		t.Fatalf("unbalanced: debit %s credit %s", debit, credit)
	}
	if !debit.Equal(dec("2517.50")) {
		t.Fatalf("expected debit 2517.50, got %s", debit)
	}

	byAccount := map[uuid.UUID]models.LedgerEntry{}
	for _, r := range rows {
		if r.JournalEntryId != je.ID {
			t.Fatalf("ledger row points at journal %s, expected %s", r.JournalEntryId, je.ID)
		}
		byAccount[r.AccountId] = r
	}
	chart, _ := models.FindAccountsByName(f.store.accounts[f.orgID], models.AccountNameReceivable, models.AccountNameSales, models.AccountNameGST)
	if !byAccount[chart[models.AccountNameReceivable].ID].Debit.Equal(dec("2517.50")) {
		t.Fatalf("receivable debit wrong")
	}
	if !byAccount[chart[models.AccountNameSales].ID].Credit.Equal(dec("2150")) {
		t.Fatalf("sales credit wrong")
	}
	if !byAccount[chart[models.AccountNameGST].ID].Credit.Equal(dec("367.50")) {
		t.Fatalf("gst credit wrong")
	}

	if !f.store.stockOf(f.itemA).Equal(dec("8")) {
		t.Fatalf("item A stock: expected 8, got %s", f.store.stockOf(f.itemA))
	}
	if len(res.StockMovements) != 2 {
		t.Fatalf("expected 2 stock movements, got %d", len(res.StockMovements))
	}
}

func TestFinalizeInvoice_StockMayGoNegative(t *testing.T) {
	f := newFixture(t)
	if _, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID); err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}
	if !f.store.stockOf(f.itemB).Equal(dec("-2")) {
		t.Fatalf("item B stock: expected -2, got %s", f.store.stockOf(f.itemB))
	}
}

func TestFinalizeInvoice_SecondCallIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := FinalizeInvoice(ctx, f.store, testLogger(), f.invoice.ID); err != nil {
		t.Fatalf("first FinalizeInvoice: %v", err)
	}

	_, err := FinalizeInvoice(ctx, f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindInvalidTransition, ErrInvalidTransition)

	if n := len(f.store.ledgerRows()); n != 3 {
		t.Fatalf("expected ledger rows to stay at 3, got %d", n)
	}
	if !f.store.stockOf(f.itemA).Equal(dec("8")) {
		t.Fatalf("stock decremented twice: %s", f.store.stockOf(f.itemA))
	}
}

func TestFinalizeInvoice_MissingSalesAccount(t *testing.T) {
	f := newFixture(t)
	var chart []models.Account
	for _, a := range f.store.accounts[f.orgID] {
		if a.Name != models.AccountNameSales {
			chart = append(chart, a)
		}
	}
	f.store.accounts[f.orgID] = chart

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	fe := requireKind(t, err, KindMissingAccount, ErrMissingAccount)
	if !reflect.DeepEqual(fe.Missing, []string{models.AccountNameSales}) {
		t.Fatalf("expected missing [%s], got %v", models.AccountNameSales, fe.Missing)
	}
	f.requireUntouched(t)
}

func TestFinalizeInvoice_PaidInvoiceRejected(t *testing.T) {
	f := newFixture(t)
	inv := f.store.invoices[f.invoice.ID]
	inv.Status = models.InvoiceStatusPaid
	f.store.invoices[f.invoice.ID] = inv

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindInvalidTransition, ErrInvalidTransition)
	if n := len(f.store.ledgerRows()); n != 0 {
		t.Fatalf("expected no ledger rows, got %d", n)
	}
}

func TestFinalizeInvoice_NonDraftStatusesRejected(t *testing.T) {
	for _, status := range []models.InvoiceStatus{models.InvoiceStatusSent, models.InvoiceStatusVoid} {
		f := newFixture(t)
		inv := f.store.invoices[f.invoice.ID]
		inv.Status = status
		f.store.invoices[f.invoice.ID] = inv

		_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
		requireKind(t, err, KindInvalidTransition, ErrInvalidTransition)
	}
}

func TestFinalizeInvoice_UnknownInvoice(t *testing.T) {
	f := newFixture(t)
	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), uuid.New())
	requireKind(t, err, KindInvalidTransition, ErrInvalidTransition)
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected record not found cause, got %v", err)
	}
}

func TestFinalizeInvoice_UnbalancedHeaderRejected(t *testing.T) {
	f := newFixture(t)
	inv := f.store.invoices[f.invoice.ID]
	inv.GrandTotal = inv.GrandTotal.Add(dec("0.01"))
	f.store.invoices[f.invoice.ID] = inv

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindValidation, ErrValidation)
	f.requireUntouched(t)
}

func TestFinalizeInvoice_HeaderMustMatchLines(t *testing.T) {
	f := newFixture(t)
	inv := f.store.invoices[f.invoice.ID]
	inv.Subtotal = inv.Subtotal.Add(dec("1"))
	inv.GrandTotal = inv.GrandTotal.Add(dec("1"))
	f.store.invoices[f.invoice.ID] = inv

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindValidation, ErrValidation)
	f.requireUntouched(t)
}

func TestFinalizeInvoice_UnknownItemRollsBack(t *testing.T) {
	f := newFixture(t)
	delete(f.store.stock, f.itemB)

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindValidation, ErrValidation)
	if got := f.store.invoice(f.invoice.ID).Status; got != models.InvoiceStatusDraft {
		t.Fatalf("expected Draft, got %s", got)
	}
	if n := len(f.store.ledgerRows()); n != 0 {
		t.Fatalf("expected rollback of ledger rows, got %d", n)
	}
	if !f.store.stockOf(f.itemA).Equal(dec("10")) {
		t.Fatalf("expected item A stock rolled back, got %s", f.store.stockOf(f.itemA))
	}
}

func TestFinalizeInvoice_ZeroTaxStillPostsThreeRows(t *testing.T) {
	f := newFixture(t)
	inv := f.store.invoices[f.invoice.ID]
	for i := range inv.Lines {
		inv.Lines[i].CGST = decimal.Zero
		inv.Lines[i].SGST = decimal.Zero
		inv.Lines[i].TotalTax = decimal.Zero
		inv.Lines[i].TotalAmount = inv.Lines[i].TaxableValue
	}
	inv.TotalTax = decimal.Zero
	inv.GrandTotal = inv.Subtotal
	f.store.invoices[f.invoice.ID] = inv

	if _, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID); err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}
	rows := f.store.ledgerRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(rows))
	}
	debit, credit := models.SumLedger(rows)
	if !debit.Equal(credit) || !debit.Equal(dec("2150")) {
		t.Fatalf("unexpected totals debit %s credit %s", debit, credit)
	}
}

func TestFinalizeInvoice_FailureMidTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	deadlock := &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	f.store.failOn = func(op string) error {
		if op == "UpdateInvoiceStatus" {
			return deadlock
		}
		return nil
	}

	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	fe := requireKind(t, err, KindPersistenceConflict, ErrPersistenceConflict)
	if !fe.Retryable {
		t.Fatalf("expected deadlock to be retryable")
	}
	var mysqlErr *mysqlDriver.MySQLError
	if !errors.As(err, &mysqlErr) {
		t.Fatalf("expected driver error to stay reachable")
	}
	f.requireUntouched(t)

	// The same invoice finalizes once the conflict clears.
	f.store.failOn = nil
	if _, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID); err != nil {
		t.Fatalf("retry FinalizeInvoice: %v", err)
	}
}

func TestFinalizeInvoice_TimeoutIsPersistenceConflict(t *testing.T) {
	f := newFixture(t)
	f.store.failOn = func(op string) error {
		if op == "InsertLedgerEntry" {
			return context.DeadlineExceeded
		}
		return nil
	}
	_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
	requireKind(t, err, KindPersistenceConflict, ErrPersistenceConflict)
	f.requireUntouched(t)
}

func TestFinalizeInvoice_ConcurrentCallsSucceedOnce(t *testing.T) {
	f := newFixture(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, ErrInvalidTransition) {
				rejected++
			}
		}()
	}
	wg.Wait()

	if successes != 1 || rejected != 24 {
		t.Fatalf("expected 1 success and 24 rejections, got %d and %d", successes, rejected)
	}
	if n := len(f.store.ledgerRows()); n != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", n)
	}
	if !f.store.stockOf(f.itemA).Equal(dec("8")) {
		t.Fatalf("expected stock 8, got %s", f.store.stockOf(f.itemA))
	}
}

func TestFinalizeInvoice_WritesOutboxEventWhenEnabled(t *testing.T) {
	t.Setenv("OUTBOX_ENABLED", "true")
	f := newFixture(t)
	ctx := utils.SetCorrelationIdInContext(context.Background(), "corr-1")

	res, err := FinalizeInvoice(ctx, f.store, testLogger(), f.invoice.ID)
	if err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}
	if len(f.store.outbox) != 1 {
		t.Fatalf("expected 1 outbox event, got %d", len(f.store.outbox))
	}
	ev := f.store.outbox[0]
	if ev.EventType != models.EventTypeInvoiceFinalized || ev.ReferenceId != f.invoice.ID {
		t.Fatalf("unexpected event %s/%s", ev.EventType, ev.ReferenceId)
	}
	if ev.CorrelationId != "corr-1" || ev.PublishStatus != models.OutboxPublishStatusPending {
		t.Fatalf("unexpected event metadata %+v", ev)
	}
	var payload invoiceFinalizedPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.JournalEntryId != res.JournalEntry.ID || !payload.GrandTotal.Equal(dec("2517.50")) {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestFinalizeInvoice_NoOutboxEventByDefault(t *testing.T) {
	t.Setenv("OUTBOX_ENABLED", "")
	f := newFixture(t)
	if _, err := FinalizeInvoice(context.Background(), f.store, testLogger(), f.invoice.ID); err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}
	if len(f.store.outbox) != 0 {
		t.Fatalf("expected no outbox events, got %d", len(f.store.outbox))
	}
}

func TestStockMovements_AggregatesPerItem(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	lines := []models.InvoiceLine{
		{ItemId: a, Quantity: dec("1.5")},
		{ItemId: b, Quantity: dec("2")},
		{ItemId: a, Quantity: dec("0.5")},
		{ItemId: b, Quantity: dec("0")},
	}
	got := stockMovements(lines)
	if len(got) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(got))
	}
	if got[0].ItemId.String() > got[1].ItemId.String() {
		t.Fatalf("movements not ordered by item id")
	}
	for _, m := range got {
		if !m.Quantity.Equal(dec("2")) {
			t.Fatalf("item %s: expected quantity 2, got %s", m.ItemId, m.Quantity)
		}
	}
}
