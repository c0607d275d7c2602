package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
)

// memStore is a Store fake: one transaction at a time, rolled back by
// restoring a snapshot when fn fails.
type memStore struct {
	mu sync.Mutex

	invoices map[uuid.UUID]models.Invoice
	accounts map[uuid.UUID][]models.Account
	stock    map[uuid.UUID]decimal.Decimal
	journals []models.JournalEntry
	ledger   []models.LedgerEntry
	outbox   []models.OutboxEvent

	// failOn returns an error to inject for the named operation.
	failOn func(op string) error
}

type memSnapshot struct {
	invoices map[uuid.UUID]models.Invoice
	stock    map[uuid.UUID]decimal.Decimal
	journals []models.JournalEntry
	ledger   []models.LedgerEntry
	outbox   []models.OutboxEvent
}

func newMemStore() *memStore {
	return &memStore{
		invoices: map[uuid.UUID]models.Invoice{},
		accounts: map[uuid.UUID][]models.Account{},
		stock:    map[uuid.UUID]decimal.Decimal{},
	}
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		invoices: make(map[uuid.UUID]models.Invoice, len(s.invoices)),
		stock:    make(map[uuid.UUID]decimal.Decimal, len(s.stock)),
		journals: append([]models.JournalEntry(nil), s.journals...),
		ledger:   append([]models.LedgerEntry(nil), s.ledger...),
		outbox:   append([]models.OutboxEvent(nil), s.outbox...),
	}
	for k, v := range s.invoices {
		snap.invoices[k] = v
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.invoices = snap.invoices
	s.stock = snap.stock
	s.journals = snap.journals
	s.ledger = snap.ledger
	s.outbox = snap.outbox
}

func (s *memStore) Transaction(ctx context.Context, fn func(tx StoreTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(&memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) invoice(id uuid.UUID) models.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invoices[id]
}

func (s *memStore) stockOf(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock[id]
}

func (s *memStore) ledgerRows() []models.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LedgerEntry(nil), s.ledger...)
}

type memTx struct {
	s *memStore
}

func (t *memTx) fail(op string) error {
	if t.s.failOn == nil {
		return nil
	}
	return t.s.failOn(op)
}

func (t *memTx) LoadInvoiceWithLines(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	if err := t.fail("LoadInvoiceWithLines"); err != nil {
		return nil, err
	}
	inv, ok := t.s.invoices[invoiceID]
	if !ok {
		return nil, utils.ErrorRecordNotFound
	}
	inv.Lines = append([]models.InvoiceLine(nil), inv.Lines...)
	return &inv, nil
}

func (t *memTx) LoadChartOfAccounts(ctx context.Context, organizationID uuid.UUID) ([]models.Account, error) {
	if err := t.fail("LoadChartOfAccounts"); err != nil {
		return nil, err
	}
	return append([]models.Account(nil), t.s.accounts[organizationID]...), nil
}

func (t *memTx) InsertJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	if err := t.fail("InsertJournalEntry"); err != nil {
		return err
	}
	t.s.journals = append(t.s.journals, *entry)
	return nil
}

func (t *memTx) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if err := t.fail("InsertLedgerEntry"); err != nil {
		return err
	}
	t.s.ledger = append(t.s.ledger, *entry)
	return nil
}

func (t *memTx) DecrementItemStock(ctx context.Context, organizationID uuid.UUID, itemID uuid.UUID, qty decimal.Decimal) error {
	if err := t.fail("DecrementItemStock"); err != nil {
		return err
	}
	cur, ok := t.s.stock[itemID]
	if !ok {
		return utils.ErrorRecordNotFound
	}
	t.s.stock[itemID] = cur.Sub(qty)
	return nil
}

func (t *memTx) UpdateInvoiceStatus(ctx context.Context, invoiceID uuid.UUID, from, to models.InvoiceStatus) (bool, error) {
	if err := t.fail("UpdateInvoiceStatus"); err != nil {
		return false, err
	}
	inv, ok := t.s.invoices[invoiceID]
	if !ok || inv.Status != from {
		return false, nil
	}
	inv.Status = to
	t.s.invoices[invoiceID] = inv
	return true, nil
}

func (t *memTx) InsertOutboxEvent(ctx context.Context, event *models.OutboxEvent) error {
	if err := t.fail("InsertOutboxEvent"); err != nil {
		return err
	}
	t.s.outbox = append(t.s.outbox, *event)
	return nil
}
