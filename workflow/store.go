package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/models"
)

// Store runs fn inside one atomic unit. Returning an error from fn rolls
// everything back; a nil return commits.
type Store interface {
	Transaction(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the persistence handle finalization works through.
type StoreTx interface {
	// LoadInvoiceWithLines returns utils.ErrorRecordNotFound when the invoice does not exist.
	// The invoice row stays locked until the transaction ends.
	LoadInvoiceWithLines(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error)
	LoadChartOfAccounts(ctx context.Context, organizationID uuid.UUID) ([]models.Account, error)
	InsertJournalEntry(ctx context.Context, entry *models.JournalEntry) error
	InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	// DecrementItemStock returns utils.ErrorRecordNotFound when the item does not exist.
	DecrementItemStock(ctx context.Context, organizationID uuid.UUID, itemID uuid.UUID, qty decimal.Decimal) error
	// UpdateInvoiceStatus moves the invoice from one status to another and reports
	// false when the invoice was no longer in the from status.
	UpdateInvoiceStatus(ctx context.Context, invoiceID uuid.UUID, from, to models.InvoiceStatus) (bool, error)
	InsertOutboxEvent(ctx context.Context, event *models.OutboxEvent) error
}
