package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/smsagro/books_backend/workflow")

type StockMovement struct {
	ItemId   uuid.UUID       `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

type FinalizeResult struct {
	InvoiceId      uuid.UUID            `json:"invoice_id"`
	OrganizationId uuid.UUID            `json:"organization_id"`
	Status         models.InvoiceStatus `json:"status"`
	JournalEntry   models.JournalEntry  `json:"journal_entry"`
	StockMovements []StockMovement      `json:"stock_movements"`
}

type invoiceFinalizedPayload struct {
	InvoiceId      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	OrganizationId uuid.UUID       `json:"organization_id"`
	ContactId      uuid.UUID       `json:"contact_id"`
	JournalEntryId uuid.UUID       `json:"journal_entry_id"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// FinalizeInvoice posts a Draft invoice to the ledger, takes its lines out of
// stock and marks it Paid, all in one store transaction. On failure it returns
// a *FinalizationError and nothing has been written.
func FinalizeInvoice(ctx context.Context, store Store, logger *logrus.Logger, invoiceID uuid.UUID) (*FinalizeResult, error) {
	ctx, span := tracer.Start(ctx, "FinalizeInvoice", trace.WithAttributes(attribute.String("invoice.id", invoiceID.String())))
	defer span.End()

	var result *FinalizeResult
	err := store.Transaction(ctx, func(tx StoreTx) error {
		r, err := finalizeInTx(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		ferr := asFinalizationError(invoiceID, err)
		config.LogError(logger, "InvoiceFinalization.go", "FinalizeInvoice", string(ferr.Kind), invoiceID.String(), ferr)
		span.RecordError(ferr)
		span.SetStatus(codes.Error, string(ferr.Kind))
		return nil, ferr
	}
	span.SetAttributes(attribute.String("journal_entry.id", result.JournalEntry.ID.String()))
	return result, nil
}

func finalizeInTx(ctx context.Context, tx StoreTx, invoiceID uuid.UUID) (*FinalizeResult, error) {
	invoice, err := tx.LoadInvoiceWithLines(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, newFinalizationError(KindInvalidTransition, invoiceID, err)
		}
		return nil, err
	}
	if invoice.Status != models.InvoiceStatusDraft {
		return nil, newFinalizationError(KindInvalidTransition, invoiceID, fmt.Errorf("status is %s", invoice.Status))
	}
	if err := verifyInvoiceTotals(invoice); err != nil {
		return nil, newFinalizationError(KindValidation, invoiceID, err)
	}

	chart, err := tx.LoadChartOfAccounts(ctx, invoice.OrganizationId)
	if err != nil {
		return nil, err
	}
	accounts, missing := models.FindAccountsByName(chart, models.AccountNameReceivable, models.AccountNameSales, models.AccountNameGST)
	if len(missing) > 0 {
		ferr := newFinalizationError(KindMissingAccount, invoiceID, nil)
		ferr.Missing = missing
		return nil, ferr
	}

	journal := models.JournalEntry{
		ID:             uuid.New(),
		OrganizationId: invoice.OrganizationId,
		EntryDate:      invoice.InvoiceDate,
		Description:    "Sales Invoice " + invoice.InvoiceNumber,
		ReferenceType:  models.JournalReferenceInvoice,
		ReferenceId:    invoice.ID,
	}
	if err := tx.InsertJournalEntry(ctx, &journal); err != nil {
		return nil, err
	}

	entries := invoiceLedgerEntries(invoice, journal.ID, accounts)
	debit, credit := models.SumLedger(entries)
	if !debit.Equal(credit) {
		return nil, newFinalizationError(KindValidation, invoiceID, fmt.Errorf("unbalanced journal: debit %s credit %s", debit, credit))
	}
	for i := range entries {
		if err := tx.InsertLedgerEntry(ctx, &entries[i]); err != nil {
			return nil, err
		}
	}
	journal.LedgerEntries = entries

	movements := stockMovements(invoice.Lines)
	for _, m := range movements {
		if err := tx.DecrementItemStock(ctx, invoice.OrganizationId, m.ItemId, m.Quantity); err != nil {
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return nil, newFinalizationError(KindValidation, invoiceID, fmt.Errorf("item %s: %w", m.ItemId, err))
			}
			return nil, err
		}
	}

	ok, err := tx.UpdateInvoiceStatus(ctx, invoice.ID, models.InvoiceStatusDraft, models.InvoiceStatusPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newFinalizationError(KindInvalidTransition, invoiceID, errors.New("invoice left Draft concurrently"))
	}

	if config.OutboxEnabled() {
		event, err := invoiceFinalizedEvent(ctx, invoice, journal.ID)
		if err != nil {
			return nil, err
		}
		if err := tx.InsertOutboxEvent(ctx, event); err != nil {
			return nil, err
		}
	}

	return &FinalizeResult{
		InvoiceId:      invoice.ID,
		OrganizationId: invoice.OrganizationId,
		Status:         models.InvoiceStatusPaid,
		JournalEntry:   journal,
		StockMovements: movements,
	}, nil
}

// verifyInvoiceTotals checks the stored header against its lines:
// grandTotal == subtotal + totalTax, subtotal == sum(taxableValue), totalTax == sum(totalTax).
func verifyInvoiceTotals(invoice *models.Invoice) error {
	if len(invoice.Lines) == 0 {
		return errors.New("invoice has no lines")
	}
	subtotal, totalTax := decimal.Zero, decimal.Zero
	for _, l := range invoice.Lines {
		if l.Quantity.IsNegative() || l.TaxableValue.IsNegative() || l.TotalTax.IsNegative() {
			return fmt.Errorf("line %s has negative amounts", l.ID)
		}
		subtotal = subtotal.Add(l.TaxableValue)
		totalTax = totalTax.Add(l.TotalTax)
	}
	if !invoice.Subtotal.Equal(subtotal) {
		return fmt.Errorf("subtotal %s does not match lines %s", invoice.Subtotal, subtotal)
	}
	if !invoice.TotalTax.Equal(totalTax) {
		return fmt.Errorf("total tax %s does not match lines %s", invoice.TotalTax, totalTax)
	}
	if !invoice.GrandTotal.Equal(invoice.Subtotal.Add(invoice.TotalTax)) {
		return fmt.Errorf("grand total %s != subtotal %s + total tax %s", invoice.GrandTotal, invoice.Subtotal, invoice.TotalTax)
	}
	return nil
}

// Dr Accounts Receivable grandTotal; Cr Sales Revenue subtotal; Cr GST totalTax.
func invoiceLedgerEntries(invoice *models.Invoice, journalID uuid.UUID, accounts map[string]models.Account) []models.LedgerEntry {
	row := func(account string, debit, credit decimal.Decimal) models.LedgerEntry {
		return models.LedgerEntry{
			ID:             uuid.New(),
			OrganizationId: invoice.OrganizationId,
			JournalEntryId: journalID,
			AccountId:      accounts[account].ID,
			Debit:          debit,
			Credit:         credit,
		}
	}
	return []models.LedgerEntry{
		row(models.AccountNameReceivable, invoice.GrandTotal, decimal.Zero),
		row(models.AccountNameSales, decimal.Zero, invoice.Subtotal),
		row(models.AccountNameGST, decimal.Zero, invoice.TotalTax),
	}
}

// stockMovements sums quantities per item, ordered by item id so concurrent
// finalizations lock item rows in the same order.
func stockMovements(lines []models.InvoiceLine) []StockMovement {
	byItem := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if l.Quantity.IsZero() {
			continue
		}
		byItem[l.ItemId] = byItem[l.ItemId].Add(l.Quantity)
	}
	movements := make([]StockMovement, 0, len(byItem))
	for id, qty := range byItem {
		movements = append(movements, StockMovement{ItemId: id, Quantity: qty})
	}
	sort.Slice(movements, func(i, j int) bool {
		return movements[i].ItemId.String() < movements[j].ItemId.String()
	})
	return movements
}

func invoiceFinalizedEvent(ctx context.Context, invoice *models.Invoice, journalID uuid.UUID) (*models.OutboxEvent, error) {
	payload, err := json.Marshal(invoiceFinalizedPayload{
		InvoiceId:      invoice.ID,
		InvoiceNumber:  invoice.InvoiceNumber,
		OrganizationId: invoice.OrganizationId,
		ContactId:      invoice.ContactId,
		JournalEntryId: journalID,
		Subtotal:       invoice.Subtotal,
		TotalTax:       invoice.TotalTax,
		GrandTotal:     invoice.GrandTotal,
	})
	if err != nil {
		return nil, err
	}
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	return &models.OutboxEvent{
		OrganizationId: invoice.OrganizationId,
		EventType:      models.EventTypeInvoiceFinalized,
		ReferenceType:  models.JournalReferenceInvoice,
		ReferenceId:    invoice.ID,
		OccurredAt:     time.Now().UTC(),
		Payload:        payload,
		CorrelationId:  correlationId,
		PublishStatus:  models.OutboxPublishStatusPending,
	}, nil
}
