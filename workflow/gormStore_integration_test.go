package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/internal/testdb"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
)

func setupIntegrationDB(t *testing.T) {
	t.Helper()
	testdb.RequireIntegration(t)
	testdb.StartMySQL(t)

	db, err := config.OpenDatabase()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	config.SetDB(db)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

// seedDraftInvoice creates an organization in Maharashtra, an out-of-state
// customer and one item, then drafts an invoice for 3 units.
func seedDraftInvoice(t *testing.T) (context.Context, *models.Invoice, *models.Item) {
	t.Helper()
	ctx := context.Background()

	org, err := models.CreateOrganization(ctx, &models.NewOrganization{
		LegalName: "Sahyadri Agro Pvt Ltd",
		GSTIN:     "27AAACS1234F1Z5",
		StateCode: "27",
	})
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, org.ID.String())

	contact, err := models.CreateContact(ctx, &models.NewContact{
		Type:      models.ContactTypeCustomer,
		Name:      "Kaveri Traders",
		StateCode: "29",
		Phone:     "98450 12345",
	})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	item, err := models.CreateItem(ctx, &models.NewItem{
		Name:         "Drip Emitter 4lph",
		Sku:          "DE-4",
		HsnCode:      "8424",
		TaxRate:      dec("18"),
		SellingPrice: dec("1000"),
		OpeningStock: dec("5"),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	invoice, err := models.CreateDraftInvoice(ctx, &models.NewInvoice{
		ContactId:     contact.ID,
		InvoiceNumber: "INV-" + uuid.NewString()[:8],
		InvoiceDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Lines: []models.NewInvoiceLine{
			{ItemId: item.ID, Quantity: dec("3")},
		},
	})
	if err != nil {
		t.Fatalf("create draft invoice: %v", err)
	}
	return ctx, invoice, item
}

func TestGormStore_FinalizeInvoice(t *testing.T) {
	setupIntegrationDB(t)
	ctx, invoice, item := seedDraftInvoice(t)

	if !invoice.GrandTotal.Equal(dec("3540")) || !invoice.Lines[0].IGST.Equal(dec("540")) {
		t.Fatalf("unexpected draft totals: grand %s igst %s", invoice.GrandTotal, invoice.Lines[0].IGST)
	}

	store := NewGormStore(config.GetDB())
	res, err := FinalizeInvoice(ctx, store, testLogger(), invoice.ID)
	if err != nil {
		t.Fatalf("FinalizeInvoice: %v", err)
	}

	reloaded, err := models.GetInvoice(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if reloaded.Status != models.InvoiceStatusPaid {
		t.Fatalf("expected Paid, got %s", reloaded.Status)
	}

	var rows []models.LedgerEntry
	if err := config.GetDB().WithContext(ctx).Where("journal_entry_id = ?", res.JournalEntry.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 ledger rows, got %d", len(rows))
	}
	debit, credit := models.SumLedger(rows)
	if !debit.Equal(credit) || !debit.Equal(dec("3540")) {
		t.Fatalf("unexpected ledger totals debit %s credit %s", debit, credit)
	}

	stocked, err := models.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !stocked.CurrentStock.Equal(dec("2")) {
		t.Fatalf("expected stock 2, got %s", stocked.CurrentStock)
	}

	_, err = FinalizeInvoice(ctx, store, testLogger(), invoice.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition on second finalize, got %v", err)
	}

	_, err = models.UpdateDraftInvoiceLines(ctx, invoice.ID, &models.UpdateInvoiceLines{
		Lines: []models.NewInvoiceLine{{ItemId: item.ID, Quantity: dec("1")}},
	})
	if !errors.Is(err, models.ErrInvoiceNotDraft) {
		t.Fatalf("expected paid invoice to be locked for edits, got %v", err)
	}
}

func TestGormStore_ConcurrentFinalize(t *testing.T) {
	setupIntegrationDB(t)
	ctx, invoice, item := seedDraftInvoice(t)
	store := NewGormStore(config.GetDB())

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := FinalizeInvoice(ctx, store, testLogger(), invoice.ID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one success, got %d", successes)
	}
	var journals int64
	if err := config.GetDB().WithContext(ctx).Model(&models.JournalEntry{}).
		Where("reference_id = ?", invoice.ID).Count(&journals).Error; err != nil {
		t.Fatalf("count journals: %v", err)
	}
	if journals != 1 {
		t.Fatalf("expected 1 journal entry, got %d", journals)
	}
	stocked, err := models.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if !stocked.CurrentStock.Equal(dec("2")) {
		t.Fatalf("expected stock 2, got %s", stocked.CurrentStock)
	}
}
