package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx StoreTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) LoadInvoiceWithLines(ctx context.Context, invoiceID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	// SELECT ... FOR UPDATE serializes finalization per invoice.
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", invoiceID).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	if err := t.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("sort_order").
		Find(&invoice.Lines).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (t *gormTx) LoadChartOfAccounts(ctx context.Context, organizationID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := t.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Find(&accounts).Error
	return accounts, err
}

func (t *gormTx) InsertJournalEntry(ctx context.Context, entry *models.JournalEntry) error {
	return t.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error
}

func (t *gormTx) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return t.db.WithContext(ctx).Create(entry).Error
}

func (t *gormTx) DecrementItemStock(ctx context.Context, organizationID uuid.UUID, itemID uuid.UUID, qty decimal.Decimal) error {
	res := t.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("organization_id = ? AND id = ?", organizationID, itemID).
		UpdateColumn("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func (t *gormTx) UpdateInvoiceStatus(ctx context.Context, invoiceID uuid.UUID, from, to models.InvoiceStatus) (bool, error) {
	res := t.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ? AND status = ?", invoiceID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (t *gormTx) InsertOutboxEvent(ctx context.Context, event *models.OutboxEvent) error {
	return t.db.WithContext(ctx).Create(event).Error
}
