package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JournalEntry groups the ledger rows posted for one source document.
// At most one entry exists per (organization, reference type, reference id).
type JournalEntry struct {
	ID             uuid.UUID            `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID            `gorm:"type:char(36);not null;index:idx_je_org_date,priority:1;uniqueIndex:uniq_je_org_ref,priority:1" json:"organization_id"`
	EntryDate      time.Time            `gorm:"not null;index:idx_je_org_date,priority:2" json:"entry_date"`
	Description    string               `gorm:"size:255" json:"description"`
	ReferenceType  JournalReferenceType `gorm:"size:20;not null;uniqueIndex:uniq_je_org_ref,priority:2" json:"reference_type"`
	ReferenceId    uuid.UUID            `gorm:"type:char(36);not null;uniqueIndex:uniq_je_org_ref,priority:3" json:"reference_id"`
	LedgerEntries  []LedgerEntry        `gorm:"foreignKey:JournalEntryId" json:"ledger_entries"`
	CreatedAt      time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

type LedgerEntry struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID       `gorm:"type:char(36);not null;index:idx_le_org_account,priority:1" json:"organization_id"`
	JournalEntryId uuid.UUID       `gorm:"type:char(36);not null;index" json:"journal_entry_id"`
	AccountId      uuid.UUID       `gorm:"type:char(36);not null;index:idx_le_org_account,priority:2" json:"account_id"`
	Debit          decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"credit"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (j *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

func (l *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Ledger immutability guardrails:
// - journal_entries and ledger_entries are append-only (no updates/deletes).

var (
	ErrImmutableLedger  = errors.New("immutable ledger: ledger_entries cannot be changed")
	ErrImmutableJournal = errors.New("immutable ledger: journal_entries cannot be changed")
)

func (l *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableLedger
}

func (l *LedgerEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableLedger
}

func (j *JournalEntry) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableJournal
}

func (j *JournalEntry) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableJournal
}

// SumLedger totals the debit and credit sides of a set of ledger rows.
func SumLedger(entries []LedgerEntry) (debit decimal.Decimal, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}
