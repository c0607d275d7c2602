package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models"
)

type UnbalancedJournal struct {
	JournalEntryId uuid.UUID                   `json:"journal_entry_id"`
	Description    string                      `json:"description"`
	ReferenceType  models.JournalReferenceType `json:"reference_type"`
	ReferenceId    uuid.UUID                   `json:"reference_id"`
	TotalDebit     decimal.Decimal             `json:"total_debit"`
	TotalCredit    decimal.Decimal             `json:"total_credit"`
}

// CheckJournalBalances lists journal entries whose ledger rows do not net to
// zero. A healthy ledger returns an empty slice.
func CheckJournalBalances(ctx context.Context, organizationId uuid.UUID) ([]UnbalancedJournal, error) {
	var rows []UnbalancedJournal
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(`
		SELECT
			je.id AS journal_entry_id,
			je.description AS description,
			je.reference_type AS reference_type,
			je.reference_id AS reference_id,
			COALESCE(SUM(le.debit), 0) AS total_debit,
			COALESCE(SUM(le.credit), 0) AS total_credit
		FROM
			journal_entries AS je
		LEFT JOIN
			ledger_entries AS le ON le.journal_entry_id = je.id
		WHERE
			je.organization_id = ?
		GROUP BY
			je.id, je.description, je.reference_type, je.reference_id
		HAVING
			COALESCE(SUM(le.debit), 0) <> COALESCE(SUM(le.credit), 0)
			OR COUNT(le.id) = 0
		ORDER BY je.id
	`, organizationId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
