package reports

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models"
)

// AccountBalance is one chart-of-accounts row with its posted totals.
// Balance is signed in the account's normal direction.
type AccountBalance struct {
	AccountId   uuid.UUID          `json:"account_id"`
	AccountName string             `json:"account_name"`
	AccountCode string             `json:"account_code"`
	AccountType models.AccountType `json:"account_type"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Balance     decimal.Decimal    `json:"balance"`
}

type BalanceSheetSection struct {
	Accounts []AccountBalance `json:"accounts"`
	Total    decimal.Decimal  `json:"total"`
}

type BalanceSheet struct {
	OrganizationId uuid.UUID           `json:"organization_id"`
	GeneratedAt    time.Time           `json:"generated_at"`
	Assets         BalanceSheetSection `json:"assets"`
	Liabilities    BalanceSheetSection `json:"liabilities"`
	Equity         BalanceSheetSection `json:"equity"`
	// CurrentEarnings is revenue less expenses not yet closed to equity.
	CurrentEarnings           decimal.Decimal `json:"current_earnings"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"total_liabilities_and_equity"`
	Balanced                  bool            `json:"balanced"`
}

func balanceSheetCacheKey(organizationId string) string {
	return "BalanceSheet:" + organizationId
}

// GetBalanceSheet sums the ledger per account for one organization.
func GetBalanceSheet(ctx context.Context, organizationId uuid.UUID) (*BalanceSheet, error) {
	started := time.Now()
	defer logSlowReport(ctx, "BalanceSheet", started, map[string]any{"organization_id": organizationId.String()})

	cacheKey := balanceSheetCacheKey(organizationId.String())
	var cached BalanceSheet
	if ok, err := cacheGet(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	var rows []AccountBalance
	db := config.GetDB()
	err := db.WithContext(ctx).Raw(`
		SELECT
			ac.id AS account_id,
			ac.name AS account_name,
			ac.code AS account_code,
			ac.type AS account_type,
			COALESCE(SUM(le.debit), 0) AS total_debit,
			COALESCE(SUM(le.credit), 0) AS total_credit
		FROM
			chart_of_accounts AS ac
		JOIN
			ledger_entries AS le ON le.account_id = ac.id
		WHERE
			ac.organization_id = ?
			AND le.organization_id = ?
		GROUP BY
			ac.id, ac.name, ac.code, ac.type
	`, organizationId, organizationId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	report := BuildBalanceSheet(rows)
	report.OrganizationId = organizationId
	report.GeneratedAt = time.Now().UTC()

	if err := cacheSet(ctx, cacheKey, report); err != nil {
		config.LogError(config.GetLogger(), "BalanceSheetReport.go", "GetBalanceSheet", "cache set", cacheKey, err)
	}
	return report, nil
}

// BuildBalanceSheet groups per-account totals. Assets carry debit - credit,
// liabilities and equity carry credit - debit.
func BuildBalanceSheet(rows []AccountBalance) *BalanceSheet {
	report := &BalanceSheet{}
	for _, row := range rows {
		if row.AccountType.DebitNormal() {
			row.Balance = row.TotalDebit.Sub(row.TotalCredit)
		} else {
			row.Balance = row.TotalCredit.Sub(row.TotalDebit)
		}
		switch row.AccountType {
		case models.AccountTypeAsset:
			report.Assets.add(row)
		case models.AccountTypeLiability:
			report.Liabilities.add(row)
		case models.AccountTypeEquity:
			report.Equity.add(row)
		case models.AccountTypeRevenue:
			report.CurrentEarnings = report.CurrentEarnings.Add(row.Balance)
		case models.AccountTypeExpense:
			report.CurrentEarnings = report.CurrentEarnings.Sub(row.Balance)
		}
	}
	for _, s := range []*BalanceSheetSection{&report.Assets, &report.Liabilities, &report.Equity} {
		sort.Slice(s.Accounts, func(i, j int) bool {
			if s.Accounts[i].AccountCode != s.Accounts[j].AccountCode {
				return s.Accounts[i].AccountCode < s.Accounts[j].AccountCode
			}
			return s.Accounts[i].AccountName < s.Accounts[j].AccountName
		})
	}
	report.TotalLiabilitiesAndEquity = report.Liabilities.Total.Add(report.Equity.Total).Add(report.CurrentEarnings)
	report.Balanced = report.Assets.Total.Equal(report.TotalLiabilitiesAndEquity)
	return report
}

func (s *BalanceSheetSection) add(row AccountBalance) {
	s.Accounts = append(s.Accounts, row)
	s.Total = s.Total.Add(row.Balance)
}
