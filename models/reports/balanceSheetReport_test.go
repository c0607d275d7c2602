package reports

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/models"
	"github.com/xuri/excelize/v2"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ledger after one finalized invoice (2150 + 367.50 GST) and 1000 of expenses paid from bank.
func sampleRows() []AccountBalance {
	return []AccountBalance{
		{AccountId: uuid.New(), AccountName: "Accounts Receivable", AccountCode: "1200", AccountType: models.AccountTypeAsset, TotalDebit: dec("2517.50"), TotalCredit: dec("0")},
		{AccountId: uuid.New(), AccountName: "Bank", AccountCode: "1100", AccountType: models.AccountTypeAsset, TotalDebit: dec("5000"), TotalCredit: dec("1000")},
		{AccountId: uuid.New(), AccountName: "Duties & Taxes (GST)", AccountCode: "2200", AccountType: models.AccountTypeLiability, TotalDebit: dec("0"), TotalCredit: dec("367.50")},
		{AccountId: uuid.New(), AccountName: "Owner's Capital", AccountCode: "3000", AccountType: models.AccountTypeEquity, TotalDebit: dec("0"), TotalCredit: dec("5000")},
		{AccountId: uuid.New(), AccountName: "Sales Revenue", AccountCode: "4000", AccountType: models.AccountTypeRevenue, TotalDebit: dec("0"), TotalCredit: dec("2150")},
		{AccountId: uuid.New(), AccountName: "Rent", AccountCode: "5100", AccountType: models.AccountTypeExpense, TotalDebit: dec("1000"), TotalCredit: dec("0")},
	}
}

func TestBuildBalanceSheet(t *testing.T) {
	report := BuildBalanceSheet(sampleRows())

	if !report.Assets.Total.Equal(dec("6517.50")) {
		t.Fatalf("assets: expected 6517.50, got %s", report.Assets.Total)
	}
	if !report.Liabilities.Total.Equal(dec("367.50")) {
		t.Fatalf("liabilities: expected 367.50, got %s", report.Liabilities.Total)
	}
	if !report.Equity.Total.Equal(dec("5000")) {
		t.Fatalf("equity: expected 5000, got %s", report.Equity.Total)
	}
	if !report.CurrentEarnings.Equal(dec("1150")) {
		t.Fatalf("current earnings: expected 1150, got %s", report.CurrentEarnings)
	}
	if !report.Balanced || !report.TotalLiabilitiesAndEquity.Equal(report.Assets.Total) {
		t.Fatalf("expected balanced sheet, got assets %s vs %s", report.Assets.Total, report.TotalLiabilitiesAndEquity)
	}
	if report.Assets.Accounts[0].AccountName != "Bank" {
		t.Fatalf("expected assets ordered by code, got %s first", report.Assets.Accounts[0].AccountName)
	}
	if !report.Assets.Accounts[0].Balance.Equal(dec("4000")) {
		t.Fatalf("bank balance: expected 4000, got %s", report.Assets.Accounts[0].Balance)
	}
}

func TestBuildBalanceSheet_DetectsImbalance(t *testing.T) {
	rows := sampleRows()
	rows[0].TotalDebit = rows[0].TotalDebit.Add(dec("0.01"))
	if BuildBalanceSheet(rows).Balanced {
		t.Fatalf("expected imbalance to be reported")
	}
}

func TestBuildBalanceSheet_Empty(t *testing.T) {
	report := BuildBalanceSheet(nil)
	if !report.Balanced || !report.Assets.Total.IsZero() {
		t.Fatalf("empty ledger should balance at zero")
	}
}

func TestExportBalanceSheetExcel(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportBalanceSheetExcel(BuildBalanceSheet(sampleRows()), &buf); err != nil {
		t.Fatalf("ExportBalanceSheetExcel: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(balanceSheetSheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) < 2 || rows[0][0] != "Section" || rows[1][2] != "Bank" {
		t.Fatalf("unexpected leading rows %v", rows[:2])
	}
	last := rows[len(rows)-1]
	if last[0] != "Total Liabilities & Equity" || last[5] != "6517.50" {
		t.Fatalf("unexpected last row %v", last)
	}
}
