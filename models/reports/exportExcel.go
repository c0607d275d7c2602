package reports

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const balanceSheetSheet = "Balance Sheet"

// ExportBalanceSheetExcel writes the report as a single-sheet xlsx workbook.
func ExportBalanceSheetExcel(report *BalanceSheet, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", balanceSheetSheet); err != nil {
		return err
	}

	row := 1
	setRow := func(values ...interface{}) error {
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if d, ok := v.(decimal.Decimal); ok {
				if err := f.SetCellFloat(balanceSheetSheet, cell, d.InexactFloat64(), 2, 64); err != nil {
					return err
				}
				continue
			}
			if err := f.SetCellValue(balanceSheetSheet, cell, v); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := setRow("Section", "Code", "Account", "Debit", "Credit", "Balance"); err != nil {
		return err
	}
	sections := []struct {
		name    string
		section BalanceSheetSection
	}{
		{"Assets", report.Assets},
		{"Liabilities", report.Liabilities},
		{"Equity", report.Equity},
	}
	for _, s := range sections {
		for _, a := range s.section.Accounts {
			if err := setRow(s.name, a.AccountCode, a.AccountName, a.TotalDebit, a.TotalCredit, a.Balance); err != nil {
				return err
			}
		}
		if err := setRow("Total "+s.name, "", "", "", "", s.section.Total); err != nil {
			return err
		}
	}
	if err := setRow("Current Earnings", "", "", "", "", report.CurrentEarnings); err != nil {
		return err
	}
	if err := setRow("Total Liabilities & Equity", "", "", "", "", report.TotalLiabilitiesAndEquity); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}
