package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/models/reports"
	"github.com/spf13/cobra"
)

var balanceSheetCmd = &cobra.Command{
	Use:   "balance-sheet",
	Short: "Print the balance sheet or export it to xlsx",
	Example: `  gstbooks balance-sheet --org 6f1c...
  gstbooks balance-sheet --org 6f1c... --out balance-sheet.xlsx`,
	RunE: runBalanceSheet,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "List journal entries whose ledger rows do not balance",
	RunE:  runReconcile,
}

func init() {
	rootCmd.AddCommand(balanceSheetCmd)
	rootCmd.AddCommand(reconcileCmd)

	balanceSheetCmd.Flags().String("org", "", "Organization id")
	balanceSheetCmd.Flags().String("out", "", "Write an xlsx workbook to this path")
	_ = balanceSheetCmd.MarkFlagRequired("org")

	reconcileCmd.Flags().String("org", "", "Organization id")
	_ = reconcileCmd.MarkFlagRequired("org")
}

func runBalanceSheet(cmd *cobra.Command, args []string) error {
	ctx, orgId, err := orgContext(cmd)
	if err != nil {
		return err
	}
	connect(ctx)

	report, err := reports.GetBalanceSheet(ctx, orgId)
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := reports.ExportBalanceSheetExcel(report, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
		return nil
	}

	out := cmd.OutOrStdout()
	sections := []struct {
		name    string
		section reports.BalanceSheetSection
	}{
		{"Assets", report.Assets},
		{"Liabilities", report.Liabilities},
		{"Equity", report.Equity},
	}
	for _, s := range sections {
		fmt.Fprintln(out, s.name)
		for _, a := range s.section.Accounts {
			fmt.Fprintf(out, "  %-6s %-32s %16s\n", a.AccountCode, a.AccountName, gst.FormatINR(a.Balance))
		}
		fmt.Fprintf(out, "  %-39s %16s\n", "Total "+strings.ToLower(s.name), gst.FormatINR(s.section.Total))
	}
	fmt.Fprintf(out, "Current earnings %s\n", gst.FormatINR(report.CurrentEarnings))
	fmt.Fprintf(out, "Liabilities + equity %s (balanced: %t)\n", gst.FormatINR(report.TotalLiabilitiesAndEquity), report.Balanced)
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx, orgId, err := orgContext(cmd)
	if err != nil {
		return err
	}
	connect(ctx)

	unbalanced, err := reports.CheckJournalBalances(ctx, orgId)
	if err != nil {
		return err
	}
	if len(unbalanced) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "all journal entries balance")
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(unbalanced); err != nil {
		return err
	}
	return fmt.Errorf("%d unbalanced journal entries", len(unbalanced))
}
