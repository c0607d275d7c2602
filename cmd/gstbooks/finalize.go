package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models/reports"
	"github.com/smsagro/books_backend/utils"
	"github.com/smsagro/books_backend/workflow"
	"github.com/spf13/cobra"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize <invoice-id>",
	Short: "Post a Draft invoice to the ledger and mark it Paid",
	Args:  cobra.ExactArgs(1),
	RunE:  runFinalize,
}

func init() {
	rootCmd.AddCommand(finalizeCmd)
	finalizeCmd.Flags().String("org", "", "Organization id (scopes every query)")
}

// connect opens the database and, best-effort, Redis.
func connect(ctx context.Context) {
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry(ctx)
}

func orgContext(cmd *cobra.Command) (context.Context, uuid.UUID, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	raw, _ := cmd.Flags().GetString("org")
	if raw == "" {
		return ctx, uuid.Nil, nil
	}
	orgId, err := uuid.Parse(raw)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("--org: %w", err)
	}
	ctx = utils.SetOrganizationIdInContext(ctx, orgId.String())
	ctx = utils.SetUserNameInContext(ctx, "gstbooks")
	return ctx, orgId, nil
}

func runFinalize(cmd *cobra.Command, args []string) error {
	invoiceId, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invoice id: %w", err)
	}
	ctx, _, err := orgContext(cmd)
	if err != nil {
		return err
	}
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())

	connect(ctx)
	logger := config.GetLogger()

	var result *workflow.FinalizeResult
	err = workflow.WithInvoiceLock(ctx, logger, invoiceId, func(ctx context.Context) error {
		var ferr error
		result, ferr = workflow.FinalizeInvoice(ctx, workflow.NewGormStore(config.GetDB()), logger, invoiceId)
		return ferr
	})
	if err != nil {
		return err
	}
	invalidateReports(ctx, logger, result)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "invoice %s: %s\n", result.InvoiceId, result.Status)
	fmt.Fprintf(out, "journal %s %q\n", result.JournalEntry.ID, result.JournalEntry.Description)
	for _, le := range result.JournalEntry.LedgerEntries {
		fmt.Fprintf(out, "  account %s  Dr %s  Cr %s\n", le.AccountId, le.Debit.StringFixed(2), le.Credit.StringFixed(2))
	}
	for _, m := range result.StockMovements {
		fmt.Fprintf(out, "  stock %s  -%s\n", m.ItemId, m.Quantity)
	}
	return nil
}

// invalidateReports drops the cached balance sheet of the invoice's organization,
// whether or not --org was given.
func invalidateReports(ctx context.Context, logger *logrus.Logger, result *workflow.FinalizeResult) {
	if err := reports.InvalidateBalanceSheet(ctx, result.OrganizationId.String()); err != nil {
		logger.WithError(err).Warn("balance sheet cache not invalidated")
	}
}
