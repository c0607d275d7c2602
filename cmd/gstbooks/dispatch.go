package main

import (
	"fmt"
	"time"

	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/workflow"
	"github.com/spf13/cobra"
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch-outbox",
	Short: "Publish pending outbox events to Pub/Sub",
	RunE:  runDispatch,
}

func init() {
	rootCmd.AddCommand(dispatchCmd)
	dispatchCmd.Flags().Bool("once", false, "Dispatch one batch and exit")
	dispatchCmd.Flags().Int("batch-size", 50, "Rows claimed per batch")
	dispatchCmd.Flags().Duration("poll", 500*time.Millisecond, "Poll interval when running continuously")
	dispatchCmd.Flags().Int("replay", 0, "Make this DEAD/FAILED outbox row due again, then exit")
}

func runDispatch(cmd *cobra.Command, args []string) error {
	ctx, _, err := orgContext(cmd)
	if err != nil {
		return err
	}
	once, _ := cmd.Flags().GetBool("once")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	poll, _ := cmd.Flags().GetDuration("poll")
	if batchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	config.ConnectDatabaseWithRetry()

	if replay, _ := cmd.Flags().GetInt("replay"); replay > 0 {
		if err := workflow.ReplayOutboxEvent(ctx, config.GetDB(), replay); err != nil {
			return fmt.Errorf("replay outbox event %d: %w", replay, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "outbox event %d queued for retry\n", replay)
		return nil
	}

	d := workflow.NewOutboxDispatcher(config.GetDB(), config.GetLogger())
	d.BatchSize = batchSize
	d.PollInterval = poll

	if once {
		sent := d.DispatchOnce(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "published %d events\n", sent)
		return nil
	}
	d.Run(ctx)
	return nil
}
