// gstbooks is the operator CLI for the books backend.
//
// Usage (DB_* and REDIS_ADDRESS as for the server):
//
//	go run ./cmd/gstbooks tax --price 1000 --qty 1 --rate 18 --from 27 --to 29
//	go run ./cmd/gstbooks finalize <invoice-id> --org <organization-id>
//	go run ./cmd/gstbooks balance-sheet --org <organization-id> --out bs.xlsx
//	go run ./cmd/gstbooks reconcile --org <organization-id>
//	go run ./cmd/gstbooks dispatch-outbox --once
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "gstbooks",
	Short:         "Operator tools for GST invoicing and the ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.GetLogger().WithFields(logrus.Fields{"field": "gstbooks"}).Error(err.Error())
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
