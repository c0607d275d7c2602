package main

import (
	"fmt"

	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/utils"
	"github.com/spf13/cobra"
)

var taxCmd = &cobra.Command{
	Use:   "tax",
	Short: "Compute GST for one invoice line",
	Example: `  gstbooks tax --price 1000 --qty 1 --rate 18 --from 27 --to 27
  gstbooks tax --price "₹1,180" --qty 1 --rate 18 --from 27 --to 29 --mode inclusive`,
	RunE: runTax,
}

func init() {
	rootCmd.AddCommand(taxCmd)

	taxCmd.Flags().String("price", "", "Unit price")
	taxCmd.Flags().String("qty", "1", "Quantity")
	taxCmd.Flags().String("rate", "", "Tax rate percent")
	taxCmd.Flags().String("from", "", "Supplier state code")
	taxCmd.Flags().String("to", "", "Customer state code (place of supply)")
	taxCmd.Flags().String("mode", "exclusive", "Pricing mode: exclusive or inclusive")
	_ = taxCmd.MarkFlagRequired("price")
	_ = taxCmd.MarkFlagRequired("rate")
	_ = taxCmd.MarkFlagRequired("from")
	_ = taxCmd.MarkFlagRequired("to")
}

func runTax(cmd *cobra.Command, args []string) error {
	priceStr, _ := cmd.Flags().GetString("price")
	qtyStr, _ := cmd.Flags().GetString("qty")
	rateStr, _ := cmd.Flags().GetString("rate")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	modeStr, _ := cmd.Flags().GetString("mode")

	price, err := utils.ParseDecimal(priceStr)
	if err != nil {
		return fmt.Errorf("--price: %w", err)
	}
	qty, err := utils.ParseDecimal(qtyStr)
	if err != nil {
		return fmt.Errorf("--qty: %w", err)
	}
	rate, err := utils.ParseDecimal(rateStr)
	if err != nil {
		return fmt.Errorf("--rate: %w", err)
	}
	mode, err := gst.ParsePricingMode(modeStr)
	if err != nil {
		return err
	}

	b, err := gst.ComputeLineTax(gst.LineInput{
		UnitPrice:            price,
		Quantity:             qty,
		TaxRatePercent:       rate,
		SupplierJurisdiction: gst.Jurisdiction(from),
		CustomerJurisdiction: gst.Jurisdiction(to),
		PricingMode:          mode,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Taxable value: %s\n", gst.FormatINR(b.TaxableValue))
	if b.IntraState() {
		fmt.Fprintf(out, "CGST:          %s\n", gst.FormatINR(b.CGST))
		fmt.Fprintf(out, "SGST:          %s\n", gst.FormatINR(b.SGST))
	} else {
		fmt.Fprintf(out, "IGST:          %s\n", gst.FormatINR(b.IGST))
	}
	fmt.Fprintf(out, "Total tax:     %s\n", gst.FormatINR(b.TotalTax))
	fmt.Fprintf(out, "Total amount:  %s\n", gst.FormatINR(b.TotalAmount))
	return nil
}
