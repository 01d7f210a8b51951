// Package allocate contains a subcommand for ad-hoc proportional splits,
// useful for spot-checking a generated detail table.
package allocate

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"fjacquet/donation-docs/cmd/root"
	"fjacquet/donation-docs/internal/allocation"
	"fjacquet/donation-docs/internal/textutils"
)

var (
	totalStr  string
	sharesStr string
)

// Cmd is the allocate command
var Cmd = &cobra.Command{
	Use:   "allocate",
	Short: "Split a total amount across comma-separated shares",
	Long: `Split a total amount across shares in proportion to their weight, quantized
to cents, with the rounding remainder absorbed by the last share. Empty share
tokens count as zero weight.`,
	Run: allocateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&totalStr, "total", "t", "", "Total amount to split (required)")
	Cmd.Flags().StringVarP(&sharesStr, "shares", "n", "", "Comma-separated share weights (required)")
	_ = Cmd.MarkFlagRequired("total")
	_ = Cmd.MarkFlagRequired("shares")
}

func allocateFunc(cmd *cobra.Command, args []string) {
	total := textutils.ParseDecimal(totalStr)
	if !total.Valid {
		root.Log.Fatalf("Cannot parse total amount %q", totalStr)
	}

	var shares []decimal.NullDecimal
	for _, token := range strings.Split(sharesStr, ",") {
		shares = append(shares, textutils.ParseDecimal(token))
	}

	amounts := allocation.Proportional(total.Decimal, shares)
	for i, amt := range amounts {
		fmt.Printf("%d\t%s\n", i+1, textutils.FormatCurrency(amt))
	}
}
