package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newQuotesCommand() *cobra.Command {
	var productType string
	var coverageLimit, deductible float64

	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Fetch indicative quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			offers, err := cliCtx.Client.Quotes(cmd.Context(), productType, coverageLimit, deductible)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, offers, func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "%-12s %10s %12s %12s\n", "INSURER", "MONTHLY", "DEDUCTIBLE", "COVERAGE")
				for _, q := range offers {
					fmt.Fprintf(&b, "%-12s %10.2f %12.0f %12.0f\n",
						q.Insurer, q.Monthly, q.Deductible, q.Coverage)
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}

	cmd.Flags().StringVar(&productType, "type", "auto", "product type")
	cmd.Flags().Float64Var(&coverageLimit, "coverage", 100000, "coverage limit")
	cmd.Flags().Float64Var(&deductible, "deductible", 500, "deductible")
	return cmd
}
