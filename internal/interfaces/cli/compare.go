package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var showHistory bool
	var historyLimit int

	cmd := &cobra.Command{
		Use:   "compare <id> <id> [id...]",
		Short: "Compare two or more policies",
		Long:  "Runs a side-by-side comparison over the given policy ids and prints\nthe resulting recommendations. Use --history to list past runs instead.",
		Args: func(cmd *cobra.Command, args []string) error {
			if showHistory, _ := cmd.Flags().GetBool("history"); showHistory {
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("at least 2 policy ids are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			if showHistory {
				records, err := cliCtx.Client.CompareHistory(cmd.Context(), historyLimit)
				if err != nil {
					return err
				}
				return printResult(cmd, cliCtx.OutputFormat, records, func() string {
					if len(records) == 0 {
						return "No comparison history."
					}
					var b strings.Builder
					for _, rec := range records {
						fmt.Fprintf(&b, "#%d  %s  policies %v\n",
							rec.ID, rec.CreatedAt.Format("2006-01-02 15:04"), rec.PolicyIDs)
					}
					return strings.TrimRight(b.String(), "\n")
				})
			}

			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid policy id %q", arg)
				}
				ids = append(ids, id)
			}

			result, err := cliCtx.Client.Compare(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, result, func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "Compared %d policies:\n", len(result.Policies))
				for _, p := range result.Policies {
					fmt.Fprintf(&b, "  [%d] %s / %s, %.2f monthly\n",
						p.ID, p.Insurer, p.PolicyNumber, p.PremiumMonthly)
				}
				if len(result.Recommendations) > 0 {
					b.WriteString("Recommendations:\n")
					for _, rec := range result.Recommendations {
						fmt.Fprintf(&b, "  - %s\n", rec)
					}
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "list recent comparison runs")
	cmd.Flags().IntVar(&historyLimit, "limit", 10, "history entries to show")
	return cmd
}
