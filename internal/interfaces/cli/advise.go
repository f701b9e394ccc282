package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newAdviseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Portfolio summary, recommendations, and value scores",
	}
	cmd.AddCommand(
		newAdviseSummaryCommand(),
		newAdviseRecommendCommand(),
		newAdviseScoresCommand(),
	)
	return cmd
}

// newRecommendCommand exposes "insuraiq recommend" as a shortcut for
// "insuraiq advise recommend".
func newRecommendCommand() *cobra.Command {
	cmd := newAdviseRecommendCommand()
	cmd.Use = "recommend"
	return cmd
}

func newAdviseSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the portfolio rollup by product type",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			summary, err := cliCtx.Client.PortfolioSummary(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, summary, func() string {
				if len(summary.ByType) == 0 {
					return "Portfolio is empty."
				}
				types := make([]string, 0, len(summary.ByType))
				for t := range summary.ByType {
					types = append(types, t)
				}
				sort.Strings(types)

				var b strings.Builder
				fmt.Fprintf(&b, "%-12s %6s %12s %14s\n", "TYPE", "COUNT", "PREMIUM", "COVERAGE")
				for _, t := range types {
					totals := summary.ByType[t]
					fmt.Fprintf(&b, "%-12s %6d %12.2f %14.0f\n",
						t, totals.Count, totals.Premium, totals.Coverage)
				}
				fmt.Fprintf(&b, "Total monthly premium: %.2f", summary.TotalPremium)
				return b.String()
			})
		},
	}
}

func newAdviseRecommendCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Show coverage gaps, overlaps, and value findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			recs, err := cliCtx.Client.Recommendations(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, recs, func() string {
				if len(recs) == 0 {
					return "No recommendations; the portfolio looks complete."
				}
				var b strings.Builder
				for _, rec := range recs {
					fmt.Fprintf(&b, "- %s\n    %s (impact: %s)\n", rec.Title, rec.Reason, rec.Impact)
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}
}

func newAdviseScoresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show per-policy value scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			scores, err := cliCtx.Client.Scores(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, scores, func() string {
				if len(scores) == 0 {
					return "No policies to score."
				}
				ids := make([]string, 0, len(scores))
				for id := range scores {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				var b strings.Builder
				for _, id := range ids {
					fmt.Fprintf(&b, "policy %s: %.1f\n", id, scores[id])
				}
				return strings.TrimRight(b.String(), "\n")
			})
		},
	}
}
