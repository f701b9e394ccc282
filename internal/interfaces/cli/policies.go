package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ronled86/InsuraIQ/pkg/client"
)

func newPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Manage insurance policies",
	}
	cmd.AddCommand(
		newPoliciesListCommand(),
		newPoliciesGetCommand(),
		newPoliciesCreateCommand(),
		newPoliciesDeleteCommand(),
	)
	return cmd
}

func newPoliciesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			policies, err := cliCtx.Client.ListPolicies(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, policies, func() string {
				return formatPolicyTable(policies)
			})
		},
	}
}

func newPoliciesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid policy id %q", args[0])
			}
			p, err := cliCtx.Client.GetPolicy(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, p, func() string {
				return formatPolicyTable([]client.Policy{*p})
			})
		},
	}
}

func newPoliciesCreateCommand() *cobra.Command {
	var fromFile string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a policy from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if fromFile == "" {
				return fmt.Errorf("--file is required")
			}
			data, err := os.ReadFile(fromFile)
			if err != nil {
				return err
			}
			var p client.Policy
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("parse %s: %w", fromFile, err)
			}
			created, err := cliCtx.Client.CreatePolicy(cmd.Context(), &p)
			if err != nil {
				return err
			}
			return printResult(cmd, cliCtx.OutputFormat, created, func() string {
				return fmt.Sprintf("Created policy %d (%s)", created.ID, created.PolicyNumber)
			})
		},
	}
	cmd.Flags().StringVarP(&fromFile, "file", "f", "", "JSON file with the policy fields")
	return cmd
}

func newPoliciesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid policy id %q", args[0])
			}
			if err := cliCtx.Client.DeletePolicy(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Deleted policy %d\n", id)
			return nil
		},
	}
}

func formatPolicyTable(policies []client.Policy) string {
	if len(policies) == 0 {
		return "No policies found."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %-15s %-20s %-10s %10s %12s\n",
		"ID", "NUMBER", "INSURER", "TYPE", "MONTHLY", "COVERAGE")
	for _, p := range policies {
		fmt.Fprintf(&b, "%-5d %-15s %-20s %-10s %10.2f %12.0f\n",
			p.ID, p.PolicyNumber, truncate(p.Insurer, 20), p.ProductType,
			p.PremiumMonthly, p.CoverageLimit)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
