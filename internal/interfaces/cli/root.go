// Package cli implements the insuraiq command-line client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ronled86/InsuraIQ/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ServerAddr   string
	APIKey       string
	UserID       string
	OutputFormat string
	Timeout      time.Duration
}

type cliContextKey struct{}

// CLIContext carries the initialized client through the command tree.
type CLIContext struct {
	Client       *client.Client
	OutputFormat string
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "insuraiq",
		Short:   "InsuraIQ CLI - policy management, comparison, and advice",
		Long:    "InsuraIQ is an insurance intelligence platform. The CLI manages\npolicies, runs comparisons, and fetches portfolio advice against a\nrunning API server; document extraction also works offline.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initContext(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ServerAddr, "server", "http://localhost:8000", "API server address")
	pf.StringVar(&opts.APIKey, "api-key", "", "API key (or INSURAIQ_API_KEY)")
	pf.StringVar(&opts.UserID, "user", "", "user identity sent as X-User-ID")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "text", "output format (text, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")

	cmd.AddCommand(
		newPoliciesCommand(),
		newCompareCommand(),
		newAdviseCommand(),
		newRecommendCommand(),
		newQuotesCommand(),
		newExtractCommand(),
	)
	return cmd
}

func initContext(cmd *cobra.Command, opts *RootOptions) error {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("INSURAIQ_API_KEY")
	}

	clientOpts := []client.Option{client.WithTimeout(opts.Timeout)}
	if apiKey != "" {
		clientOpts = append(clientOpts, client.WithAPIKey(apiKey))
	}
	if opts.UserID != "" {
		clientOpts = append(clientOpts, client.WithUserID(opts.UserID))
	}

	c, err := client.NewClient(opts.ServerAddr, clientOpts...)
	if err != nil {
		return err
	}

	cliCtx := &CLIContext{Client: c, OutputFormat: opts.OutputFormat}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// GetCLIContext extracts the CLIContext installed by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	v := cmd.Context().Value(cliContextKey{})
	cliCtx, ok := v.(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, fmt.Errorf("CLI context not initialized")
	}
	return cliCtx, nil
}

// printResult renders v as indented JSON when --output=json, otherwise via
// the provided text renderer.
func printResult(cmd *cobra.Command, format string, v any, text func() string) error {
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}
	cmd.Println(text())
	return nil
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
