package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ronled86/InsuraIQ/internal/application/extraction"
)

func newExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract policy fields from a local document (offline)",
		Long:  "Runs the rule-based extraction pipeline over a plain-text policy\ndocument without contacting the API server, and prints the structured\nresult as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			svc := extraction.NewService(extraction.DefaultRuleSet(), nil, 0, nil)
			result, err := svc.Extract(cmd.Context(), extraction.Document{
				Text:         string(data),
				FilenameHint: filepath.Base(args[0]),
			})
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}
}
