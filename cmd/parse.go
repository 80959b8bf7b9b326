package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/djvirus9/secops-dashboard/internal/parsers"
)

// newParseCmd creates the `parse` command: run a scanner report through the
// registry and print the normalized findings without storing anything.
func newParseCmd() *cobra.Command {
	var parser string

	parseCmd := &cobra.Command{
		Use:   "parse <report-file>",
		Short: "Parses a scanner report and prints the normalized findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read report file: %w", err)
			}

			findings, err := parsers.Parse(string(content), parser, args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{
				"count":    len(findings),
				"findings": findings,
			}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	parseCmd.Flags().StringVar(&parser, "parser", "", "parser to use (auto-detected when empty)")
	return parseCmd
}
