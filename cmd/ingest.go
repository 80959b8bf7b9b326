package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/djvirus9/secops-dashboard/api/schemas"
	"github.com/djvirus9/secops-dashboard/internal/ingest"
	"github.com/djvirus9/secops-dashboard/internal/notify"
	"github.com/djvirus9/secops-dashboard/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newIngestCmd creates the `ingest` command. It pushes either one normalized
// signal (flag mode) or a whole scanner report (--file) through the same
// pipeline the API uses.
func newIngestCmd() *cobra.Command {
	var (
		signal   schemas.SignalIn
		file     string
		parser   string
	)

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingests a signal or a raw scanner report",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			defer observability.Sync()

			st, err := openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			dispatcher := notify.NewDispatcher(appCfg.Notify(), logger)
			engine := ingest.NewEngine(st, dispatcher, appCfg.Ingest(), logger)

			var result any
			if file != "" {
				content, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read report file: %w", err)
				}
				result, err = engine.IngestScan(ctx, string(content), parser, file)
				if err != nil {
					return err
				}
			} else {
				if signal.Tool == "" || signal.Title == "" {
					return fmt.Errorf("either --file or both --tool and --title are required")
				}
				result, err = engine.IngestSignal(ctx, signal)
				if err != nil {
					return err
				}
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	ingestCmd.Flags().StringVar(&file, "file", "", "scanner report file to ingest")
	ingestCmd.Flags().StringVar(&parser, "parser", "", "parser to use for --file (auto-detected when empty)")
	ingestCmd.Flags().StringVar(&signal.Tool, "tool", "", "tool that produced the signal")
	ingestCmd.Flags().StringVar(&signal.Severity, "severity", "info", "severity level")
	ingestCmd.Flags().StringVar(&signal.Title, "title", "", "finding title")
	ingestCmd.Flags().StringVar(&signal.Asset, "asset", "", "affected asset")
	ingestCmd.Flags().StringVar(&signal.Exposure, "exposure", "", "asset exposure (internal|internet)")
	ingestCmd.Flags().StringVar(&signal.Criticality, "criticality", "", "asset criticality (low|medium|high)")
	return ingestCmd
}
