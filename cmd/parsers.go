package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/djvirus9/secops-dashboard/api/schemas"
	"github.com/djvirus9/secops-dashboard/internal/parsers"
)

// newParsersCmd creates the `parsers` command listing the registry.
func newParsersCmd() *cobra.Command {
	var category string

	parsersCmd := &cobra.Command{
		Use:   "parsers",
		Short: "Lists the registered scanner parsers",
		RunE: func(cmd *cobra.Command, args []string) error {
			var infos []schemas.ParserInfo
			if category != "" {
				infos = parsers.ListByCategory(schemas.Category(category))
				if len(infos) == 0 {
					return fmt.Errorf("no parsers in category %q", category)
				}
			} else {
				infos = parsers.List()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tFILE TYPES\tDESCRIPTION")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					info.Name, info.Category, strings.Join(info.FileTypes, ","), info.Description)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d parsers registered\n", len(infos))
			return nil
		},
	}

	parsersCmd.Flags().StringVar(&category, "category", "", "filter by category (sast, dast, sca, ...)")
	return parsersCmd
}
