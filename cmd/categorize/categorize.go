// Package categorize handles transaction categorization commands
package categorize

import (
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize [file...]",
	Short: "Categorize transactions using keyword rules",
	Long: `Categorize every transaction of one or more Revolut exports with the
keyword rules and print them. Several files are merged chronologically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		format, err := common.ResolveFormat(c.GetConfig())
		if err != nil {
			return err
		}
		files := append(append([]string{}, root.SharedFlags.Inputs...), args...)
		return run(cmd.OutOrStdout(), c, files, format)
	},
}

func run(w io.Writer, c *container.Container, files []string, format report.Format) error {
	result, err := common.ImportFiles(c, files)
	if err != nil {
		return err
	}
	return c.GetReportGenerator().Transactions(w, result.Transactions, format)
}
