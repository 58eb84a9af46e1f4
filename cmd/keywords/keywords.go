// Package keywords manages the keywords that select a category.
package keywords

import (
	"fmt"
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the keywords command
var Cmd = &cobra.Command{
	Use:   "keywords",
	Short: "Manage category keywords",
	Long: `Add or list the keywords of a category. A transaction whose description
equals a keyword (ignoring case and surrounding spaces) gets that category.`,
}

var addCmd = &cobra.Command{
	Use:   "add <category> <keyword>...",
	Short: "Add keywords to a category",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return runAdd(cmd.OutOrStdout(), c, args[0], args[1:])
	},
}

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List keywords of one category, or of all categories",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		format, err := common.ResolveFormat(c.GetConfig())
		if err != nil {
			return err
		}
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		return runList(cmd.OutOrStdout(), c, category, format)
	},
}

func init() {
	Cmd.AddCommand(addCmd, listCmd)
}

func runAdd(w io.Writer, c *container.Container, category string, keywords []string) error {
	name, ok := common.ResolveCategory(c.GetStore().Categories(), category)
	if !ok {
		return fmt.Errorf("%w: %q", store.ErrCategoryNotFound, category)
	}
	for _, keyword := range keywords {
		added, err := c.GetStore().AddKeyword(name, keyword)
		if err != nil {
			return err
		}
		if added {
			common.PrintSuccess(w, "Added keyword %q to %s", keyword, name)
		} else {
			common.PrintWarning(w, "Keyword %q not added to %s", keyword, name)
		}
	}
	return nil
}

func runList(w io.Writer, c *container.Container, category string, format report.Format) error {
	rules := c.GetStore().Snapshot()
	if category != "" {
		name, ok := common.ResolveCategory(rules.Names(), category)
		if !ok {
			return fmt.Errorf("%w: %q", store.ErrCategoryNotFound, category)
		}
		rule, _ := rules.Find(name)
		rules = models.Rules{rule}
	}
	return c.GetReportGenerator().Categories(w, rules, format)
}
