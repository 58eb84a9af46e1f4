// Package categories manages the category rules: listing, adding and
// deleting categories.
package categories

import (
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/store"

	"github.com/spf13/cobra"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage categories",
	Long:  `List, add and delete categories of the rules file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCmd.RunE(cmd, args)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		format, err := common.ResolveFormat(c.GetConfig())
		if err != nil {
			return err
		}
		return runList(cmd.OutOrStdout(), c, format)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <name>...",
	Short: "Add empty categories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return runAdd(cmd.OutOrStdout(), c, args)
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>...",
	Aliases: []string{"rm"},
	Short:   "Delete categories and their keywords",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return runDelete(cmd.OutOrStdout(), c, args)
	},
}

func init() {
	Cmd.AddCommand(listCmd, addCmd, deleteCmd)
}

func runList(w io.Writer, c *container.Container, format report.Format) error {
	return c.GetReportGenerator().Categories(w, c.GetStore().Snapshot(), format)
}

func runAdd(w io.Writer, c *container.Container, names []string) error {
	for _, name := range names {
		added, err := c.GetStore().AddCategory(name)
		if err != nil {
			return err
		}
		if added {
			common.PrintSuccess(w, "Added category %s", store.NormalizeCategoryName(name))
		} else {
			common.PrintWarning(w, "Category %q not added: empty or already present", name)
		}
	}
	return nil
}

func runDelete(w io.Writer, c *container.Container, names []string) error {
	for _, name := range names {
		deleted, err := c.GetStore().DeleteCategory(name)
		if err != nil {
			return err
		}
		normalized := store.NormalizeCategoryName(name)
		switch {
		case deleted:
			common.PrintSuccess(w, "Deleted category %s", normalized)
		case normalized == models.CategoryUncategorized:
			common.PrintWarning(w, "Category %s cannot be deleted", normalized)
		default:
			common.PrintWarning(w, "Category %q not found", name)
		}
	}
	return nil
}
