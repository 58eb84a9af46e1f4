// Package learn moves a transaction to another category and remembers its
// description as a keyword of that category.
package learn

import (
	"fmt"
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/categorizer"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/store"

	"github.com/spf13/cobra"
)

type options struct {
	Files    []string
	Row      int
	Category string
	Create   bool
}

var flags options

// Cmd represents the learn command
var Cmd = &cobra.Command{
	Use:   "learn [file...]",
	Short: "Recategorize one transaction and learn its description",
	Long: `Assign a category to the transaction with the given row ID (as printed by
the categorize command for the same input files) and add its description as a
keyword of that category, so future imports categorize it automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		opts := flags
		opts.Files = append(append([]string{}, root.SharedFlags.Inputs...), args...)
		return run(cmd.OutOrStdout(), c, opts)
	},
}

func init() {
	Cmd.Flags().IntVarP(&flags.Row, "row", "r", 0, "Row ID of the transaction")
	Cmd.Flags().StringVarP(&flags.Category, "category", "c", "", "Category to assign")
	Cmd.Flags().BoolVar(&flags.Create, "create", false, "Create the category when it does not exist")
	_ = Cmd.MarkFlagRequired("row")
	_ = Cmd.MarkFlagRequired("category")
}

func run(w io.Writer, c *container.Container, opts options) error {
	result, err := common.ImportFiles(c, opts.Files)
	if err != nil {
		return err
	}

	idx := -1
	for i, tx := range result.Transactions {
		if tx.ID == opts.Row {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: row %d", categorizer.ErrTransactionNotFound, opts.Row)
	}

	category, ok := common.ResolveCategory(c.GetStore().Categories(), opts.Category)
	if !ok {
		if !opts.Create {
			return fmt.Errorf("%w: %q (use --create to add it)", store.ErrCategoryNotFound, opts.Category)
		}
		if _, err := c.GetStore().AddCategory(opts.Category); err != nil {
			return err
		}
		category = store.NormalizeCategoryName(opts.Category)
	}

	updated, learned, err := c.Recategorize(result.Transactions, idx, category)
	if err != nil {
		return err
	}

	tx := updated[idx]
	common.PrintSuccess(w, "Row %d %q moved from %s to %s", tx.ID, tx.Description, result.Transactions[idx].Category, tx.Category)
	if learned {
		common.PrintSuccess(w, "Learned keyword %q for %s", tx.Description, tx.Category)
	} else {
		common.PrintWarning(w, "Keyword %q not learned for %s", tx.Description, tx.Category)
	}
	return nil
}
