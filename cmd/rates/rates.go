// Package rates prints exchange rates for a base currency.
package rates

import (
	"context"
	"fmt"
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/spf13/cobra"
)

// DefaultBase is used when neither --base nor report.currency is set.
const DefaultBase = "USD"

var base string

// Cmd represents the rates command
var Cmd = &cobra.Command{
	Use:   "rates [currency...]",
	Short: "Show exchange rates for a base currency",
	Long: `Show how many units of each currency one unit of the base currency buys.
Without currency arguments every rate returned by the provider is printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		format, err := common.ResolveFormat(c.GetConfig())
		if err != nil {
			return err
		}
		b := base
		if b == "" {
			b = c.GetConfig().Report.Currency
		}
		if b == "" {
			b = DefaultBase
		}
		return run(cmd.Context(), cmd.OutOrStdout(), c, b, args, format)
	},
}

func init() {
	Cmd.Flags().StringVarP(&base, "base", "b", "", "Base currency (default: report.currency or USD)")
}

func run(ctx context.Context, w io.Writer, c *container.Container, base string, currencies []string, format report.Format) error {
	if ctx == nil {
		ctx = context.Background()
	}
	base = fxrates.NormalizeCurrency(base)
	if len(base) != 3 {
		return fmt.Errorf("invalid base currency %q", base)
	}

	table, err := c.GetRateProvider().Rates(ctx, base, currencies)
	if err != nil {
		return err
	}
	return c.GetReportGenerator().Rates(w, base, table, format)
}
