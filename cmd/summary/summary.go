// Package summary implements the report command: outflow and inflow per
// category and currency, optionally converted into one currency.
package summary

import (
	"context"
	"errors"
	"io"

	"github.com/Brave-new-w0rld/streamlit-finance/cmd/common"
	"github.com/Brave-new-w0rld/streamlit-finance/cmd/root"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/aggregator"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/spf13/cobra"
)

type options struct {
	Files          []string
	Currency       string
	OnlyCurrencies []string
	From           string
	To             string
	Exclude        []string
	Format         report.Format
}

var flags options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:     "report [file...]",
	Aliases: []string{"summary"},
	Short:   "Summarize outflows and inflows per category and currency",
	Long: `Summarize categorized transactions per category and currency.

With --currency every row is also converted into that currency using live
exchange rates. When rates cannot be fetched the report is still printed with
native amounts only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		opts := flags
		opts.Files = append(append([]string{}, root.SharedFlags.Inputs...), args...)
		if opts.Format, err = common.ResolveFormat(c.GetConfig()); err != nil {
			return err
		}
		if opts.Currency == "" {
			opts.Currency = c.GetConfig().Report.Currency
		}
		return run(cmd.Context(), cmd.OutOrStdout(), c, opts)
	},
}

func init() {
	Cmd.Flags().StringVarP(&flags.Currency, "currency", "c", "", "Convert amounts into this currency (e.g. USD)")
	Cmd.Flags().StringSliceVar(&flags.OnlyCurrencies, "only-currency", nil, "Only include transactions in these currencies")
	Cmd.Flags().StringVar(&flags.From, "from", "", "First completion day to include (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&flags.To, "to", "", "Last completion day to include (YYYY-MM-DD)")
	Cmd.Flags().StringSliceVarP(&flags.Exclude, "exclude", "x", nil, "Outflow categories left out of the total")
}

func run(ctx context.Context, w io.Writer, c *container.Container, opts options) error {
	filter, err := common.BuildFilter(opts.OnlyCurrencies, opts.From, opts.To)
	if err != nil {
		return err
	}

	result, err := common.ImportFiles(c, opts.Files)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rep, err := c.GetAggregator().Build(ctx, result.Transactions, aggregator.Options{
		Target:  opts.Currency,
		Exclude: opts.Exclude,
		Filter:  filter,
	})
	if err != nil {
		var rateErr *fxrates.RateUnavailableError
		if !errors.As(err, &rateErr) {
			return err
		}
	}
	return c.GetReportGenerator().Report(w, rep, opts.Format)
}
