package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/batch"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options controls Build.
type Options struct {
	// Target is the display currency. Empty skips conversion.
	Target string
	// Exclude lists outflow categories left out of the outflow total.
	Exclude []string
	Filter  Filter
}

// Report is the result of aggregating one import. Outflow and inflow are
// converted independently; Converted is set only when both succeeded.
type Report struct {
	ImportID         string                   `json:"import_id" yaml:"import_id"`
	GeneratedAt      time.Time                `json:"generated_at" yaml:"generated_at"`
	Period           batch.DateRange          `json:"period" yaml:"period"`
	TransactionCount int                      `json:"transaction_count" yaml:"transaction_count"`
	Currency         string                   `json:"currency,omitempty" yaml:"currency,omitempty"`
	Converted        bool                     `json:"converted" yaml:"converted"`
	OutflowConverted bool                     `json:"outflow_converted" yaml:"outflow_converted"`
	InflowConverted  bool                     `json:"inflow_converted" yaml:"inflow_converted"`
	Outflow          []models.CurrencySummary `json:"outflow" yaml:"outflow"`
	Inflow           []models.CurrencySummary `json:"inflow" yaml:"inflow"`
	OutflowTotal     decimal.Decimal          `json:"outflow_total" yaml:"outflow_total"`
	InflowTotal      decimal.Decimal          `json:"inflow_total" yaml:"inflow_total"`
	OutflowNative    []CurrencyTotal          `json:"outflow_native" yaml:"outflow_native"`
	InflowNative     []CurrencyTotal          `json:"inflow_native" yaml:"inflow_native"`
}

// Aggregator converts summaries with rates from a Provider.
type Aggregator struct {
	provider fxrates.Provider
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// NewAggregator creates an Aggregator. provider may be nil when no
// conversion is requested.
func NewAggregator(provider fxrates.Provider, logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Aggregator{
		provider: provider,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Convert sets ConvertedAmount = Amount * rate for every row, where rate is
// the number of units of the row currency per unit of target. Rates for all
// row currencies are fetched in one request. If any rate is unavailable no
// row is modified and a *fxrates.RateUnavailableError is returned.
func (a *Aggregator) Convert(ctx context.Context, rows []models.CurrencySummary, target string) error {
	target = fxrates.NormalizeCurrency(target)

	currencies := Currencies(rows)
	if len(currencies) == 0 {
		return nil
	}
	if a.provider == nil {
		return &fxrates.RateUnavailableError{Base: target, Err: errors.New("no rate provider configured")}
	}

	rates, err := a.provider.Rates(ctx, target, currencies)
	if err != nil {
		var rateErr *fxrates.RateUnavailableError
		if errors.As(err, &rateErr) {
			return err
		}
		return &fxrates.RateUnavailableError{Base: target, Err: err}
	}

	converted := make([]decimal.Decimal, len(rows))
	var missing []string
	for i, row := range rows {
		rate, ok := rates[fxrates.NormalizeCurrency(row.Currency)]
		if !ok {
			missing = appendUnique(missing, row.Currency)
			continue
		}
		converted[i] = row.Amount.Mul(decimal.NewFromFloat(rate))
	}
	if len(missing) > 0 {
		return &fxrates.RateUnavailableError{Base: target, Missing: missing}
	}

	for i := range rows {
		rows[i].ConvertedAmount = converted[i]
	}
	return nil
}

// Build filters, splits, summarizes and optionally converts txs. Each flow is
// converted on its own, so a missing rate for an inflow-only currency does not
// hide the outflow total. When a flow fails it keeps native amounts and zero
// converted amounts, and the report is returned together with the error.
func (a *Aggregator) Build(ctx context.Context, txs []models.Transaction, opts Options) (*Report, error) {
	selected := opts.Filter.Apply(txs)
	outflow, inflow := Split(selected)

	report := &Report{
		ImportID:         a.newID(),
		GeneratedAt:      a.now(),
		Period:           batch.CalculateDateRange(selected),
		TransactionCount: len(selected),
		Currency:         fxrates.NormalizeCurrency(opts.Target),
		Outflow:          Summarize(outflow),
		Inflow:           Summarize(inflow),
		OutflowTotal:     decimal.Zero,
		InflowTotal:      decimal.Zero,
	}
	if n := Exclude(report.Outflow, opts.Exclude); n > 0 {
		a.logger.Debug("Excluded outflow rows", logging.Field{Key: logging.FieldCount, Value: n})
	}
	report.OutflowNative = NativeTotals(report.Outflow)
	report.InflowNative = NativeTotals(report.Inflow)

	logger := a.logger.WithFields(
		logging.Field{Key: logging.FieldImportID, Value: report.ImportID},
		logging.Field{Key: logging.FieldCount, Value: report.TransactionCount},
	)

	if report.Currency == "" {
		logger.Info("Built report without conversion")
		return report, nil
	}

	outErr := a.Convert(ctx, report.Outflow, report.Currency)
	if outErr == nil {
		report.OutflowConverted = true
		report.OutflowTotal = Total(report.Outflow)
	}
	inErr := a.Convert(ctx, report.Inflow, report.Currency)
	if inErr == nil {
		report.InflowConverted = true
		report.InflowTotal = Total(report.Inflow)
	}
	report.Converted = report.OutflowConverted && report.InflowConverted

	if err := errors.Join(outErr, inErr); err != nil {
		logger.WithError(err).Warn("Currency conversion failed, reporting native amounts",
			logging.Field{Key: logging.FieldCurrency, Value: report.Currency},
			logging.Field{Key: "outflow_converted", Value: report.OutflowConverted},
			logging.Field{Key: "inflow_converted", Value: report.InflowConverted})
		return report, err
	}

	logger.Info("Built report",
		logging.Field{Key: logging.FieldCurrency, Value: report.Currency},
		logging.Field{Key: "outflow_total", Value: report.OutflowTotal.StringFixed(2)},
		logging.Field{Key: "inflow_total", Value: report.InflowTotal.StringFixed(2)})
	return report, nil
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
