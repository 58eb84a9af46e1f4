package aggregator

import (
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// Filter narrows transactions before aggregation. Empty fields do not filter.
// From and To are whole days, both inclusive; when either is set,
// transactions without a completion date are dropped.
type Filter struct {
	Currencies []string
	From       time.Time
	To         time.Time
}

// IsZero reports whether the filter keeps every transaction.
func (f Filter) IsZero() bool {
	return len(f.Currencies) == 0 && f.From.IsZero() && f.To.IsZero()
}

// Apply returns the transactions matching the filter, in order.
func (f Filter) Apply(txs []models.Transaction) []models.Transaction {
	if f.IsZero() {
		return txs
	}

	currencies := make(map[string]struct{}, len(f.Currencies))
	for _, c := range f.Currencies {
		if c = fxrates.NormalizeCurrency(c); c != "" {
			currencies[c] = struct{}{}
		}
	}
	from, to := day(f.From), day(f.To)

	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if len(currencies) > 0 {
			if _, ok := currencies[tx.Currency]; !ok {
				continue
			}
		}
		if !from.IsZero() || !to.IsZero() {
			if tx.CompletedAt.IsZero() {
				continue
			}
			d := day(tx.CompletedAt)
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !to.IsZero() && d.After(to) {
				continue
			}
		}
		out = append(out, tx)
	}
	return out
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
