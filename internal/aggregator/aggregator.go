// Package aggregator turns categorized transactions into per-category,
// per-currency summaries and converts them into a display currency.
package aggregator

import (
	"sort"
	"strings"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"

	"github.com/shopspring/decimal"
)

// CurrencyTotal is the sum of a set of rows in one currency.
type CurrencyTotal struct {
	Currency string          `csv:"Currency" json:"currency" yaml:"currency"`
	Amount   decimal.Decimal `csv:"Amount" json:"amount" yaml:"amount"`
}

// Split separates outflows from inflows. Outflows are transactions with an
// amount <= 0, returned with the sign flipped so every amount is >= 0.
// Inflows are returned unchanged. Order is preserved.
func Split(txs []models.Transaction) (outflow, inflow []models.Transaction) {
	outflow = make([]models.Transaction, 0, len(txs))
	inflow = make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsOutflow() {
			tx.Amount = tx.Amount.Neg()
			outflow = append(outflow, tx)
			continue
		}
		inflow = append(inflow, tx)
	}
	return outflow, inflow
}

// Summarize groups txs by category and currency and sums their amounts.
// Rows are sorted by amount, largest first; equal amounts keep the order in
// which their group first appeared.
func Summarize(txs []models.Transaction) []models.CurrencySummary {
	index := make(map[models.SummaryKey]int)
	rows := make([]models.CurrencySummary, 0)

	for _, tx := range txs {
		key := models.SummaryKey{Category: tx.Category, Currency: tx.Currency}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.CurrencySummary{
				Category:        key.Category,
				Currency:        key.Currency,
				Amount:          decimal.Zero,
				ConvertedAmount: decimal.Zero,
				Included:        true,
			})
		}
		rows[i].Amount = rows[i].Amount.Add(tx.Amount)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Amount.GreaterThan(rows[j].Amount)
	})
	return rows
}

// Exclude marks rows of the given categories as not included. Category names
// are compared case-insensitively. It returns the number of rows changed.
func Exclude(rows []models.CurrencySummary, categories []string) int {
	if len(categories) == 0 {
		return 0
	}
	changed := 0
	for i := range rows {
		for _, c := range categories {
			if rows[i].Included && strings.EqualFold(strings.TrimSpace(c), rows[i].Category) {
				rows[i].Included = false
				changed++
				break
			}
		}
	}
	return changed
}

// Total sums the converted amounts of included rows.
func Total(rows []models.CurrencySummary) decimal.Decimal {
	total := decimal.Zero
	for _, row := range rows {
		if row.Included {
			total = total.Add(row.ConvertedAmount)
		}
	}
	return total
}

// NativeTotals sums included rows per original currency, sorted by currency.
func NativeTotals(rows []models.CurrencySummary) []CurrencyTotal {
	sums := make(map[string]decimal.Decimal)
	for _, row := range rows {
		if !row.Included {
			continue
		}
		sums[row.Currency] = sums[row.Currency].Add(row.Amount)
	}

	totals := make([]CurrencyTotal, 0, len(sums))
	for currency, amount := range sums {
		totals = append(totals, CurrencyTotal{Currency: currency, Amount: amount})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Currency < totals[j].Currency
	})
	return totals
}

// Currencies returns the distinct currencies of rows in first-seen order.
func Currencies(rows []models.CurrencySummary) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, row := range rows {
		if _, ok := seen[row.Currency]; ok {
			continue
		}
		seen[row.Currency] = struct{}{}
		out = append(out, row.Currency)
	}
	return out
}
