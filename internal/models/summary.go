package models

import "github.com/shopspring/decimal"

// CurrencySummary is one aggregated row of a report: the sum of all
// transactions sharing a category and a currency.
type CurrencySummary struct {
	Category        string          `csv:"Category" json:"category" yaml:"category"`
	Currency        string          `csv:"Currency" json:"currency" yaml:"currency"`
	Amount          decimal.Decimal `csv:"Amount" json:"amount" yaml:"amount"`
	ConvertedAmount decimal.Decimal `csv:"Amount in curr." json:"converted_amount" yaml:"converted_amount"`
	Included        bool            `csv:"Selected" json:"included" yaml:"included"`
}

// Key returns the grouping key of the row.
func (s CurrencySummary) Key() SummaryKey {
	return SummaryKey{Category: s.Category, Currency: s.Currency}
}

// SummaryKey identifies a (category, currency) group.
type SummaryKey struct {
	Category string
	Currency string
}
