// Package fxrates provides foreign exchange rates for converting summary
// amounts into a display currency.
package fxrates

import (
	"context"
	"sort"
	"strings"
)

// RateTable maps a currency code to the number of units of that currency per
// one unit of the base currency it was fetched for.
type RateTable map[string]float64

// Clone returns an independent copy of the table.
func (t RateTable) Clone() RateTable {
	clone := make(RateTable, len(t))
	for k, v := range t {
		clone[k] = v
	}
	return clone
}

// Provider returns the current rates of currencies against base. When
// currencies is empty every known rate is returned. A requested currency
// without a rate is an error: rates are never guessed.
type Provider interface {
	Rates(ctx context.Context, base string, currencies []string) (RateTable, error)
}

// NormalizeCurrency trims and upper-cases a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// normalizeCurrencies returns the sorted set of non-empty normalized codes.
func normalizeCurrencies(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = NormalizeCurrency(code)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// selectRates keeps the requested currencies of all and lists the missing ones.
func selectRates(all map[string]float64, currencies []string) (RateTable, []string) {
	if len(currencies) == 0 {
		table := make(RateTable, len(all))
		for code, rate := range all {
			table[NormalizeCurrency(code)] = rate
		}
		return table, nil
	}

	table := make(RateTable, len(currencies))
	var missing []string
	for _, code := range currencies {
		rate, ok := all[code]
		if !ok {
			missing = append(missing, code)
			continue
		}
		table[code] = rate
	}
	return table, missing
}
