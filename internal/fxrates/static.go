package fxrates

import (
	"context"
	"errors"
)

// StaticProvider serves rates from a fixed table keyed by base currency.
// A currency always converts to itself at 1.
type StaticProvider struct {
	tables map[string]map[string]float64
}

// NewStaticProvider copies tables, normalizing every currency code.
func NewStaticProvider(tables map[string]map[string]float64) *StaticProvider {
	p := &StaticProvider{tables: make(map[string]map[string]float64, len(tables))}
	for base, rates := range tables {
		base = NormalizeCurrency(base)
		table := make(map[string]float64, len(rates)+1)
		for code, rate := range rates {
			table[NormalizeCurrency(code)] = rate
		}
		table[base] = 1
		p.tables[base] = table
	}
	return p
}

// Rates implements Provider.
func (p *StaticProvider) Rates(_ context.Context, base string, currencies []string) (RateTable, error) {
	base = NormalizeCurrency(base)
	all, ok := p.tables[base]
	if !ok {
		return nil, &RateUnavailableError{Base: base, Err: errors.New("no static rates configured")}
	}
	table, missing := selectRates(all, normalizeCurrencies(currencies))
	if len(missing) > 0 {
		return nil, &RateUnavailableError{Base: base, Missing: missing}
	}
	return table, nil
}
