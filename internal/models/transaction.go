// Package models provides the data structures used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a canonical transaction parsed from a bank export.
// Amounts are signed: negative values are outflows (debits), positive
// values are inflows (credits). Only Category changes after parsing.
type Transaction struct {
	ID          int             `csv:"ID" json:"id" yaml:"id"`                               // 1-based row ordinal in the source file
	Type        string          `csv:"Type" json:"type" yaml:"type"`                         // Raw transaction type (CARD_PAYMENT, TOPUP, ...)
	Product     string          `csv:"Product" json:"product" yaml:"product"`                // Account product (Current, Savings, ...)
	StartedDate string          `csv:"Started Date" json:"started_date" yaml:"started_date"` // Kept verbatim, never parsed
	CompletedAt time.Time       `csv:"-" json:"completed_at" yaml:"completed_at"`
	Description string          `csv:"Description" json:"description" yaml:"description"`
	Amount      decimal.Decimal `csv:"Amount" json:"amount" yaml:"amount"`
	Fee         decimal.Decimal `csv:"Fee" json:"fee" yaml:"fee"`
	Currency    string          `csv:"Currency" json:"currency" yaml:"currency"`
	State       string          `csv:"State" json:"state" yaml:"state"`
	Balance     string          `csv:"Balance" json:"balance" yaml:"balance"`
	Category    string          `csv:"Category" json:"category" yaml:"category"`
}

// IsOutflow reports whether the transaction moves money out of the account.
// Zero amounts count as outflows.
func (t Transaction) IsOutflow() bool {
	return !t.Amount.IsPositive()
}

// NormalizedDescription returns the description in the form used for
// keyword matching: trimmed and lowercased.
func (t Transaction) NormalizedDescription() string {
	return NormalizeKeyword(t.Description)
}

// NormalizeKeyword trims and lowercases a keyword or description.
func NormalizeKeyword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CompletedDay returns the completion date formatted as YYYY-MM-DD.
func (t Transaction) CompletedDay() string {
	if t.CompletedAt.IsZero() {
		return ""
	}
	return t.CompletedAt.Format(DayLayout)
}

// IsKnownState reports whether state is one of the states a Revolut export
// uses. The comparison ignores case.
func IsKnownState(state string) bool {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case StateCompleted, StatePending, StateReverted, StateDeclined:
		return true
	}
	return false
}
