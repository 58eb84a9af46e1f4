// Package categorizer assigns a category to each transaction by matching its
// description exactly against the keywords of the category rules.
package categorizer

import (
	"errors"
	"fmt"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// ErrTransactionNotFound is returned when a recategorization targets a row
// that does not exist.
var ErrTransactionNotFound = errors.New("transaction not found")

// KeywordLearner persists a keyword for a category. *store.RuleStore
// implements it.
type KeywordLearner interface {
	AddKeyword(category, keyword string) (bool, error)
}

// Categorizer applies category rules to parsed transactions.
type Categorizer struct {
	logger logging.Logger
}

// NewCategorizer creates a Categorizer.
func NewCategorizer(logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Categorizer{logger: logger}
}

// Categorize returns copies of txs with Category set from rules. The input
// slice is not modified. Descriptions matching no keyword get the default
// category.
func (c *Categorizer) Categorize(txs []models.Transaction, rules models.Rules) []models.Transaction {
	index := NewKeywordIndex(rules)
	for _, col := range index.Collisions() {
		c.logger.Warn("Keyword listed under several categories, last one wins",
			logging.Field{Key: logging.FieldKeyword, Value: col.Keyword},
			logging.Field{Key: "overridden", Value: col.Loser},
			logging.Field{Key: logging.FieldCategory, Value: col.Winner})
	}

	result := make([]models.Transaction, len(txs))
	matched := 0
	for i, tx := range txs {
		if category, ok := index.Lookup(tx.Description); ok {
			tx.Category = category
			matched++
		} else {
			tx.Category = models.CategoryUncategorized
		}
		result[i] = tx
	}

	c.logger.Debug("Categorized transactions",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "matched", Value: matched},
		logging.Field{Key: "keywords", Value: index.Len()})
	return result
}

// Recategorize assigns category to the transaction at position idx and, when
// learner is not nil, records the transaction's description as a keyword of
// that category so future imports match it. It returns a new slice and whether
// a keyword was learned. On error txs is returned unchanged.
func (c *Categorizer) Recategorize(txs []models.Transaction, idx int, category string, learner KeywordLearner) ([]models.Transaction, bool, error) {
	if idx < 0 || idx >= len(txs) {
		return txs, false, fmt.Errorf("%w: index %d of %d", ErrTransactionNotFound, idx, len(txs))
	}

	learned := false
	if learner != nil {
		var err error
		learned, err = learner.AddKeyword(category, txs[idx].Description)
		if err != nil {
			return txs, false, fmt.Errorf("failed to learn keyword for %q: %w", category, err)
		}
	}

	result := make([]models.Transaction, len(txs))
	copy(result, txs)
	result[idx].Category = category

	c.logger.Info("Recategorized transaction",
		logging.Field{Key: logging.FieldRow, Value: result[idx].ID},
		logging.Field{Key: logging.FieldCategory, Value: category},
		logging.Field{Key: "learned", Value: learned})
	return result, learned, nil
}
