// Package batch combines the transactions of several export files into one
// import.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// IsZero reports whether the range has no bounds.
func (dr DateRange) IsZero() bool {
	return dr.Start.IsZero() && dr.End.IsZero()
}

// String returns the date range in the format "YYYY-MM-DD..YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s..%s", dr.Start.Format(models.DayLayout), dr.End.Format(models.DayLayout))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// CalculateDateRange returns the range of completion dates of transactions.
// Transactions without a completion date are ignored.
func CalculateDateRange(transactions []models.Transaction) DateRange {
	var dr DateRange
	for _, tx := range transactions {
		if tx.CompletedAt.IsZero() {
			continue
		}
		dr = dr.Merge(DateRange{Start: tx.CompletedAt, End: tx.CompletedAt})
	}
	return dr
}

// ParseFunc parses one export file.
type ParseFunc func(path string) ([]models.Transaction, error)

// FileError is a file that could not be parsed.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result is the combined import of several files.
type Result struct {
	Transactions []models.Transaction
	SourceFiles  []string
	Failed       []FileError
	Duplicates   int
	DateRange    DateRange
}

// Combiner merges transactions parsed from several files.
type Combiner struct {
	logger logging.Logger
}

// NewCombiner creates a new Combiner instance
func NewCombiner(logger logging.Logger) *Combiner {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Combiner{
		logger: logger,
	}
}

// Combine parses every file and merges the transactions. A file that fails to
// parse is recorded in Result.Failed and skipped. A single file keeps its row
// order; several files are sorted chronologically and renumbered from 1.
// Potential duplicates are logged but kept.
func (c *Combiner) Combine(files []string, parse ParseFunc) Result {
	var result Result

	for _, file := range files {
		transactions, err := parse(file)
		if err != nil {
			c.logger.WithError(err).Error("Failed to parse file",
				logging.Field{Key: logging.FieldFile, Value: file})
			result.Failed = append(result.Failed, FileError{File: file, Err: err})
			continue
		}

		c.logger.Debug("Loaded transactions from file",
			logging.Field{Key: logging.FieldCount, Value: len(transactions)},
			logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})

		result.Transactions = append(result.Transactions, transactions...)
		result.SourceFiles = append(result.SourceFiles, file)
	}

	if len(result.SourceFiles) > 1 {
		sortChronologically(result.Transactions)
		for i := range result.Transactions {
			result.Transactions[i].ID = i + 1
		}
		result.Duplicates = c.detectAndLogDuplicates(result.Transactions)
	}
	result.DateRange = CalculateDateRange(result.Transactions)

	c.logger.Info("Combined transactions",
		logging.Field{Key: logging.FieldCount, Value: len(result.Transactions)},
		logging.Field{Key: "source_files", Value: strings.Join(result.SourceFiles, ", ")},
		logging.Field{Key: "failed_files", Value: len(result.Failed)})
	return result
}

// sortChronologically orders by completion date; undated (pending) rows go
// last. Ties keep their input order.
func sortChronologically(transactions []models.Transaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		a, b := transactions[i].CompletedAt, transactions[j].CompletedAt
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.Before(b)
	})
}

// detectAndLogDuplicates counts transactions that look like an earlier one
// completed on the same day. Transactions must be sorted chronologically so
// that rows of one day are adjacent.
func (c *Combiner) detectAndLogDuplicates(transactions []models.Transaction) int {
	duplicateCount := 0

	for i := 1; i < len(transactions); i++ {
		for j := i - 1; j >= 0; j-- {
			if transactions[j].CompletedDay() != transactions[i].CompletedDay() {
				break
			}
			if arePotentialDuplicates(transactions[j], transactions[i]) {
				duplicateCount++
				c.logger.Warn("Potential duplicate transaction",
					logging.Field{Key: "date", Value: transactions[i].CompletedDay()},
					logging.Field{Key: "amount", Value: transactions[i].Amount.String()},
					logging.Field{Key: logging.FieldCurrency, Value: transactions[i].Currency},
					logging.Field{Key: "description", Value: transactions[i].Description})
				break
			}
		}
	}

	if duplicateCount > 0 {
		c.logger.Warn("Found potential duplicate transactions",
			logging.Field{Key: logging.FieldCount, Value: duplicateCount})
	}
	return duplicateCount
}

// arePotentialDuplicates checks if two transactions might be duplicates
func arePotentialDuplicates(tx1, tx2 models.Transaction) bool {
	day := tx1.CompletedDay()
	if day == "" || day != tx2.CompletedDay() {
		return false
	}
	if !tx1.Amount.Equal(tx2.Amount) || tx1.Currency != tx2.Currency {
		return false
	}
	return tx1.NormalizedDescription() == tx2.NormalizedDescription()
}
