// Package container provides dependency injection for the finance application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/aggregator"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/batch"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/categorizer"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/parser"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/revolutparser"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.RuleStore
	parser      parser.FullParser
	categorizer *categorizer.Categorizer
	rates       fxrates.Provider
	combiner    *batch.Combiner
	aggregator  *aggregator.Aggregator
	generator   *report.Generator
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, config.ConfigureLoggingFromConfig(cfg))
}

// NewContainerWithLogger wires dependencies around an existing logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	rulesFile := store.ResolveRulesFile(cfg.Rules.File)
	ruleStore := store.Open(rulesFile, logger)

	var rates fxrates.Provider
	if len(cfg.FX.StaticRates) > 0 {
		rates = fxrates.NewStaticProvider(cfg.FX.StaticRates)
		logger.Info("Using static exchange rates",
			logging.Field{Key: logging.FieldCount, Value: len(cfg.FX.StaticRates)})
	} else {
		httpProvider := fxrates.NewHTTPProvider(cfg.FX.BaseURL, cfg.FX.Timeout(), logger)
		rates = fxrates.NewCachedProvider(httpProvider, cfg.FX.TTL(), logger)
	}

	c := &Container{
		logger:      logger,
		config:      cfg,
		store:       ruleStore,
		parser:      revolutparser.NewParser(logger),
		categorizer: categorizer.NewCategorizer(logger),
		rates:       rates,
		combiner:    batch.NewCombiner(logger),
		aggregator:  aggregator.NewAggregator(rates, logger),
		generator:   report.NewGenerator(logger),
	}

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldFile, Value: rulesFile},
		logging.Field{Key: logging.FieldCount, Value: len(ruleStore.Categories())})
	return c, nil
}

// ImportError is returned when none of the requested files could be parsed.
type ImportError struct {
	Failed []batch.FileError
}

func (e *ImportError) Error() string {
	if len(e.Failed) == 1 {
		return fmt.Sprintf("failed to import %s", e.Failed[0].Error())
	}
	return fmt.Sprintf("failed to import %d files, first: %s", len(e.Failed), e.Failed[0].Error())
}

func (e *ImportError) Unwrap() error {
	if len(e.Failed) == 0 {
		return nil
	}
	return e.Failed[0].Err
}

// Import parses and combines files, then categorizes the transactions with
// the current rules. Files that fail to parse are listed in the result; an
// *ImportError is returned only when no file could be parsed.
func (c *Container) Import(files []string) (batch.Result, error) {
	if len(files) == 0 {
		return batch.Result{}, fmt.Errorf("no input file given")
	}

	result := c.combiner.Combine(files, c.parser.ParseFile)
	if len(result.SourceFiles) == 0 {
		return result, &ImportError{Failed: result.Failed}
	}
	result.Transactions = c.categorizer.Categorize(result.Transactions, c.store.Snapshot())
	return result, nil
}

// Recategorize moves one transaction to category and learns its description
// as a keyword of that category in the rule store.
func (c *Container) Recategorize(txs []models.Transaction, idx int, category string) ([]models.Transaction, bool, error) {
	return c.categorizer.Recategorize(txs, idx, category, c.store)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the category rule store.
func (c *Container) GetStore() *store.RuleStore {
	return c.store
}

// GetRateProvider returns the exchange rate provider.
func (c *Container) GetRateProvider() fxrates.Provider {
	return c.rates
}

// GetAggregator returns the report aggregator.
func (c *Container) GetAggregator() *aggregator.Aggregator {
	return c.aggregator
}

// GetReportGenerator returns the output renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.generator
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
