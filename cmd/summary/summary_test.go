package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/aggregator"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rules = `Uncategorized: []
Travel:
  - Airline
Rent:
  - Landlord
Salary:
  - Salary
`

const statement = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2025-01-02 10:00:00,2025-01-02 10:00:05,Airline,-100.00,0.00,EUR,COMPLETED,900.00
TRANSFER,Current,2025-01-03 10:00:00,2025-01-03 10:00:05,Landlord,-900.00,0.00,EUR,COMPLETED,0.00
TOPUP,Current,2025-01-25 10:00:00,2025-01-25 10:00:05,Salary,2000.00,0.00,EUR,COMPLETED,2000.00
CARD_PAYMENT,Current,2025-02-01 10:00:00,2025-02-01 10:00:05,Airline,-50.00,0.00,USD,COMPLETED,1950.00
`

func setup(t *testing.T, rates map[string]map[string]float64) (*container.Container, string, *logging.MockLogger) {
	t.Helper()
	dir := t.TempDir()
	rulesFile := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte(rules), 0o600))
	input := filepath.Join(dir, "statement.csv")
	require.NoError(t, os.WriteFile(input, []byte(statement), 0o600))

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Rules:  config.RulesConfig{File: rulesFile},
		FX:     config.FXConfig{TTLSeconds: 3600, TimeoutSeconds: 10, StaticRates: rates},
		Report: config.ReportConfig{Format: "text"},
	}
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	return c, input, logger
}

func decode(t *testing.T, data []byte) aggregator.Report {
	t.Helper()
	var rep aggregator.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	return rep
}

func TestCommandMetadata(t *testing.T) {
	assert.Equal(t, "report [file...]", Cmd.Use)
	assert.Contains(t, Cmd.Aliases, "summary")
	for _, name := range []string{"currency", "only-currency", "from", "to", "exclude"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
}

func TestRun_ConvertsAndExcludes(t *testing.T) {
	c, input, _ := setup(t, map[string]map[string]float64{"USD": {"EUR": 0.9}})

	var buf bytes.Buffer
	err := run(context.Background(), &buf, c, options{
		Files:    []string{input},
		Currency: "usd",
		Exclude:  []string{"rent"},
		Format:   report.FormatJSON,
	})
	require.NoError(t, err)

	rep := decode(t, buf.Bytes())
	assert.True(t, rep.Converted)
	assert.Equal(t, "USD", rep.Currency)
	assert.Equal(t, 4, rep.TransactionCount)
	assert.Equal(t, "140", rep.OutflowTotal.String())
	assert.Equal(t, "1800", rep.InflowTotal.String())
}

func TestRun_Filters(t *testing.T) {
	c, input, _ := setup(t, map[string]map[string]float64{"USD": {"EUR": 0.9}})

	var buf bytes.Buffer
	err := run(context.Background(), &buf, c, options{
		Files:          []string{input},
		OnlyCurrencies: []string{"eur"},
		From:           "2025-01-03",
		To:             "2025-01-31",
		Format:         report.FormatJSON,
	})
	require.NoError(t, err)

	rep := decode(t, buf.Bytes())
	assert.False(t, rep.Converted)
	assert.Equal(t, 2, rep.TransactionCount)
	require.Len(t, rep.Outflow, 1)
	assert.Equal(t, "Rent", rep.Outflow[0].Category)
	require.Len(t, rep.Inflow, 1)
	assert.Equal(t, "Salary", rep.Inflow[0].Category)
}

func TestRun_RatesUnavailableStillReports(t *testing.T) {
	c, input, logger := setup(t, map[string]map[string]float64{"CHF": {"EUR": 1.05}})

	var buf bytes.Buffer
	err := run(context.Background(), &buf, c, options{
		Files:    []string{input},
		Currency: "USD",
		Format:   report.FormatText,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Rates for USD unavailable")
	assert.NotContains(t, buf.String(), "Total:")
	assert.NotEmpty(t, logger.EntriesByLevel("WARN"))
}

func TestRun_InvalidFilter(t *testing.T) {
	c, input, _ := setup(t, nil)
	err := run(context.Background(), &bytes.Buffer{}, c, options{Files: []string{input}, From: "soon"})
	assert.Error(t, err)
}
