package common

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statement = `Type,Product,Started Date,Completed Date,Description,Amount,Fee,Currency,State,Balance
CARD_PAYMENT,Current,2025-02-01 10:00:00,2025-02-01 10:00:05,Coffee Shop,-5.00,0.00,USD,COMPLETED,95.00
`

func newTestContainer(t *testing.T) (*container.Container, *logging.MockLogger) {
	t.Helper()
	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Rules:  config.RulesConfig{File: filepath.Join(t.TempDir(), "categories.yaml")},
		FX:     config.FXConfig{TTLSeconds: 3600, TimeoutSeconds: 10, StaticRates: map[string]map[string]float64{"USD": {"USD": 1}}},
		Report: config.ReportConfig{Format: "text"},
	}
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	return c, logger
}

func TestResolveFormat(t *testing.T) {
	f, err := ResolveFormat(nil)
	require.NoError(t, err)
	assert.Equal(t, report.FormatText, f)

	f, err = ResolveFormat(&config.Config{Report: config.ReportConfig{Format: "yml"}})
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)

	_, err = ResolveFormat(&config.Config{Report: config.ReportConfig{Format: "xml"}})
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{"empty", "", time.Time{}, false},
		{"valid", "2025-02-01", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"trimmed", " 2025-02-01 ", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), false},
		{"wrong layout", "01.02.2025", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestBuildFilter(t *testing.T) {
	filter, err := BuildFilter([]string{" usd", "", "EUR"}, "2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, []string{"USD", "EUR"}, filter.Currencies)
	assert.Equal(t, "2025-01-01", filter.From.Format("2006-01-02"))
	assert.Equal(t, "2025-01-31", filter.To.Format("2006-01-02"))

	empty, err := BuildFilter(nil, "", "")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	_, err = BuildFilter(nil, "2025-02-01", "2025-01-01")
	assert.Error(t, err)

	_, err = BuildFilter(nil, "yesterday", "")
	assert.Error(t, err)
}

func TestResolveCategory(t *testing.T) {
	categories := []string{"Uncategorized", "ATM fees", "atm FEES"}

	got, ok := ResolveCategory(categories, " atm FEES ")
	require.True(t, ok)
	assert.Equal(t, "atm FEES", got, "exact match is preferred")

	got, ok = ResolveCategory(categories, "uncategorized")
	require.True(t, ok)
	assert.Equal(t, "Uncategorized", got)

	_, ok = ResolveCategory(categories, "Travel")
	assert.False(t, ok)
}

func TestImportFiles(t *testing.T) {
	c, logger := newTestContainer(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	require.NoError(t, os.WriteFile(good, []byte(statement), 0o600))
	malformed := filepath.Join(dir, "malformed.csv")
	require.NoError(t, os.WriteFile(malformed, []byte(statement+"CARD_PAYMENT,Current,Bakery\n"), 0o600))
	missing := filepath.Join(dir, "missing.csv")

	result, err := ImportFiles(c, []string{good, malformed, missing})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "Uncategorized", result.Transactions[0].Category)
	require.Len(t, result.Failed, 2)
	assert.True(t, logger.HasEntry("WARN", "Skipped malformed input file"))
	assert.True(t, logger.HasEntry("WARN", "Skipped unreadable input file"))

	_, err = ImportFiles(c, []string{missing})
	var importErr *container.ImportError
	assert.ErrorAs(t, err, &importErr)
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "Added %s", "Coffee")
	PrintWarning(&buf, "careful")
	assert.Contains(t, buf.String(), "Added Coffee")
	assert.Contains(t, buf.String(), "careful")
}
