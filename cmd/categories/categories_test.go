package categories

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*container.Container, string) {
	t.Helper()
	rulesFile := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("Uncategorized: []\nCoffee:\n  - Coffee Shop\n"), 0o600))

	cfg := &config.Config{
		Log:    config.LogConfig{Level: "info", Format: "text"},
		Rules:  config.RulesConfig{File: rulesFile},
		FX:     config.FXConfig{TTLSeconds: 3600, TimeoutSeconds: 10, StaticRates: map[string]map[string]float64{"USD": {"USD": 1}}},
		Report: config.ReportConfig{Format: "text"},
	}
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c, rulesFile
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range Cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.Equal(t, map[string]bool{"list": true, "add": true, "delete": true}, names)
}

func TestRunList(t *testing.T) {
	c, _ := setup(t)

	var buf bytes.Buffer
	require.NoError(t, runList(&buf, c, report.FormatText))
	assert.Contains(t, buf.String(), "Uncategorized")
	assert.Contains(t, buf.String(), "Coffee Shop")
}

func TestRunAdd_PersistsNormalizedName(t *testing.T) {
	c, rulesFile := setup(t)

	var buf bytes.Buffer
	require.NoError(t, runAdd(&buf, c, []string{"  groceries ", "COFFEE"}))
	assert.Contains(t, buf.String(), "Added category Groceries")
	assert.Contains(t, buf.String(), `Category "COFFEE" not added`)

	reloaded, err := store.Load(rulesFile, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Uncategorized", "Coffee", "Groceries"}, reloaded.Categories())
}

func TestRunDelete(t *testing.T) {
	c, rulesFile := setup(t)

	var buf bytes.Buffer
	require.NoError(t, runDelete(&buf, c, []string{"coffee", "uncategorized", "Travel"}))
	assert.Contains(t, buf.String(), "Deleted category Coffee")
	assert.Contains(t, buf.String(), "Category Uncategorized cannot be deleted")
	assert.Contains(t, buf.String(), `Category "Travel" not found`)

	reloaded, err := store.Load(rulesFile, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"Uncategorized"}, reloaded.Categories())
}
