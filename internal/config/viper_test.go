package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Rules:  RulesConfig{File: "categories.yaml"},
		FX:     FXConfig{BaseURL: "https://open.er-api.com/v6/latest", TTLSeconds: 3600, TimeoutSeconds: 10},
		Report: ReportConfig{Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "categories.yaml", config.Rules.File)
	assert.Equal(t, "https://open.er-api.com/v6/latest", config.FX.BaseURL)
	assert.Equal(t, time.Hour, config.FX.TTL())
	assert.Equal(t, 10*time.Second, config.FX.Timeout())
	assert.Empty(t, config.FX.StaticRates)
	assert.Equal(t, "text", config.Report.Format)
	assert.Equal(t, "", config.Report.Currency)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	testEnvVars := map[string]string{
		"FINANCE_LOG_LEVEL":          "debug",
		"FINANCE_LOG_FORMAT":         "json",
		"FINANCE_RULES_FILE":         "/tmp/rules.yaml",
		"FINANCE_FX_BASE_URL":        "http://localhost:8080/latest",
		"FINANCE_FX_TTL_SECONDS":     "60",
		"FINANCE_FX_TIMEOUT_SECONDS": "3",
		"FINANCE_REPORT_FORMAT":      "json",
		"FINANCE_REPORT_CURRENCY":    "CHF",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/rules.yaml", config.Rules.File)
	assert.Equal(t, "http://localhost:8080/latest", config.FX.BaseURL)
	assert.Equal(t, time.Minute, config.FX.TTL())
	assert.Equal(t, 3, config.FX.TimeoutSeconds)
	assert.Equal(t, "json", config.Report.Format)
	assert.Equal(t, "CHF", config.Report.Currency)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
rules:
  file: "rules/categories.yaml"
fx:
  ttl_seconds: 120
  static_rates:
    USD:
      EUR: 0.9
      GBP: 0.8
report:
  format: csv
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	chdir(t, tempDir)

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format, "default kept")
	assert.Equal(t, "rules/categories.yaml", config.Rules.File)
	assert.Equal(t, 120, config.FX.TTLSeconds)
	assert.Equal(t, "csv", config.Report.Format)
	// Viper lowercases map keys; consumers normalize currency codes.
	require.Contains(t, config.FX.StaticRates, "usd")
	assert.InDelta(t, 0.9, config.FX.StaticRates["usd"]["eur"], 1e-9)
}

func TestLoad_ExplicitFile(t *testing.T) {
	clearTestEnvVars(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0600))

	config, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}

func TestLoad_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	configContent := `
log:
  level: "warn"
fx:
  timeout_seconds: 20
  ttl_seconds: 100
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0600))
	t.Setenv("FINANCE_LOG_LEVEL", "error")
	t.Setenv("FINANCE_FX_TIMEOUT_SECONDS", "5")
	chdir(t, tempDir)

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level, "env var wins")
	assert.Equal(t, 5, config.FX.TimeoutSeconds, "env var wins")
	assert.Equal(t, 100, config.FX.TTLSeconds, "config file value")
	assert.Equal(t, "text", config.Report.Format, "default")
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "empty rules file",
			modifyConfig: func(c *Config) { c.Rules.File = " " },
			expectError:  "rules.file must not be empty",
		},
		{
			name:         "invalid base url",
			modifyConfig: func(c *Config) { c.FX.BaseURL = "ftp://rates" },
			expectError:  "fx.base_url must be an http(s) URL",
		},
		{
			name:         "zero ttl",
			modifyConfig: func(c *Config) { c.FX.TTLSeconds = 0 },
			expectError:  "fx.ttl_seconds must be positive",
		},
		{
			name:         "timeout too large",
			modifyConfig: func(c *Config) { c.FX.TimeoutSeconds = 301 },
			expectError:  "fx.timeout_seconds must be between 1 and 300",
		},
		{
			name: "negative static rate",
			modifyConfig: func(c *Config) {
				c.FX.StaticRates = map[string]map[string]float64{"usd": {"eur": -1}}
			},
			expectError: "fx.static_rates.usd.eur must be positive",
		},
		{
			name:         "invalid report format",
			modifyConfig: func(c *Config) { c.Report.Format = "xml" },
			expectError:  "invalid report format",
		},
		{
			name:         "invalid report currency",
			modifyConfig: func(c *Config) { c.Report.Currency = "EURO" },
			expectError:  "report.currency must be a 3-letter code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)
			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_StaticRatesSkipBaseURL(t *testing.T) {
	config := validConfig()
	config.FX.BaseURL = ""
	config.FX.StaticRates = map[string]map[string]float64{"usd": {"eur": 0.9}}
	assert.NoError(t, validateConfig(config))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	for _, format := range []string{"text", "json"} {
		config := validConfig()
		config.Log.Format = format
		assert.NotNil(t, ConfigureLoggingFromConfig(config))
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	child := filepath.Join(dir, "child")
	require.NoError(t, os.MkdirAll(child, 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FINANCE_TEST_DOTENV=loaded\n"), 0600))
	t.Setenv("FINANCE_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("FINANCE_TEST_DOTENV"))

	chdir(t, child)
	loaded, err := LoadEnv(logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", ".env"), loaded)
	assert.Equal(t, "loaded", os.Getenv("FINANCE_TEST_DOTENV"))

	chdir(t, t.TempDir())
	loaded, err = LoadEnv(nil)
	require.NoError(t, err)
	assert.Equal(t, "", loaded)
}

// clearTestEnvVars unsets every FINANCE_* variable read by the configuration
// and points HOME at an empty directory for the duration of the test.
func clearTestEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	envVars := []string{
		"FINANCE_LOG_LEVEL",
		"FINANCE_LOG_FORMAT",
		"FINANCE_RULES_FILE",
		"FINANCE_FX_BASE_URL",
		"FINANCE_FX_TTL_SECONDS",
		"FINANCE_FX_TIMEOUT_SECONDS",
		"FINANCE_REPORT_FORMAT",
		"FINANCE_REPORT_CURRENCY",
	}
	for _, envVar := range envVars {
		t.Setenv(envVar, "")
		require.NoError(t, os.Unsetenv(envVar))
	}
}
