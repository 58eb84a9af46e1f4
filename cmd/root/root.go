// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Inputs     []string
	Format     string
	ConfigFile string
	RulesFile  string
	LogLevel   string
	LogFormat  string
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance",
		Short: "Categorize bank transactions and summarize spending per category and currency.",
		Long: `finance reads Revolut CSV exports, assigns each transaction a category
from keyword rules and aggregates outflows and inflows per category and
currency, optionally converted into one display currency with live rates.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if appContainer == nil {
				return nil
			}
			return appContainer.Close()
		},
	}

	// SharedFlags holds the persistent flag values
	SharedFlags = CommonFlags{}

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringSliceVarP(&SharedFlags.Inputs, "input", "i", nil, "Input file (repeatable)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: text, csv, json or yaml")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.finance, .finance or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.RulesFile, "rules", "", "Category rules file")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format: text or json")
}

// setup loads the configuration, applies flag overrides and wires the
// application container.
func setup() error {
	if _, err := config.LoadEnv(nil); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if err := ApplyFlags(cfg, SharedFlags); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	appContainer = c
	return nil
}

// ApplyFlags overrides configuration values with non-empty flags and
// validates the result.
func ApplyFlags(cfg *config.Config, flags CommonFlags) error {
	if flags.RulesFile != "" {
		cfg.Rules.File = flags.RulesFile
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(flags.LogLevel)
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(flags.LogFormat)
	}
	if flags.Format != "" {
		cfg.Report.Format = strings.ToLower(flags.Format)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetContainer returns the container built before the command ran.
func GetContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return appContainer, nil
}
