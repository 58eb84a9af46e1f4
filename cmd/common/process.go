// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/aggregator"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/batch"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/config"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/container"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/parsererror"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/report"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
)

// ResolveFormat returns the output format configured for cfg.
func ResolveFormat(cfg *config.Config) (report.Format, error) {
	if cfg == nil {
		return report.FormatText, nil
	}
	return report.ParseFormat(cfg.Report.Format)
}

// ParseDay parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseDay(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.Parse(models.DayLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

// BuildFilter assembles an aggregation filter from command-line values.
func BuildFilter(currencies []string, from, to string) (aggregator.Filter, error) {
	var filter aggregator.Filter
	var err error

	for _, c := range currencies {
		if c = strings.TrimSpace(c); c != "" {
			filter.Currencies = append(filter.Currencies, strings.ToUpper(c))
		}
	}
	if filter.From, err = ParseDay(from); err != nil {
		return aggregator.Filter{}, err
	}
	if filter.To, err = ParseDay(to); err != nil {
		return aggregator.Filter{}, err
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return aggregator.Filter{}, fmt.Errorf("--to %s is before --from %s", to, from)
	}
	return filter, nil
}

// ResolveCategory finds the existing category matching name, ignoring case
// and surrounding spaces.
func ResolveCategory(categories []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, category := range categories {
		if category == name {
			return category, true
		}
	}
	for _, category := range categories {
		if strings.EqualFold(category, name) {
			return category, true
		}
	}
	return "", false
}

// ImportFiles parses, combines and categorizes files. Files that could not be
// parsed are logged and skipped; an error is returned only when none could.
func ImportFiles(c *container.Container, files []string) (batch.Result, error) {
	result, err := c.Import(files)
	if err != nil {
		return result, err
	}
	for _, failed := range result.Failed {
		msg := "Skipped unreadable input file"
		if parsererror.IsParseError(failed.Err) {
			msg = "Skipped malformed input file"
		}
		c.GetLogger().WithError(failed.Err).Warn(msg,
			logging.Field{Key: logging.FieldFile, Value: failed.File})
	}
	return result, nil
}

// PrintSuccess writes a highlighted confirmation line.
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// PrintWarning writes a highlighted warning line.
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf(format, args...)))
}
