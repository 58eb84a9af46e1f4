// Package report renders aggregation reports, transaction lists and rate
// tables as text, CSV, JSON or YAML.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/aggregator"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/fxrates"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Generator writes reports in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Generator{logger: logger}
}

type summaryRow struct {
	Flow            string `csv:"Flow"`
	Category        string `csv:"Category"`
	Currency        string `csv:"Currency"`
	Amount          string `csv:"Amount"`
	ConvertedAmount string `csv:"Amount in curr."`
	Selected        bool   `csv:"Selected"`
}

type transactionRow struct {
	ID          int    `csv:"ID"`
	Type        string `csv:"Type"`
	Completed   string `csv:"Completed Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
	State       string `csv:"State"`
	Category    string `csv:"Category"`
}

type categoryRow struct {
	Category string `csv:"Category"`
	Keywords string `csv:"Keywords"`
}

type rateRow struct {
	Base     string `csv:"Base"`
	Currency string `csv:"Currency"`
	Rate     string `csv:"Rate"`
}

// Report writes an aggregation report.
func (g *Generator) Report(w io.Writer, report *aggregator.Report, format Format) error {
	g.logger.Debug("Rendering report",
		logging.Field{Key: logging.FieldFormat, Value: string(format)},
		logging.Field{Key: logging.FieldImportID, Value: report.ImportID})

	switch format {
	case FormatText:
		return g.reportText(w, report)
	case FormatCSV:
		rows := make([]*summaryRow, 0, len(report.Outflow)+len(report.Inflow))
		rows = appendSummaryRows(rows, "outflow", report.Outflow)
		rows = appendSummaryRows(rows, "inflow", report.Inflow)
		return g.writeCSV(w, &rows)
	case FormatJSON:
		return g.writeJSON(w, report)
	case FormatYAML:
		return g.writeYAML(w, report)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Transactions writes categorized transactions.
func (g *Generator) Transactions(w io.Writer, txs []models.Transaction, format Format) error {
	switch format {
	case FormatText:
		rows := make([][]string, 0, len(txs))
		for _, tx := range txs {
			completed := tx.CompletedDay()
			if completed == "" {
				completed = strings.ToLower(tx.State)
			}
			rows = append(rows, []string{
				strconv.Itoa(tx.ID), completed, tx.Description, tx.Amount.StringFixed(2), tx.Currency, tx.Category,
			})
		}
		return writeTable(w, []string{"ID", "Completed", "Description", "Amount", "Currency", "Category"}, rows)
	case FormatCSV:
		rows := make([]*transactionRow, 0, len(txs))
		for _, tx := range txs {
			rows = append(rows, &transactionRow{
				ID:          tx.ID,
				Type:        tx.Type,
				Completed:   tx.CompletedDay(),
				Description: tx.Description,
				Amount:      tx.Amount.String(),
				Currency:    tx.Currency,
				State:       tx.State,
				Category:    tx.Category,
			})
		}
		return g.writeCSV(w, &rows)
	case FormatJSON:
		return g.writeJSON(w, txs)
	case FormatYAML:
		return g.writeYAML(w, txs)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Categories writes category rules in order. The default category is listed
// without keywords.
func (g *Generator) Categories(w io.Writer, rules models.Rules, format Format) error {
	switch format {
	case FormatText:
		rows := make([][]string, 0, len(rules))
		for _, rule := range rules {
			keywords := strings.Join(rule.Keywords, ", ")
			if keywords == "" {
				keywords = "-"
			}
			rows = append(rows, []string{rule.Name, keywords})
		}
		return writeTable(w, []string{"Category", "Keywords"}, rows)
	case FormatCSV:
		rows := make([]*categoryRow, 0, len(rules))
		for _, rule := range rules {
			rows = append(rows, &categoryRow{Category: rule.Name, Keywords: strings.Join(rule.Keywords, "|")})
		}
		return g.writeCSV(w, &rows)
	case FormatJSON:
		return g.writeJSON(w, rules)
	case FormatYAML:
		return g.writeYAML(w, rules)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Rates writes a rate table for base, sorted by currency.
func (g *Generator) Rates(w io.Writer, base string, rates fxrates.RateTable, format Format) error {
	codes := make([]string, 0, len(rates))
	for code := range rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	switch format {
	case FormatText:
		fmt.Fprintln(w, titleStyle.Render("1 "+base+" ="))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, code := range codes {
			fmt.Fprintf(tw, "  %s\t%s\n", decimal.NewFromFloat(rates[code]).String(), code)
		}
		return tw.Flush()
	case FormatCSV:
		rows := make([]*rateRow, 0, len(codes))
		for _, code := range codes {
			rows = append(rows, &rateRow{Base: base, Currency: code, Rate: decimal.NewFromFloat(rates[code]).String()})
		}
		return g.writeCSV(w, &rows)
	case FormatJSON:
		return g.writeJSON(w, map[string]interface{}{"base": base, "rates": rates})
	case FormatYAML:
		return g.writeYAML(w, map[string]interface{}{"base": base, "rates": rates})
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) reportText(w io.Writer, report *aggregator.Report) error {
	header := fmt.Sprintf("Report %s", report.ImportID)
	if period := report.Period.String(); period != "" {
		header += " " + period
	}
	fmt.Fprintln(w, titleStyle.Render(header))
	fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("%d transactions", report.TransactionCount)))

	sections := []struct {
		title     string
		rows      []models.CurrencySummary
		converted bool
		total     decimal.Decimal
		native    []aggregator.CurrencyTotal
	}{
		{"Outflow", report.Outflow, report.OutflowConverted, report.OutflowTotal, report.OutflowNative},
		{"Inflow", report.Inflow, report.InflowConverted, report.InflowTotal, report.InflowNative},
	}
	for _, s := range sections {
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render(s.title))
		if len(s.rows) == 0 {
			fmt.Fprintln(w, subtleStyle.Render("(none)"))
			continue
		}
		converted := report.Currency != "" && s.converted
		if report.Currency != "" && !converted {
			fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("Rates for %s unavailable, showing native amounts only", report.Currency)))
		}
		if err := writeSummaryTable(w, s.rows, report.Currency, converted); err != nil {
			return err
		}
		if converted {
			fmt.Fprintln(w, totalStyle.Render(fmt.Sprintf("Total: %s %s", s.total.StringFixed(2), report.Currency)))
		}
		for _, n := range s.native {
			fmt.Fprintln(w, subtleStyle.Render(fmt.Sprintf("  %s %s", n.Amount.StringFixed(2), n.Currency)))
		}
	}
	return nil
}

func writeSummaryTable(w io.Writer, rows []models.CurrencySummary, target string, converted bool) error {
	headers := []string{"Category", "Currency", "Amount"}
	if converted {
		headers = append(headers, "Amount in "+target)
	}
	headers = append(headers, "Selected")

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		line := []string{row.Category, row.Currency, row.Amount.StringFixed(2)}
		if converted {
			line = append(line, row.ConvertedAmount.StringFixed(2))
		}
		selected := "yes"
		if !row.Included {
			selected = "no"
		}
		cells = append(cells, append(line, selected))
	}
	return writeTable(w, headers, cells)
}

// writeTable aligns plain cells with tabwriter and styles the header line
// afterwards, so escape sequences never count towards column widths.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	header, body, _ := strings.Cut(buf.String(), "\n")
	if _, err := fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " "))); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}

func appendSummaryRows(dst []*summaryRow, flow string, rows []models.CurrencySummary) []*summaryRow {
	for _, row := range rows {
		dst = append(dst, &summaryRow{
			Flow:            flow,
			Category:        row.Category,
			Currency:        row.Currency,
			Amount:          row.Amount.StringFixed(2),
			ConvertedAmount: row.ConvertedAmount.StringFixed(2),
			Selected:        row.Included,
		})
	}
	return dst
}

func (g *Generator) writeCSV(w io.Writer, rows interface{}) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return nil
}

func (g *Generator) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return nil
}

func (g *Generator) writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return enc.Close()
}
