// Package revolutparser parses Revolut account statement exports into
// canonical transactions. Two layouts are accepted: the regular CSV with one
// column per field, and a single packed column holding all ten fields as one
// comma-joined string (what spreadsheet re-exports of the statement produce).
package revolutparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Brave-new-w0rld/streamlit-finance/internal/logging"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/models"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/parser"
	"github.com/Brave-new-w0rld/streamlit-finance/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

const parserName = "revolut"

// Columns is the canonical Revolut export header, in file order.
var Columns = []string{
	"Type", "Product", "Started Date", "Completed Date", "Description",
	"Amount", "Fee", "Currency", "State", "Balance",
}

// unnamedColumn matches placeholder headers left behind by spreadsheet tools
// ("Unnamed: 10").
var unnamedColumn = regexp.MustCompile(`^Unnamed`)

// RevolutCSVRow represents a single row in a Revolut CSV file.
// It uses struct tags for gocsv unmarshaling.
type RevolutCSVRow struct {
	Type          string `csv:"Type"`
	Product       string `csv:"Product"`
	StartedDate   string `csv:"Started Date"`
	CompletedDate string `csv:"Completed Date"`
	Description   string `csv:"Description"`
	Amount        string `csv:"Amount"`
	Fee           string `csv:"Fee"`
	Currency      string `csv:"Currency"`
	State         string `csv:"State"`
	Balance       string `csv:"Balance"`
}

// Parser reads Revolut exports. It implements parser.FullParser.
type Parser struct {
	parser.BaseParser
}

// NewParser creates a Revolut parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(logger)}
}

// Parse reads an export from r.
func (p *Parser) Parse(r io.Reader) ([]models.Transaction, error) {
	return p.parse(r, "input")
}

// ParseFile reads the export stored at filePath.
func (p *Parser) ParseFile(filePath string) ([]models.Transaction, error) {
	return p.OpenAndParse(filePath, p.parse)
}

// ValidateFormat reports whether the header of r is a Revolut header in either
// layout. Rows are not inspected.
func (p *Parser) ValidateFormat(r io.Reader) (bool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading CSV header: %w", err)
	}

	layout, err := detectLayout(normalizeHeader(header))
	if err != nil {
		p.GetLogger().Debug("Header is not a Revolut header", logging.Field{Key: logging.FieldError, Value: err.Error()})
		return false, nil
	}
	p.GetLogger().Debug("Detected Revolut layout", logging.Field{Key: "layout", Value: layout.String()})
	return true, nil
}

func (p *Parser) parse(r io.Reader, source string) ([]models.Transaction, error) {
	logger := p.GetLogger().WithFields(
		logging.Field{Key: logging.FieldParser, Value: parserName},
		logging.Field{Key: logging.FieldFile, Value: source},
	)
	logger.Info("Parsing Revolut export")

	records, err := readRecords(r, source)
	if err != nil {
		return nil, err
	}

	table, err := normalizeTable(records, source)
	if err != nil {
		return nil, err
	}

	var rows []RevolutCSVRow
	if err := gocsv.UnmarshalCSV(&recordReader{records: table}, &rows); err != nil {
		return nil, &parsererror.InvalidFormatError{
			Source:         source,
			ExpectedFormat: "Revolut CSV",
			Msg:            "rows could not be mapped to columns",
			Err:            err,
		}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := convertRow(row, i+1)
		if err != nil {
			logger.WithError(err).Warn("Rejecting export")
			return nil, err
		}
		if !models.IsKnownState(tx.State) {
			logger.Warn("Unknown transaction state",
				logging.Field{Key: logging.FieldRow, Value: tx.ID},
				logging.Field{Key: "state", Value: tx.State})
		}
		transactions = append(transactions, tx)
	}

	logger.Info("Successfully parsed Revolut export", logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return transactions, nil
}

// readRecords reads every CSV record. All rows must have as many fields as
// the header.
func readRecords(r io.Reader, source string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) && errors.Is(csvErr.Err, csv.ErrFieldCount) {
				return nil, fieldCountError(len(records), "row", len(record), len(records[0]))
			}
			return nil, &parsererror.InvalidFormatError{
				Source:         source,
				ExpectedFormat: "CSV",
				Row:            len(records),
				Msg:            "malformed CSV",
				Err:            err,
			}
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, &parsererror.InvalidFormatError{
			Source:         source,
			ExpectedFormat: "Revolut CSV with header",
			Msg:            "file is empty",
		}
	}
	return records, nil
}

// normalizeTable drops placeholder columns, trims the header and, for the
// packed layout, expands the single column into the ten named fields.
// The returned table always has Columns-compatible header first.
func normalizeTable(records [][]string, source string) ([][]string, error) {
	keep := keptColumns(records[0])
	table := make([][]string, 0, len(records))
	for _, record := range records {
		row := make([]string, 0, len(keep))
		for _, idx := range keep {
			row = append(row, record[idx])
		}
		table = append(table, row)
	}
	table[0] = normalizeHeader(table[0])

	layout, err := detectLayout(table[0])
	if err != nil {
		return nil, &parsererror.InvalidFormatError{
			Source:         source,
			ExpectedFormat: strings.Join(Columns, ","),
			Msg:            err.Error(),
		}
	}
	if layout == layoutColumns {
		return table, nil
	}

	expanded := make([][]string, 0, len(table))
	expanded = append(expanded, append([]string(nil), Columns...))
	for i, row := range table[1:] {
		fields := strings.Split(row[0], ",")
		if len(fields) != len(Columns) {
			return nil, fieldCountError(i+1, "packed row", len(fields), len(Columns))
		}
		expanded = append(expanded, fields)
	}
	return expanded, nil
}

// fieldCountError reports a data row whose field count differs from the
// header. It is a row-level failure, so it is a *parsererror.ParseError.
func fieldCountError(row int, kind string, got, want int) error {
	return &parsererror.ParseError{
		Parser: parserName,
		Row:    row,
		Field:  "fields",
		Value:  strconv.Itoa(got),
		Err:    fmt.Errorf("%s has %d fields, expected %d", kind, got, want),
	}
}

// keptColumns returns the indexes of header columns that are not placeholders.
func keptColumns(header []string) []int {
	keep := make([]int, 0, len(header))
	for i, name := range header {
		if _, ok := headerName(name); ok {
			keep = append(keep, i)
		}
	}
	return keep
}

func normalizeHeader(header []string) []string {
	out := make([]string, 0, len(header))
	for _, name := range header {
		if cleaned, ok := headerName(name); ok {
			out = append(out, cleaned)
		}
	}
	return out
}

// headerName trims a header cell. ok is false for placeholder columns.
func headerName(name string) (string, bool) {
	name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	if name == "" || unnamedColumn.MatchString(name) {
		return "", false
	}
	return name, true
}

type layout int

const (
	layoutColumns layout = iota
	layoutPacked
)

func (l layout) String() string {
	if l == layoutPacked {
		return "packed"
	}
	return "columns"
}

func detectLayout(header []string) (layout, error) {
	if len(header) == 1 && strings.Contains(header[0], ",") {
		parts := strings.Split(header[0], ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if equalColumns(parts) {
			return layoutPacked, nil
		}
		return layoutColumns, fmt.Errorf("packed header does not list the %d Revolut columns", len(Columns))
	}

	present := make(map[string]bool, len(header))
	for _, name := range header {
		present[name] = true
	}
	var missing []string
	for _, col := range Columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return layoutColumns, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return layoutColumns, nil
}

func equalColumns(names []string) bool {
	if len(names) != len(Columns) {
		return false
	}
	for i := range names {
		if names[i] != Columns[i] {
			return false
		}
	}
	return true
}

// convertRow converts a RevolutCSVRow to a Transaction. row is the 1-based
// data row number used in error reports and as transaction ID.
func convertRow(row RevolutCSVRow, rowNum int) (models.Transaction, error) {
	amount, err := parseAmount(row.Amount)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: parserName, Row: rowNum, Field: "Amount", Value: row.Amount, Err: err,
		}
	}

	fee := decimal.Zero
	if strings.TrimSpace(row.Fee) != "" {
		fee, err = parseAmount(row.Fee)
		if err != nil {
			return models.Transaction{}, &parsererror.ParseError{
				Parser: parserName, Row: rowNum, Field: "Fee", Value: row.Fee, Err: err,
			}
		}
	}

	var completedAt time.Time
	// Pending transactions have no completion date yet.
	if completed := strings.TrimSpace(row.CompletedDate); completed != "" {
		completedAt, err = time.Parse(models.DateTimeLayout, completed)
		if err != nil {
			return models.Transaction{}, &parsererror.ParseError{
				Parser: parserName, Row: rowNum, Field: "Completed Date", Value: row.CompletedDate, Err: err,
			}
		}
	}

	return models.Transaction{
		ID:          rowNum,
		Type:        strings.TrimSpace(row.Type),
		Product:     strings.TrimSpace(row.Product),
		StartedDate: strings.TrimSpace(row.StartedDate),
		CompletedAt: completedAt,
		Description: row.Description,
		Amount:      amount,
		Fee:         fee,
		Currency:    strings.ToUpper(strings.TrimSpace(row.Currency)),
		State:       strings.ToUpper(strings.TrimSpace(row.State)),
		Balance:     strings.TrimSpace(row.Balance),
		Category:    models.CategoryUncategorized,
	}, nil
}

// parseAmount strips thousands separators and parses the remainder.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(cleaned)
}

// recordReader feeds already normalized records to gocsv.
type recordReader struct {
	records [][]string
	pos     int
}

func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.records) {
		return nil, io.EOF
	}
	record := r.records[r.pos]
	r.pos++
	return record, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.pos:]
	r.pos = len(r.records)
	return rest, nil
}
