// Package statement parses uploaded fuel-card statements into typed rows.
package statement

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fleetops/fuelflow/internal/common"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/shopspring/decimal"
)

// Required statement columns, by normalized header name.
const (
	colDate       = "date"
	colEmployee   = "employee"
	colIdentifier = "vehicle identifier"
	colGallons    = "gallons"
	colCostPer    = "cost per gallon"
	colTotal      = "total cost"
	colOdometer   = "odometer"
	colMerchant   = "merchant"
)

var requiredColumns = []string{
	colDate, colEmployee, colIdentifier, colGallons,
	colCostPer, colTotal, colOdometer, colMerchant,
}

// Header aliases seen across card providers.
var headerAliases = map[string]string{
	"transaction date":  colDate,
	"driver":            colEmployee,
	"employee name":     colEmployee,
	"driver name":       colEmployee,
	"vehicle id":        colIdentifier,
	"vehicle":           colIdentifier,
	"unit":              colIdentifier,
	"qty":               colGallons,
	"quantity":          colGallons,
	"price per gallon":  colCostPer,
	"unit price":        colCostPer,
	"cost/gallon":       colCostPer,
	"amount":            colTotal,
	"total":             colTotal,
	"odometer reading":  colOdometer,
	"merchant name":     colMerchant,
	"site name":         colMerchant,
	"transaction id":    "transaction id",
	"transaction":       "transaction id",
	"txn id":            "transaction id",
	"reference":         "transaction id",
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
	"01-02-2006",
}

// Parser converts raw statement bytes into statement rows. Parsing is total
// and side-effect free: one bad line is collected as a RowError and never
// blocks the rest of the file.
type Parser struct{}

// NewParser creates a new statement parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses a UTF-8 CSV statement. It returns the successfully
// parsed rows in file order plus a RowError for every rejected line. The
// returned error is non-nil only when the whole file is unusable: a
// malformed or incomplete header, or zero parseable rows.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.StatementRow, []model.RowError, error) {
	r := csv.NewReader(reader)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// A single mangled line is recoverable; remember its
				// position with an empty record so line numbers stay
				// aligned with the source file.
				records = append(records, nil)
				continue
			}
			return nil, nil, fmt.Errorf("failed to read statement: %w", err)
		}
		records = append(records, record)
	}

	return p.parseRecords(ctx, records)
}

// parseRecords converts raw records (header first) into statement rows.
// Shared by the CSV and XLSX entry points.
func (p *Parser) parseRecords(_ context.Context, records [][]string) ([]model.StatementRow, []model.RowError, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, nil, common.ErrMalformedHeader
	}

	columns, err := mapHeader(records[0])
	if err != nil {
		return nil, nil, err
	}

	var rows []model.StatementRow
	var rowErrs []model.RowError

	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header
		if len(record) == 0 {
			rowErrs = append(rowErrs, model.RowError{Line: line, Err: errors.New("unreadable line")})
			continue
		}

		row, err := parseRow(record, columns, line)
		if err != nil {
			rowErrs = append(rowErrs, model.RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, rowErrs, fmt.Errorf("%w: %d rejected lines", common.ErrEmptyStatement, len(rowErrs))
	}

	slog.Info("Parsed statement",
		"rows", len(rows),
		"rejected", len(rowErrs))

	return rows, rowErrs, nil
}

// mapHeader resolves required column names to field indexes.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		normalized := normalizeHeader(name)
		if canonical, ok := headerAliases[normalized]; ok {
			normalized = canonical
		}
		if _, seen := columns[normalized]; !seen {
			columns[normalized] = i
		}
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %q", common.ErrMissingColumn, required)
		}
	}

	return columns, nil
}

func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff") // Excel exports love BOMs
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

func parseRow(record []string, columns map[string]int, line int) (model.StatementRow, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	date, err := parseDate(field(colDate))
	if err != nil {
		return model.StatementRow{}, err
	}

	gallons, err := parseDecimal(field(colGallons), "gallons")
	if err != nil {
		return model.StatementRow{}, err
	}
	costPer, err := parseDecimal(field(colCostPer), "cost per gallon")
	if err != nil {
		return model.StatementRow{}, err
	}
	total, err := parseDecimal(field(colTotal), "total cost")
	if err != nil {
		return model.StatementRow{}, err
	}
	odometer, err := parseOdometer(field(colOdometer))
	if err != nil {
		return model.StatementRow{}, err
	}

	row := model.StatementRow{
		SourceID:      field("transaction id"),
		Date:          date,
		RawIdentifier: field(colIdentifier),
		Employee:      field(colEmployee),
		Merchant:      field(colMerchant),
		Gallons:       gallons,
		CostPerGallon: costPer,
		TotalCost:     total,
		Odometer:      odometer,
		Line:          line,
	}

	// Some providers omit a transaction id column entirely; synthesize a
	// stable one from the row contents so duplicate detection still works.
	if row.SourceID == "" {
		row.SourceID = fmt.Sprintf("%s-%s-%s",
			date.Format("20060102"), row.RawIdentifier, total.StringFixed(2))
	}

	return row, nil
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parseDecimal(value, name string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("missing %s", name)
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable %s %q", name, value)
	}
	return d, nil
}

func parseOdometer(value string) (int64, error) {
	if value == "" {
		return 0, errors.New("missing odometer")
	}
	d, err := parseDecimal(value, "odometer")
	if err != nil {
		return 0, err
	}
	return d.IntPart(), nil
}
