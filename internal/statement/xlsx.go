package statement

import (
	"context"
	"fmt"
	"io"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/xuri/excelize/v2"
)

// ParseXLSX parses a statement exported as an Excel workbook. Only the
// first sheet is read; it must carry the same header layout as the CSV
// export.
func (p *Parser) ParseXLSX(ctx context.Context, reader io.Reader) ([]model.StatementRow, []model.RowError, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook contains no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return p.parseRecords(ctx, records)
}
