// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is a single parsed line from an uploaded fuel-card statement.
// It is immutable once parsed; all downstream stages work on copies.
type StatementRow struct {
	Date          time.Time
	SourceID      string // transaction id assigned by the card provider
	RawIdentifier string // vehicle identifier as printed on the statement
	Employee      string
	Merchant      string
	Gallons       decimal.Decimal
	CostPerGallon decimal.Decimal
	TotalCost     decimal.Decimal
	Odometer      int64
	Line          int // 1-based line number in the source file
}

// TupleKey returns the (date, identifier, total cost) key used to catch
// re-exported statements that regenerate transaction ids.
func (r *StatementRow) TupleKey() string {
	return fmt.Sprintf("%s|%s|%s",
		r.Date.Format("2006-01-02"),
		r.RawIdentifier,
		r.TotalCost.StringFixed(2))
}

// RowError records a statement line that failed to parse. Bad lines are
// collected and reported; they never abort the rest of the file.
type RowError struct {
	Err  error
	Line int
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}
