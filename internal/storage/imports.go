package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/shopspring/decimal"
)

// SourceIDExists reports whether a source transaction id has already been
// imported.
func (s *SQLiteStorage) SourceIDExists(ctx context.Context, sourceID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(sourceID, "sourceID"); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM fuel_transactions WHERE source_id = ?)
	`, sourceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check source id: %w", err)
	}

	return exists, nil
}

// TupleExists reports whether a (date, raw identifier, total cost)
// combination has already been imported. Dates are compared by calendar
// day; totals by exact value.
func (s *SQLiteStorage) TupleExists(ctx context.Context, date time.Time, rawIdentifier string, totalCost decimal.Decimal) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM fuel_transactions
			WHERE date(date) = date(?) AND raw_identifier = ? AND total_cost = ?
		)
	`, date, rawIdentifier, totalCost.StringFixed(2)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check tuple: %w", err)
	}

	return exists, nil
}

// InsertTransaction persists a single approved row with no vehicle
// association.
func (s *SQLiteStorage) InsertTransaction(ctx context.Context, row model.FinalRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFinalRow(&row); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fuel_transactions (
			source_id, date, raw_identifier, employee, merchant,
			transaction_type, gallons, cost_per_gallon, total_cost,
			vehicle_id, odometer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?)
	`, row.SourceID, row.Date, row.RawIdentifier, row.Employee, row.Merchant,
		string(row.Type), row.Gallons.String(), row.CostPerGallon.String(),
		row.TotalCost.StringFixed(2), row.Odometer)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", row.SourceID, err)
	}

	return nil
}

// InsertWithOdometer persists a fleet-vehicle row and ratchets the
// vehicle's odometer in the same database transaction. The stored reading
// only ever moves forward; a lower reading leaves it untouched.
func (s *SQLiteStorage) InsertWithOdometer(ctx context.Context, row model.FinalRow) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFinalRow(&row); err != nil {
		return err
	}
	if row.VehicleID == "" {
		return fmt.Errorf("%w: fleet transaction %s has no vehicle", ErrInvalidFinalRow, row.SourceID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The vehicle must exist; a missing vehicle fails the whole row so the
	// insert is never applied without its odometer consideration.
	if _, err := s.getVehicleTx(ctx, tx, row.VehicleID); err != nil {
		return fmt.Errorf("vehicle %s: %w", row.VehicleID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fuel_transactions (
			source_id, date, raw_identifier, employee, merchant,
			transaction_type, gallons, cost_per_gallon, total_cost,
			vehicle_id, odometer
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.SourceID, row.Date, row.RawIdentifier, row.Employee, row.Merchant,
		string(row.Type), row.Gallons.String(), row.CostPerGallon.String(),
		row.TotalCost.StringFixed(2), row.VehicleID, row.Odometer)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", row.SourceID, err)
	}

	// Monotonic ratchet: only raise, never regress.
	_, err = tx.ExecContext(ctx, `
		UPDATE vehicles
		SET odometer = ?, updated_at = ?
		WHERE id = ? AND odometer < ?
	`, row.Odometer, time.Now(), row.VehicleID, row.Odometer)
	if err != nil {
		return fmt.Errorf("failed to update odometer for %s: %w", row.VehicleID, err)
	}

	return tx.Commit()
}

// TransactionCount returns the total number of imported transactions.
func (s *SQLiteStorage) TransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fuel_transactions`).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}
