package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetops/fuelflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidVehicle  = errors.New("invalid vehicle")
	ErrInvalidFinalRow = errors.New("invalid final row")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateVehicle validates a vehicle record.
func validateVehicle(vehicle *model.Vehicle) error {
	if vehicle == nil {
		return fmt.Errorf("%w: vehicle", ErrNilParameter)
	}
	if strings.TrimSpace(vehicle.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidVehicle)
	}
	if strings.TrimSpace(vehicle.AssetTag) == "" {
		return fmt.Errorf("%w: missing asset tag", ErrInvalidVehicle)
	}
	if vehicle.Odometer < 0 {
		return fmt.Errorf("%w: negative odometer", ErrInvalidVehicle)
	}
	return nil
}

// validateFinalRow validates a row about to be committed.
func validateFinalRow(row *model.FinalRow) error {
	if row == nil {
		return fmt.Errorf("%w: row", ErrNilParameter)
	}
	if row.SourceID == "" {
		return fmt.Errorf("%w: missing source id", ErrInvalidFinalRow)
	}
	if row.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidFinalRow)
	}
	if !model.ValidTransactionType(row.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidFinalRow, row.Type)
	}
	return nil
}
