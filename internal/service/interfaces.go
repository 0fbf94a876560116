// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/shopspring/decimal"
)

// VehicleDirectory provides read access to the fleet vehicle directory.
// The pipeline fetches one snapshot per session and never queries again
// until commit.
type VehicleDirectory interface {
	// ActiveVehicles returns all vehicles currently active in the fleet.
	ActiveVehicles(ctx context.Context) ([]model.Vehicle, error)
	// GetVehicle returns a single vehicle by id.
	GetVehicle(ctx context.Context, id string) (*model.Vehicle, error)
}

// PriorImports answers duplicate-detection lookups against transactions
// committed by earlier sessions. Implementations must be read-only.
type PriorImports interface {
	// SourceIDExists reports whether a source transaction id has already
	// been imported.
	SourceIDExists(ctx context.Context, sourceID string) (bool, error)
	// TupleExists reports whether a (date, raw identifier, total cost)
	// combination has already been imported.
	TupleExists(ctx context.Context, date time.Time, rawIdentifier string, totalCost decimal.Decimal) (bool, error)
}

// CommitSink persists approved rows. InsertWithOdometer must apply the
// transaction insert and the odometer ratchet as one unit: both succeed or
// the row fails.
type CommitSink interface {
	// InsertTransaction persists a single approved row with no vehicle
	// association.
	InsertTransaction(ctx context.Context, row model.FinalRow) error
	// InsertWithOdometer persists a fleet-vehicle row and raises the
	// vehicle's stored odometer to the row's reading when the reading is
	// greater. The two writes are atomic.
	InsertWithOdometer(ctx context.Context, row model.FinalRow) error
	// Ping verifies the sink is reachable before a commit is attempted.
	Ping(ctx context.Context) error
}

// Storage is the full persistence contract the CLI wires up. The pipeline
// itself only sees the narrower interfaces above.
type Storage interface {
	VehicleDirectory
	PriorImports
	CommitSink

	// Vehicle maintenance used by the vehicles command.
	SaveVehicle(ctx context.Context, vehicle *model.Vehicle) error
	DeactivateVehicle(ctx context.Context, id string) error

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}

// RowError describes a single row that failed to persist.
type RowError struct {
	SourceID string
	Err      error
}

// CommitResult accounts for every input row exactly once: each source id
// appears either in Succeeded or in Failed, never both, never neither.
type CommitResult struct {
	Succeeded []string
	Failed    []RowError
	Duration  time.Duration
}

// AllSucceeded reports whether no row failed.
func (r *CommitResult) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// FailedIDs returns the source ids of failed rows.
func (r *CommitResult) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.SourceID
	}
	return ids
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
