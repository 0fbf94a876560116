// Package dedupe detects statement rows that duplicate prior imports.
package dedupe

import (
	"context"
	"fmt"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/service"
)

// Detector decides whether a statement row has already been imported.
// It is a pure lookup over the prior-import store: false positives are
// acceptable (a near-duplicate gets flagged for review), false negatives
// are not (silently double-imported fuel spend).
type Detector struct {
	prior service.PriorImports
}

// New creates a detector over the given prior-import store.
func New(prior service.PriorImports) *Detector {
	return &Detector{prior: prior}
}

// IsDuplicate reports whether the row duplicates an existing transaction,
// either by source id or by the (date, identifier, total cost) tuple. The
// tuple check defends against re-exported statements that regenerate ids.
func (d *Detector) IsDuplicate(ctx context.Context, row model.StatementRow) (bool, error) {
	exists, err := d.prior.SourceIDExists(ctx, row.SourceID)
	if err != nil {
		return false, fmt.Errorf("failed to check source id %s: %w", row.SourceID, err)
	}
	if exists {
		return true, nil
	}

	exists, err = d.prior.TupleExists(ctx, row.Date, row.RawIdentifier, row.TotalCost)
	if err != nil {
		return false, fmt.Errorf("failed to check tuple for %s: %w", row.SourceID, err)
	}
	return exists, nil
}
