package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fleetops/fuelflow/internal/common"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/service"
)

// Committer persists an approved row set. A commit runs to completion once
// started: individual row failures are recorded and reported, never
// silently dropped, and never abort the remaining rows.
type Committer struct {
	sink     service.CommitSink
	retry    service.RetryOptions
	progress func(completed, total int)
}

// NewCommitter creates a committer over the given sink.
func NewCommitter(sink service.CommitSink) *Committer {
	return &Committer{
		sink: sink,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}
}

// SetProgressFunc registers a callback invoked after each row is
// attempted. Used by the CLI to drive a progress bar.
func (c *Committer) SetProgressFunc(fn func(completed, total int)) {
	c.progress = fn
}

// Commit persists the final rows and reports per-row results. Every input
// row appears in the result exactly once, as succeeded or failed.
//
// Rows for the same vehicle are applied sequentially in transaction-date
// order so a vehicle never sees racing odometer writes; the sink's ratchet
// leaves each vehicle at the maximum committed reading. A row's insert and
// its odometer update are one unit: the sink applies both or the row is
// reported failed.
func (c *Committer) Commit(ctx context.Context, rows []model.FinalRow) (*service.CommitResult, error) {
	start := time.Now()
	result := &service.CommitResult{}

	if len(rows) == 0 {
		return result, nil
	}

	// A locked or briefly unreachable store is worth a few attempts before
	// the whole commit is refused.
	err := common.WithRetry(ctx, func() error {
		return c.sink.Ping(ctx)
	}, c.retry)
	if err != nil {
		return nil, common.NewUserError("commit sink unreachable",
			fmt.Errorf("%w: %v", common.ErrSinkUnavailable, err))
	}

	ordered := orderForCommit(rows)
	total := len(ordered)

	slog.Info("Committing statement", "rows", total)

	for i, row := range ordered {
		var err error
		if row.Type == model.TypeFleetVehicle {
			err = c.sink.InsertWithOdometer(ctx, row)
		} else {
			err = c.sink.InsertTransaction(ctx, row)
		}

		if err != nil {
			slog.Error("Failed to commit row",
				"source_id", row.SourceID,
				"vehicle_id", row.VehicleID,
				"error", err)
			result.Failed = append(result.Failed, service.RowError{
				SourceID: row.SourceID,
				Err:      err,
			})
		} else {
			result.Succeeded = append(result.Succeeded, row.SourceID)
		}

		if c.progress != nil {
			c.progress(i+1, total)
		}
	}

	result.Duration = time.Since(start)

	slog.Info("Commit complete",
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed),
		"duration", result.Duration)

	return result, nil
}

// orderForCommit reorders each vehicle's fleet rows into transaction-date
// order so odometer updates land oldest-first. Rows keep their statement
// positions otherwise.
func orderForCommit(rows []model.FinalRow) []model.FinalRow {
	ordered := make([]model.FinalRow, len(rows))
	copy(ordered, rows)

	byVehicle := make(map[string][]int)
	for i, row := range ordered {
		if row.Type == model.TypeFleetVehicle {
			byVehicle[row.VehicleID] = append(byVehicle[row.VehicleID], i)
		}
	}

	for _, positions := range byVehicle {
		if len(positions) < 2 {
			continue
		}
		group := make([]model.FinalRow, len(positions))
		for i, pos := range positions {
			group[i] = ordered[pos]
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
		for i, pos := range positions {
			ordered[pos] = group[i]
		}
	}

	return ordered
}
