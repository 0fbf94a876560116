// Package engine orchestrates the fuel-statement reconciliation pipeline:
// parse, match, duplicate-check, classify, commit.
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/fleetops/fuelflow/internal/classifier"
	"github.com/fleetops/fuelflow/internal/dedupe"
	"github.com/fleetops/fuelflow/internal/matcher"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/service"
	"github.com/fleetops/fuelflow/internal/session"
	"github.com/fleetops/fuelflow/internal/statement"
)

// Format identifies the statement file format.
type Format string

// Supported statement formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Config holds configuration options for the reconciliation engine.
type Config struct {
	Matching matcher.Config
	Workers  int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Matching: matcher.DefaultConfig(),
		Workers:  4,
	}
}

// Engine runs one statement upload through the reconciliation pipeline and
// produces a review session. It performs no writes; only the Committer
// touches the store.
type Engine struct {
	directory  service.VehicleDirectory
	parser     *statement.Parser
	matcher    *matcher.Matcher
	detector   *dedupe.Detector
	classifier *classifier.Classifier
	workers    int
}

// New creates a reconciliation engine with the given dependencies.
func New(directory service.VehicleDirectory, prior service.PriorImports, config Config) (*Engine, error) {
	if err := config.Matching.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}
	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Engine{
		directory:  directory,
		parser:     statement.NewParser(),
		matcher:    matcher.New(config.Matching),
		detector:   dedupe.New(prior),
		classifier: classifier.New(config.Matching.ConfidenceThreshold),
		workers:    workers,
	}, nil
}

// Process parses a statement and classifies every row against the current
// vehicle directory and prior imports. Row-level parse failures are
// collected on the returned session; only an unusable file or an
// unreachable store fails the whole upload.
func (e *Engine) Process(ctx context.Context, reader io.Reader, format Format) (*session.Session, error) {
	directory, err := e.directory.ActiveVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle directory: %w", err)
	}

	var rows []model.StatementRow
	var rowErrs []model.RowError
	switch format {
	case FormatXLSX:
		rows, rowErrs, err = e.parser.ParseXLSX(ctx, reader)
	default:
		rows, rowErrs, err = e.parser.ParseFile(ctx, reader)
	}
	if err != nil {
		return nil, err
	}

	transactions, err := e.classifyRows(ctx, rows, directory)
	if err != nil {
		return nil, err
	}

	sess := session.New(transactions, rowErrs)
	summary := sess.Summary()
	slog.Info("Statement processed",
		"total", summary.Total,
		"new", summary.New,
		"duplicate", summary.Duplicate,
		"flagged", summary.Flagged,
		"rejected_lines", len(rowErrs))

	return sess, nil
}

// classifyRows matches and classifies rows with a bounded worker pool.
// Rows are independent of each other, so per-row evaluation is safe to
// parallelize; results keep statement order.
func (e *Engine) classifyRows(ctx context.Context, rows []model.StatementRow, directory []model.Vehicle) ([]model.ProcessedTransaction, error) {
	transactions := make([]model.ProcessedTransaction, len(rows))
	indexes := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				row := rows[i]

				match := e.matcher.Match(row, directory)
				isDuplicate, err := e.detector.IsDuplicate(ctx, row)
				if err != nil {
					// Record the first failure but keep draining so the
					// feeder never blocks.
					errOnce.Do(func() { firstErr = err })
					continue
				}

				transactions[i] = e.classifier.Classify(row, match, isDuplicate)
			}
		}()
	}

	for i := range rows {
		select {
		case indexes <- i:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, fmt.Errorf("duplicate detection failed: %w", firstErr)
	}

	return transactions, nil
}
