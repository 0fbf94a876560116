package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fleetops/fuelflow/internal/common"
	"github.com/fleetops/fuelflow/internal/model"
)

// ActiveVehicles returns all vehicles currently active in the fleet,
// ordered by asset tag.
func (s *SQLiteStorage) ActiveVehicles(ctx context.Context) ([]model.Vehicle, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_tag, make, model, year, odometer, active
		FROM vehicles
		WHERE active = 1
		ORDER BY asset_tag ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vehicles []model.Vehicle
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.AssetTag, &v.Make, &v.Model, &v.Year, &v.Odometer, &v.Active); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// GetVehicle returns a single vehicle by id.
func (s *SQLiteStorage) GetVehicle(ctx context.Context, id string) (*model.Vehicle, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getVehicleTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getVehicleTx(ctx context.Context, q queryable, id string) (*model.Vehicle, error) {
	var v model.Vehicle
	err := q.QueryRowContext(ctx, `
		SELECT id, asset_tag, make, model, year, odometer, active
		FROM vehicles
		WHERE id = ?
	`, id).Scan(&v.ID, &v.AssetTag, &v.Make, &v.Model, &v.Year, &v.Odometer, &v.Active)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &v, nil
}

// SaveVehicle inserts or updates a vehicle in the directory.
func (s *SQLiteStorage) SaveVehicle(ctx context.Context, vehicle *model.Vehicle) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVehicle(vehicle); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, asset_tag, make, model, year, odometer, active, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			asset_tag = excluded.asset_tag,
			make = excluded.make,
			model = excluded.model,
			year = excluded.year,
			odometer = excluded.odometer,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, vehicle.ID, vehicle.AssetTag, vehicle.Make, vehicle.Model,
		vehicle.Year, vehicle.Odometer, vehicle.Active, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save vehicle %s: %w", vehicle.ID, err)
	}

	return nil
}

// DeactivateVehicle removes a vehicle from the active fleet without
// deleting its transaction history.
func (s *SQLiteStorage) DeactivateVehicle(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE vehicles SET active = 0, updated_at = ? WHERE id = ?
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate vehicle %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deactivation result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
