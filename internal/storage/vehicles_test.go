package storage_test

import (
	"context"
	"testing"

	"github.com/fleetops/fuelflow/internal/common"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndGetVehicle(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	vehicle := &model.Vehicle{
		ID:       "VEH-0007",
		AssetTag: "TRUCK-7",
		Make:     "Ford",
		Model:    "F-250",
		Year:     2021,
		Odometer: 49800,
		Active:   true,
	}
	require.NoError(t, store.SaveVehicle(ctx, vehicle))

	got, err := store.GetVehicle(ctx, "VEH-0007")
	require.NoError(t, err)
	assert.Equal(t, "TRUCK-7", got.AssetTag)
	assert.Equal(t, int64(49800), got.Odometer)
	assert.True(t, got.Active)
}

func TestSaveVehicle_Upsert(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedVehicles(t, store, model.Vehicle{
		ID: "VEH-1", AssetTag: "TRUCK-1", Odometer: 10000, Active: true,
	})

	require.NoError(t, store.SaveVehicle(ctx, &model.Vehicle{
		ID: "VEH-1", AssetTag: "TRUCK-1", Odometer: 12000, Active: true,
	}))

	got, err := store.GetVehicle(ctx, "VEH-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), got.Odometer)
}

func TestGetVehicle_NotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)

	_, err := store.GetVehicle(context.Background(), "VEH-MISSING")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestActiveVehicles_ExcludesDeactivated(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	testutil.SeedVehicles(t, store,
		model.Vehicle{ID: "VEH-1", AssetTag: "TRUCK-1", Active: true},
		model.Vehicle{ID: "VEH-2", AssetTag: "TRUCK-2", Active: true},
		model.Vehicle{ID: "VEH-3", AssetTag: "TRUCK-3", Active: false},
	)

	require.NoError(t, store.DeactivateVehicle(ctx, "VEH-2"))

	active, err := store.ActiveVehicles(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "VEH-1", active[0].ID)
}

func TestActiveVehicles_OrderedByAssetTag(t *testing.T) {
	store := testutil.SetupTestDB(t)

	testutil.SeedVehicles(t, store,
		model.Vehicle{ID: "VEH-2", AssetTag: "VAN-12", Active: true},
		model.Vehicle{ID: "VEH-1", AssetTag: "TRUCK-7", Active: true},
	)

	active, err := store.ActiveVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "TRUCK-7", active[0].AssetTag)
	assert.Equal(t, "VAN-12", active[1].AssetTag)
}

func TestDeactivateVehicle_NotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)

	err := store.DeactivateVehicle(context.Background(), "VEH-MISSING")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
