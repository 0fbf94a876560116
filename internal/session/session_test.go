package session

import (
	"testing"
	"time"

	"github.com/fleetops/fuelflow/internal/classifier"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTransactions() []model.ProcessedTransaction {
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return []model.ProcessedTransaction{
		{
			SourceID:      "TX1",
			Date:          date,
			RawIdentifier: "TRUCK-7",
			Status:        model.StatusNew,
			Type:          model.TypeFleetVehicle,
			Match:         model.MatchResult{VehicleID: "VEH-7", Type: model.MatchDirectID, Confidence: 1.0},
			TotalCost:     decimal.RequireFromString("89.00"),
			Odometer:      50000,
		},
		{
			SourceID:      "TX2",
			Date:          date,
			RawIdentifier: "TRUCK-9",
			Status:        model.StatusFlagged,
			FlagReason:    classifier.ReasonUnmatched,
			Type:          model.TypeFleetVehicle,
			Match:         model.MatchResult{Type: model.MatchNone},
			TotalCost:     decimal.RequireFromString("45.50"),
			Odometer:      52000,
		},
		{
			SourceID:      "TX3",
			Date:          date,
			RawIdentifier: "TRUCK-7",
			Status:        model.StatusDuplicate,
			FlagReason:    classifier.ReasonAlreadyExists,
			Type:          model.TypeFleetVehicle,
			Match:         model.MatchResult{VehicleID: "VEH-7", Type: model.MatchDirectID, Confidence: 1.0},
			TotalCost:     decimal.RequireFromString("89.00"),
			Odometer:      50000,
		},
		{
			SourceID:      "TX4",
			Date:          date,
			RawIdentifier: "GENERATOR-SVC",
			Status:        model.StatusNew,
			Type:          model.TypeAuxiliaryFuel,
			Match:         model.MatchResult{Type: model.MatchNone},
			TotalCost:     decimal.RequireFromString("30.00"),
		},
	}
}

func TestSummary(t *testing.T) {
	s := New(testTransactions(), nil)

	summary := s.Summary()
	assert.Equal(t, model.Summary{Total: 4, New: 2, Duplicate: 1, Flagged: 1}, summary)
}

func TestApplyVehicleOverride_UnknownID(t *testing.T) {
	s := New(testTransactions(), nil)

	err := s.ApplyVehicleOverride("NOPE", "VEH-1")
	assert.Error(t, err)
}

func TestApplyVehicleOverride_ReplacesPrior(t *testing.T) {
	s := New(testTransactions(), nil)

	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-1"))
	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))

	rows, err := s.Resolve()
	require.NoError(t, err)

	row := findRow(t, rows, "TX2")
	assert.Equal(t, "VEH-9", row.VehicleID, "latest override wins")
}

func TestResolve_OverridePrecedence(t *testing.T) {
	s := New(testTransactions(), nil)

	// TX1 already has a direct match, override replaces it anyway.
	require.NoError(t, s.ApplyVehicleOverride("TX1", "VEH-42"))
	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))

	rows, err := s.Resolve()
	require.NoError(t, err)

	assert.Equal(t, "VEH-42", findRow(t, rows, "TX1").VehicleID)

	// The original classification is untouched.
	for _, txn := range s.Transactions() {
		if txn.SourceID == "TX1" {
			assert.Equal(t, "VEH-7", txn.Match.VehicleID)
		}
	}
}

func TestResolve_DuplicatesNeverCommitted(t *testing.T) {
	s := New(testTransactions(), nil)

	// No override can revive a duplicate.
	require.NoError(t, s.ApplyVehicleOverride("TX3", "VEH-7"))
	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))

	rows, err := s.Resolve()
	require.NoError(t, err)

	for _, row := range rows {
		assert.NotEqual(t, "TX3", row.SourceID)
	}
	assert.Len(t, rows, 3)
}

func TestResolve_MissingVehicleFailsFast(t *testing.T) {
	s := New(testTransactions(), nil)

	// TX2 is a flagged fleet row with no vehicle and no override.
	_, err := s.Resolve()
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"TX2"}, validationErr.MissingVehicle)
}

func TestResolve_TypeOverrideDropsVehicle(t *testing.T) {
	s := New(testTransactions(), nil)

	// Reclassify the matched fleet row as rental equipment; its stale
	// match must not leak into the final row.
	require.NoError(t, s.ApplyTypeOverride("TX1", model.TypeRentalEquipment))
	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))

	rows, err := s.Resolve()
	require.NoError(t, err)

	row := findRow(t, rows, "TX1")
	assert.Equal(t, model.TypeRentalEquipment, row.Type)
	assert.Empty(t, row.VehicleID)
}

func TestResolve_TypeOverrideToFleetNeedsVehicle(t *testing.T) {
	s := New(testTransactions(), nil)

	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))
	require.NoError(t, s.ApplyTypeOverride("TX4", model.TypeFleetVehicle))

	_, err := s.Resolve()
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"TX4"}, validationErr.MissingVehicle)

	// Supplying the vehicle clears the validation failure.
	require.NoError(t, s.ApplyVehicleOverride("TX4", "VEH-1"))
	rows, err := s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "VEH-1", findRow(t, rows, "TX4").VehicleID)
}

func TestApplyTypeOverride_InvalidType(t *testing.T) {
	s := New(testTransactions(), nil)

	assert.Error(t, s.ApplyTypeOverride("TX1", model.TransactionType("JETSKI")))
}

func TestClearOverride(t *testing.T) {
	s := New(testTransactions(), nil)

	require.NoError(t, s.ApplyVehicleOverride("TX1", "VEH-42"))
	s.ClearOverride("TX1")

	_, ok := s.Override("TX1")
	assert.False(t, ok)
}

func TestResolve_AuxiliaryRowHasNoVehicle(t *testing.T) {
	s := New(testTransactions(), nil)
	require.NoError(t, s.ApplyVehicleOverride("TX2", "VEH-9"))

	rows, err := s.Resolve()
	require.NoError(t, err)

	row := findRow(t, rows, "TX4")
	assert.Equal(t, model.TypeAuxiliaryFuel, row.Type)
	assert.Empty(t, row.VehicleID)
	assert.Equal(t, "GENERATOR-SVC", row.RawIdentifier)
}

func findRow(t *testing.T, rows []model.FinalRow, sourceID string) model.FinalRow {
	t.Helper()
	for _, row := range rows {
		if row.SourceID == sourceID {
			return row
		}
	}
	t.Fatalf("row %s not found", sourceID)
	return model.FinalRow{}
}
