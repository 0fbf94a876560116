package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the reconciliation status assigned to a row.
type TransactionStatus string

// Transaction status constants.
const (
	StatusNew       TransactionStatus = "NEW"
	StatusDuplicate TransactionStatus = "DUPLICATE"
	StatusFlagged   TransactionStatus = "FLAGGED"
)

// TransactionType classifies what the fuel purchase was for.
type TransactionType string

// Transaction type constants.
const (
	TypeFleetVehicle    TransactionType = "FLEET_VEHICLE"
	TypeAuxiliaryFuel   TransactionType = "AUXILIARY_FUEL"
	TypeRentalEquipment TransactionType = "RENTAL_EQUIPMENT"
)

// ValidTransactionType reports whether t is one of the known types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TypeFleetVehicle, TypeAuxiliaryFuel, TypeRentalEquipment:
		return true
	}
	return false
}

// ProcessedTransaction is a statement row after matching, duplicate
// detection, and classification. It is the unit the review UI renders.
// Status and type overrides are stored separately in the session so the
// original classification is always recoverable.
type ProcessedTransaction struct {
	Date          time.Time
	SourceID      string
	RawIdentifier string
	Employee      string
	Merchant      string
	FlagReason    string // non-empty iff Status is StatusFlagged or StatusDuplicate
	Status        TransactionStatus
	Type          TransactionType
	Match         MatchResult
	Gallons       decimal.Decimal
	CostPerGallon decimal.Decimal
	TotalCost     decimal.Decimal
	Odometer      int64
	Line          int
}

// FinalRow is a processed transaction after override merging, ready for
// commit. VehicleID is empty for non-fleet rows regardless of any stale
// match result.
type FinalRow struct {
	Date          time.Time
	SourceID      string
	VehicleID     string
	RawIdentifier string
	Employee      string
	Merchant      string
	Type          TransactionType
	Gallons       decimal.Decimal
	CostPerGallon decimal.Decimal
	TotalCost     decimal.Decimal
	Odometer      int64
}

// Summary is the aggregate the review UI shows. It is always recomputed
// from the current transaction set, never stored.
type Summary struct {
	Total     int
	New       int
	Duplicate int
	Flagged   int
}
