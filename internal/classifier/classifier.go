// Package classifier assigns a status and transaction type to every
// processed statement row.
package classifier

import (
	"regexp"
	"strings"

	"github.com/fleetops/fuelflow/internal/model"
)

// Flag reasons surfaced to the review UI.
const (
	ReasonAlreadyExists = "Already exists"
	ReasonUnmatched     = "Unmatched vehicle - manual selection required"
	ReasonLowConfidence = "Low-confidence match"
)

// Fleet identifiers follow an alpha-prefix + number shape: TRUCK-7, VAN_12,
// T104. Purchases tagged with anything else (GENERATOR-SVC, WASH BAY) are
// treated as auxiliary fuel.
var vehicleIDPattern = regexp.MustCompile(`^[A-Za-z]{1,12}[-_ ]?\d{1,6}$`)

// Classifier turns a statement row plus its match and duplicate results
// into a ProcessedTransaction. Classification never fails: every row gets
// exactly one status.
type Classifier struct {
	confidenceThreshold float64
}

// New creates a classifier. Matches below threshold are flagged for
// review.
func New(confidenceThreshold float64) *Classifier {
	return &Classifier{confidenceThreshold: confidenceThreshold}
}

// Classify applies the decision rules in order; the first match wins.
//
//  1. Duplicates are filtered first so they never occupy a flagged slot.
//  2. Unmatched rows split on the identifier shape: vehicle-looking
//     identifiers need a manual vehicle pick, anything else defaults to
//     auxiliary fuel with no flag.
//  3. Matches below the confidence threshold are flagged.
//  4. Everything else is a clean fleet-vehicle transaction.
func (c *Classifier) Classify(row model.StatementRow, match model.MatchResult, isDuplicate bool) model.ProcessedTransaction {
	txn := model.ProcessedTransaction{
		SourceID:      row.SourceID,
		Date:          row.Date,
		RawIdentifier: row.RawIdentifier,
		Employee:      row.Employee,
		Merchant:      row.Merchant,
		Gallons:       row.Gallons,
		CostPerGallon: row.CostPerGallon,
		TotalCost:     row.TotalCost,
		Odometer:      row.Odometer,
		Line:          row.Line,
		Match:         match,
	}

	switch {
	case isDuplicate:
		txn.Status = model.StatusDuplicate
		txn.Type = model.TypeFleetVehicle
		txn.FlagReason = ReasonAlreadyExists

	case match.Type == model.MatchNone && LooksLikeVehicleID(row.RawIdentifier):
		txn.Status = model.StatusFlagged
		txn.Type = model.TypeFleetVehicle
		txn.FlagReason = ReasonUnmatched

	case match.Type == model.MatchNone:
		txn.Status = model.StatusNew
		txn.Type = model.TypeAuxiliaryFuel

	case match.Confidence < c.confidenceThreshold:
		txn.Status = model.StatusFlagged
		txn.Type = model.TypeFleetVehicle
		txn.FlagReason = ReasonLowConfidence

	default:
		txn.Status = model.StatusNew
		txn.Type = model.TypeFleetVehicle
	}

	return txn
}

// LooksLikeVehicleID reports whether an identifier has the shape of a
// fleet vehicle id.
func LooksLikeVehicleID(identifier string) bool {
	return vehicleIDPattern.MatchString(strings.TrimSpace(identifier))
}
