// Package session holds one upload's reconciliation state between
// processing and commit.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/fleetops/fuelflow/internal/model"
)

// Override is a user correction for one transaction: a replacement vehicle,
// a replacement type, or both. Overrides never mutate the original
// classification; they are merged over it at resolve time.
type Override struct {
	VehicleID *string
	Type      *model.TransactionType
}

// ValidationError reports rows that cannot be committed as currently
// resolved. It is returned by Resolve before any commit is attempted.
type ValidationError struct {
	MissingVehicle []string // source ids of fleet rows without a vehicle
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d fleet vehicle transaction(s) have no vehicle assigned: %s",
		len(e.MissingVehicle), strings.Join(e.MissingVehicle, ", "))
}

// Session holds the processed transactions of a single uploaded statement
// plus the user's overrides. Nothing is persisted until the resolved rows
// are handed to the committer; abandoning a session has no side effects.
type Session struct {
	mu           sync.RWMutex
	transactions []model.ProcessedTransaction
	byID         map[string]int
	overrides    map[string]Override
	parseErrors  []model.RowError
}

// New creates a session over an already-classified transaction set.
// Transactions keep their statement order.
func New(transactions []model.ProcessedTransaction, parseErrors []model.RowError) *Session {
	byID := make(map[string]int, len(transactions))
	for i, txn := range transactions {
		byID[txn.SourceID] = i
	}
	return &Session{
		transactions: transactions,
		byID:         byID,
		overrides:    make(map[string]Override),
		parseErrors:  parseErrors,
	}
}

// Transactions returns the processed transactions in statement order.
// Callers must not mutate the returned slice.
func (s *Session) Transactions() []model.ProcessedTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ProcessedTransaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// ParseErrors returns the per-row parse failures collected for this upload.
func (s *Session) ParseErrors() []model.RowError {
	return s.parseErrors
}

// Summary recomputes the status counts. It is always derived from the
// current transaction set, never cached.
func (s *Session) Summary() model.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := model.Summary{Total: len(s.transactions)}
	for _, txn := range s.transactions {
		switch txn.Status {
		case model.StatusNew:
			summary.New++
		case model.StatusDuplicate:
			summary.Duplicate++
		case model.StatusFlagged:
			summary.Flagged++
		}
	}
	return summary
}

// ApplyVehicleOverride assigns a replacement vehicle to a transaction.
// Calling it again for the same id replaces the previous vehicle choice;
// an existing type override for the id is preserved.
func (s *Session) ApplyVehicleOverride(sourceID, vehicleID string) error {
	if vehicleID == "" {
		return fmt.Errorf("vehicle id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sourceID]; !ok {
		return fmt.Errorf("unknown transaction %s", sourceID)
	}

	o := s.overrides[sourceID]
	o.VehicleID = &vehicleID
	s.overrides[sourceID] = o
	return nil
}

// ApplyTypeOverride assigns a replacement transaction type. Calling it
// again for the same id replaces the previous type choice.
func (s *Session) ApplyTypeOverride(sourceID string, txnType model.TransactionType) error {
	if !model.ValidTransactionType(txnType) {
		return fmt.Errorf("invalid transaction type %q", txnType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[sourceID]; !ok {
		return fmt.Errorf("unknown transaction %s", sourceID)
	}

	o := s.overrides[sourceID]
	o.Type = &txnType
	s.overrides[sourceID] = o
	return nil
}

// ClearOverride removes any override for the given transaction.
func (s *Session) ClearOverride(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, sourceID)
}

// Override returns the current override for a transaction, if any.
func (s *Session) Override(sourceID string) (Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[sourceID]
	return o, ok
}

// Resolve merges override-over-original for every committable row and
// returns the final row set in statement order.
//
// Duplicate rows are excluded unconditionally: no override can revive a
// duplicate. Rows that resolve to a fleet vehicle type without a vehicle
// id fail validation here, before any commit is attempted. Rows that
// resolve to a non-fleet type always drop their vehicle association, even
// when a stale match carried one.
func (s *Session) Resolve() ([]model.FinalRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []model.FinalRow
	var missing []string

	for _, txn := range s.transactions {
		if txn.Status == model.StatusDuplicate {
			continue
		}

		override := s.overrides[txn.SourceID]

		txnType := txn.Type
		if override.Type != nil {
			txnType = *override.Type
		}

		vehicleID := ""
		if txnType == model.TypeFleetVehicle {
			vehicleID = txn.Match.VehicleID
			if override.VehicleID != nil {
				vehicleID = *override.VehicleID
			}
			if vehicleID == "" {
				missing = append(missing, txn.SourceID)
				continue
			}
		}

		rows = append(rows, model.FinalRow{
			SourceID:      txn.SourceID,
			Date:          txn.Date,
			VehicleID:     vehicleID,
			RawIdentifier: txn.RawIdentifier,
			Employee:      txn.Employee,
			Merchant:      txn.Merchant,
			Type:          txnType,
			Gallons:       txn.Gallons,
			CostPerGallon: txn.CostPerGallon,
			TotalCost:     txn.TotalCost,
			Odometer:      txn.Odometer,
		})
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ValidationError{MissingVehicle: missing}
	}

	return rows, nil
}
