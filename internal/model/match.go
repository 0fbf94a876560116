package model

// MatchType indicates how a statement row was matched to a fleet vehicle.
type MatchType string

// Match type constants.
const (
	MatchDirectID MatchType = "DIRECT_ID"
	MatchOdometer MatchType = "ODOMETER"
	MatchNone     MatchType = "UNMATCHED"
)

// MatchResult is the outcome of matching one statement row against the
// vehicle directory. Produced once per row and never mutated; user
// corrections live in the session's override map instead.
type MatchResult struct {
	VehicleID  string // empty when Type is MatchNone
	Type       MatchType
	Confidence float64 // 1.0 for direct matches, 0 when unmatched
}

// Matched reports whether the result carries a vehicle.
func (m MatchResult) Matched() bool {
	return m.Type != MatchNone && m.VehicleID != ""
}
