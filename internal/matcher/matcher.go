package matcher

import (
	"strings"

	"github.com/fleetops/fuelflow/internal/model"
)

// Confidence bounds for odometer-heuristic matches. An odometer match must
// never look as certain as a direct asset-tag match, no matter how close
// the readings are.
const (
	minOdometerConfidence = 0.05
	maxOdometerConfidence = 0.99
)

// Matcher matches a statement row against a vehicle directory snapshot.
// It is a pure function over already-fetched data: no storage or network
// access happens here.
type Matcher struct {
	config Config
}

// New creates a matcher with the given configuration.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Config returns the matcher's configuration.
func (m *Matcher) Config() Config {
	return m.config
}

// Match resolves a statement row to a vehicle, or marks it unmatched.
//
// An exact asset-tag match wins outright with confidence 1.0. Otherwise
// the directory is searched for active vehicles whose last known odometer
// falls within the configured tolerance of the row's reading: exactly one
// candidate is an odometer match with confidence scaled by distance; zero
// or multiple candidates, including exact ties, resolve to unmatched.
// Ambiguity is never silently guessed.
func (m *Matcher) Match(row model.StatementRow, directory []model.Vehicle) model.MatchResult {
	identifier := strings.TrimSpace(row.RawIdentifier)

	if identifier != "" {
		for i := range directory {
			v := &directory[i]
			if !v.Active {
				continue
			}
			if strings.EqualFold(v.AssetTag, identifier) {
				return model.MatchResult{
					VehicleID:  v.ID,
					Type:       model.MatchDirectID,
					Confidence: 1.0,
				}
			}
		}
	}

	if row.Odometer <= 0 {
		return model.MatchResult{Type: model.MatchNone}
	}

	var (
		candidate     *model.Vehicle
		candidateDist int64
		inWindow      int
	)

	for i := range directory {
		v := &directory[i]
		if !v.Active || v.Odometer <= 0 {
			continue
		}

		dist := row.Odometer - v.Odometer
		if dist < 0 {
			dist = -dist
		}
		if dist > m.config.OdometerTolerance {
			continue
		}

		inWindow++
		if candidate == nil || dist < candidateDist {
			candidate = v
			candidateDist = dist
		}
	}

	// More than one vehicle in the window is ambiguous even when one is
	// closer: the heuristic only trusts a window with a single occupant.
	if candidate == nil || inWindow > 1 {
		return model.MatchResult{Type: model.MatchNone}
	}

	return model.MatchResult{
		VehicleID:  candidate.ID,
		Type:       model.MatchOdometer,
		Confidence: m.odometerConfidence(candidateDist),
	}
}

// odometerConfidence scales confidence inversely with distance from the
// row's reading, clamped so it can neither vanish nor impersonate a
// direct match.
func (m *Matcher) odometerConfidence(dist int64) float64 {
	confidence := 1.0 - float64(dist)/float64(m.config.OdometerTolerance)
	if confidence < minOdometerConfidence {
		confidence = minOdometerConfidence
	}
	if confidence > maxOdometerConfidence {
		confidence = maxOdometerConfidence
	}
	return confidence
}
