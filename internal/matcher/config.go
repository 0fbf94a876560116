// Package matcher matches statement rows to fleet vehicles.
package matcher

import "fmt"

// Config holds the tunable knobs of the matching heuristic. Both values
// are operator configuration, not constants: the right window depends on
// how often drivers fuel up.
type Config struct {
	// OdometerTolerance is the maximum distance, in miles, between a
	// row's odometer reading and a vehicle's last known reading for the
	// vehicle to be considered a candidate.
	OdometerTolerance int64
	// ConfidenceThreshold is the minimum confidence a match needs to be
	// accepted without review.
	ConfidenceThreshold float64
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		OdometerTolerance:   500,
		ConfidenceThreshold: 0.8,
	}
}

// Validate checks the configuration for sane values.
func (c Config) Validate() error {
	if c.OdometerTolerance <= 0 {
		return fmt.Errorf("odometer tolerance must be positive, got %d", c.OdometerTolerance)
	}
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence threshold must be in (0, 1], got %v", c.ConfidenceThreshold)
	}
	return nil
}
