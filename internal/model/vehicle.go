package model

import "fmt"

// Vehicle is a read-only snapshot of one fleet vehicle from the directory.
// The directory is fetched once at session start and never mutated by the
// pipeline; only the committer writes odometers back.
type Vehicle struct {
	ID       string
	AssetTag string
	Make     string
	Model    string
	Year     int
	Odometer int64 // last known reading
	Active   bool
}

// DisplayName returns a short human-readable label for review tables.
func (v *Vehicle) DisplayName() string {
	if v.AssetTag != "" {
		return fmt.Sprintf("%s (%d %s %s)", v.AssetTag, v.Year, v.Make, v.Model)
	}
	return v.ID
}
