package statement

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Matches the card provider's export naming convention,
// Transactions_MMDDYYYY_HHMM.csv.
var filenamePattern = regexp.MustCompile(`^Transactions_(\d{2})(\d{2})(\d{4})_(\d{2})(\d{2})$`)

// PeriodEndFromFilename extracts the statement period end from the export
// filename. This is a best-effort hint only: any filename that does not
// follow the convention yields a zero time, never an error.
func PeriodEndFromFilename(name string) time.Time {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	m := filenamePattern.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}
	}

	t, err := time.Parse("01 02 2006 15 04",
		strings.Join([]string{m[1], m[2], m[3], m[4], m[5]}, " "))
	if err != nil {
		return time.Time{}
	}
	return t
}
