package statement

import (
	"testing"
	"time"
)

func TestPeriodEndFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     time.Time
	}{
		{
			name:     "standard export name",
			filename: "Transactions_01152025_0830.csv",
			want:     time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name:     "full path",
			filename: "/home/ops/Downloads/Transactions_12312024_2359.csv",
			want:     time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
		},
		{
			name:     "xlsx export",
			filename: "Transactions_06012025_1200.xlsx",
			want:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "unrelated name yields zero time",
			filename: "statement-january.csv",
		},
		{
			name:     "impossible month yields zero time",
			filename: "Transactions_13152025_0830.csv",
		},
		{
			name:     "empty name",
			filename: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodEndFromFilename(tt.filename)
			if !got.Equal(tt.want) {
				t.Errorf("PeriodEndFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}
