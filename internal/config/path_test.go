package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	t.Setenv("FUELFLOW_TEST_DIR", "/var/data")

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", ""},
		{"tilde prefix", "~/fuelflow.db", filepath.Join(home, "fuelflow.db")},
		{"bare tilde", "~", home},
		{"env var", "$FUELFLOW_TEST_DIR/fuelflow.db", "/var/data/fuelflow.db"},
		{"absolute untouched", "/opt/fuelflow.db", "/opt/fuelflow.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.path); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
