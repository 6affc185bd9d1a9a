package config

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("CALLSCOPE_DATA", "/var/lib/callscope")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", "/home/tester"},
		{"~/data/calls.db", filepath.Join("/home/tester", "data/calls.db")},
		{"$CALLSCOPE_DATA/calls.db", "/var/lib/callscope/calls.db"},
		{"$HOME/.config", "/home/tester/.config"},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.input); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
