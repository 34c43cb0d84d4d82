package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"simple error", errors.New("task not found"), "Error: task not found"},
		{"wrapped error", fmt.Errorf("schedule: %w", errors.New("no occurrences")), "Error: schedule: no occurrences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.err); got != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("unknown member %q", "ana")
	if want := `Error: unknown member "ana"`; got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}
