package domain

import (
	"errors"
	"testing"
)

func TestOutput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		out     Output
		wantErr error
	}{
		{"empty", nil, nil},
		{"single unknown duration", Output{{Text: "hi", StartMs: 0, DurationMs: UnknownDuration}}, nil},
		{"equal starts", Output{{Text: "a", StartMs: 10, DurationMs: 0}, {Text: "b", StartMs: 10, DurationMs: 5}}, nil},
		{"ascending", Output{{Text: "a", StartMs: 0, DurationMs: 100}, {Text: "b", StartMs: 100, DurationMs: 50}}, nil},
		{"decreasing start", Output{{Text: "a", StartMs: 100}, {Text: "b", StartMs: 50}}, ErrTimestampOrder},
		{"negative duration", Output{{Text: "a", StartMs: 0, DurationMs: -2}}, ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.out.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutput_End(t *testing.T) {
	out := Output{
		{Text: "a", StartMs: 0, DurationMs: 200},
		{Text: "b", StartMs: 200, DurationMs: 300},
		{Text: "c", StartMs: 600, DurationMs: UnknownDuration},
	}
	if got := out.End(); got != 600 {
		t.Errorf("End() = %d, want 600", got)
	}
	if got := (Output{}).End(); got != 0 {
		t.Errorf("End() of empty output = %d, want 0", got)
	}
}

func TestToken_HasDuration(t *testing.T) {
	if (Token{DurationMs: UnknownDuration}).HasDuration() {
		t.Error("UnknownDuration must not count as a duration")
	}
	if !(Token{DurationMs: 0}).HasDuration() {
		t.Error("a zero duration is a computed duration")
	}
}
