package tts

import (
	"errors"
	"fmt"
	"testing"
)

// TestNarrationError tests error formatting and unwrapping.
func TestNarrationError(t *testing.T) {
	base := errors.New("device busy")

	tests := []struct {
		name string
		err  *NarrationError
		want string
	}{
		{"with utterance", &NarrationError{Op: "pause", Utterance: 3, Err: base}, "pause utterance 3: device busy"},
		{"without utterance", &NarrationError{Op: "cancel", Err: base}, "cancel: device busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, base) {
				t.Error("NarrationError should unwrap to its cause")
			}
		})
	}
}

// TestIsInterruption tests interruption detection through wrapping.
func TestIsInterruption(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"interrupted", ErrInterrupted, true},
		{"wrapped", fmt.Errorf("speak: %w", ErrInterrupted), true},
		{"narration error", &NarrationError{Op: "speak", Err: ErrInterrupted}, true},
		{"other", ErrEngineUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInterruption(tt.err); got != tt.want {
				t.Errorf("IsInterruption(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestErrorUniqueness tests that sentinel errors are distinct.
func TestErrorUniqueness(t *testing.T) {
	all := []error{
		ErrEngineUnavailable, ErrUnknownEngine, ErrInterrupted,
		ErrPauseUnsupported, ErrNoPage, ErrInvalidConfig,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
