package tts

import (
	"errors"
	"fmt"
)

// Common errors for the narration system.
var (
	// Engine errors
	ErrEngineUnavailable = errors.New("speech engine is not available")
	ErrUnknownEngine     = errors.New("unknown speech engine")
	ErrInterrupted       = errors.New("utterance interrupted")
	ErrPauseUnsupported  = errors.New("pause is not supported on this platform")

	// Document errors
	ErrNoPage = errors.New("page does not exist")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

// NarrationError records a failed engine call and the utterance it concerned.
type NarrationError struct {
	Op        string      // Engine operation: speak, pause, resume, cancel
	Utterance UtteranceID // Utterance in flight, 0 if none
	Err       error       // The underlying error
}

// Error implements the error interface.
func (e *NarrationError) Error() string {
	if e.Utterance == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s utterance %d: %v", e.Op, e.Utterance, e.Err)
}

// Unwrap returns the underlying error.
func (e *NarrationError) Unwrap() error {
	return e.Err
}

// IsInterruption reports whether err only signals that an utterance was
// cancelled before it finished.
func IsInterruption(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
