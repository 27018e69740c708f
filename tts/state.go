package tts

// Scope is the kind of narration that is active.
type Scope int

const (
	// ScopeNone indicates nothing is being narrated.
	ScopeNone Scope = iota
	// ScopeFullPage indicates the visible page is being narrated.
	ScopeFullPage
	// ScopeBlock indicates a single paragraph is being narrated.
	ScopeBlock
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeFullPage:
		return "full-page"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// NarrationState is the single mutable narration state. The zero value is
// the reset state.
type NarrationState struct {
	IsReading bool        // An utterance has started and not yet finished
	IsPaused  bool        // Playback is suspended; full-page only
	Scope     Scope       // Kind of narration in flight
	Active    UtteranceID // Current utterance, 0 if none
}

// IsIdle reports whether the state equals the reset state.
func (s NarrationState) IsIdle() bool {
	return s == NarrationState{}
}

// Valid reports whether the pause invariant holds: a paused state is always
// a reading, full-page state.
func (s NarrationState) Valid() bool {
	if s.IsPaused && !(s.IsReading && s.Scope == ScopeFullPage) {
		return false
	}
	if s.IsReading && s.Active == 0 {
		return false
	}
	return true
}
