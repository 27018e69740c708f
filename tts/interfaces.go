package tts

import "github.com/dgnsrekt/readaloud/internal/document"

// Fixed utterance parameters. Narration never varies voice or rate.
const (
	DefaultRate  = 1.0
	DefaultPitch = 1.0
)

// UtteranceID identifies one request to the speech engine. Zero means none.
type UtteranceID uint64

// Utterance is one discrete request to vocalize text.
type Utterance struct {
	ID    UtteranceID
	Text  string
	Rate  float64 // Speech rate multiplier (1.0 = normal)
	Pitch float64 // Pitch multiplier (1.0 = normal)
}

// EventKind is the kind of lifecycle notification an engine delivers.
type EventKind int

const (
	// EventStarted indicates the engine began speaking the utterance.
	EventStarted EventKind = iota
	// EventEnded indicates the utterance finished.
	EventEnded
	// EventErrored indicates the utterance failed or was interrupted.
	EventErrored
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventEnded:
		return "ended"
	case EventErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Event is a lifecycle notification tagged with the utterance it concerns.
type Event struct {
	Kind      EventKind
	Utterance UtteranceID
	Err       error // Set for EventErrored
}

// SpeechEngine is the external speech capability. Every call is
// fire-and-forget. Notifications for an utterance are delivered through the
// notify func given to Speak, from any goroutine, but never synchronously
// from inside Speak.
type SpeechEngine interface {
	// Name returns the engine identifier.
	Name() string

	// Available probes whether the engine can speak at all.
	Available() bool

	// Speak submits an utterance.
	Speak(u Utterance, notify func(Event)) error

	// Pause suspends the current utterance.
	Pause() error

	// Resume continues a paused utterance.
	Resume() error

	// Cancel drops the current utterance. It is safe when nothing is playing.
	Cancel() error
}

// Source is the document the controller resolves scopes against.
type Source interface {
	Pages() []document.Node
	Root() document.Node
	IsPageContainer(n document.Node) bool
}

// Presenter renders the ambient affordance.
type Presenter interface {
	Present(p Presentation)
}

// Dispatcher routes engine notifications back to the controller. It is the
// point where notifications are serialized with user intents.
type Dispatcher func(Event)
