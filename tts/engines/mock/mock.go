// Package mock provides a mock speech engine for testing and demos.
package mock

import (
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/readaloud/tts"
)

// MockEngine implements tts.SpeechEngine. In manual mode nothing happens on
// its own and tests deliver lifecycle notifications with Start, End and Fail.
// In auto mode it simulates speaking time.
type MockEngine struct {
	mu sync.Mutex

	// Configuration
	auto       bool
	startDelay time.Duration // Simulated latency before speech starts
	wpm        int           // Simulated speaking rate

	// Control for testing
	available bool
	speakErr  error

	// State
	utterances []tts.Utterance
	notify     map[tts.UtteranceID]func(tts.Event)
	current    *playback

	// Call counts
	pauses  int
	resumes int
	cancels int
}

type playback struct {
	id     tts.UtteranceID
	paused bool
	done   chan struct{}
}

// New creates a manual mock engine.
func New() *MockEngine {
	return &MockEngine{
		available: true,
		wpm:       150,
		notify:    make(map[tts.UtteranceID]func(tts.Event)),
	}
}

// NewAuto creates a mock engine that plays utterances by itself.
func NewAuto(cfg tts.MockConfig) *MockEngine {
	e := New()
	e.auto = true
	e.startDelay = cfg.StartDelay
	if cfg.WordsPerMinute > 0 {
		e.wpm = cfg.WordsPerMinute
	}
	return e
}

// Name returns the engine identifier.
func (e *MockEngine) Name() string { return tts.EngineMock }

// Available returns the mock availability state.
func (e *MockEngine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// Speak records the utterance and, in auto mode, starts playing it.
func (e *MockEngine) Speak(u tts.Utterance, notify func(tts.Event)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.speakErr != nil {
		return e.speakErr
	}

	e.utterances = append(e.utterances, u)
	e.notify[u.ID] = notify
	if e.current != nil {
		close(e.current.done)
	}
	e.current = &playback{id: u.ID, done: make(chan struct{})}

	if e.auto {
		go e.play(e.current, e.estimateDuration(u.Text), notify)
	}
	return nil
}

// Pause suspends the current playback.
func (e *MockEngine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauses++
	if e.current != nil {
		e.current.paused = true
	}
	return nil
}

// Resume continues the current playback.
func (e *MockEngine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resumes++
	if e.current != nil {
		e.current.paused = false
	}
	return nil
}

// Cancel drops the current playback.
func (e *MockEngine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancels++
	if e.current != nil {
		close(e.current.done)
		e.current = nil
	}
	return nil
}

// play runs one simulated utterance. A cancelled utterance reports
// tts.ErrInterrupted the way a browser speech engine does.
func (e *MockEngine) play(p *playback, d time.Duration, notify func(tts.Event)) {
	select {
	case <-p.done:
		notify(tts.Event{Kind: tts.EventErrored, Utterance: p.id, Err: tts.ErrInterrupted})
		return
	case <-time.After(e.startDelay):
	}
	notify(tts.Event{Kind: tts.EventStarted, Utterance: p.id})

	const tick = 50 * time.Millisecond
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for remaining := d; remaining > 0; {
		select {
		case <-p.done:
			notify(tts.Event{Kind: tts.EventErrored, Utterance: p.id, Err: tts.ErrInterrupted})
			return
		case <-ticker.C:
			e.mu.Lock()
			paused := p.paused
			e.mu.Unlock()
			if !paused {
				remaining -= tick
			}
		}
	}

	e.mu.Lock()
	if e.current == p {
		e.current = nil
	}
	e.mu.Unlock()
	notify(tts.Event{Kind: tts.EventEnded, Utterance: p.id})
}

// Test control methods

// Start delivers a started notification for id.
func (e *MockEngine) Start(id tts.UtteranceID) {
	e.deliver(tts.Event{Kind: tts.EventStarted, Utterance: id})
}

// End delivers an ended notification for id.
func (e *MockEngine) End(id tts.UtteranceID) {
	e.deliver(tts.Event{Kind: tts.EventEnded, Utterance: id})
}

// Fail delivers an errored notification for id.
func (e *MockEngine) Fail(id tts.UtteranceID, err error) {
	e.deliver(tts.Event{Kind: tts.EventErrored, Utterance: id, Err: err})
}

func (e *MockEngine) deliver(ev tts.Event) {
	e.mu.Lock()
	fn := e.notify[ev.Utterance]
	e.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

// SetAvailable controls what Available reports.
func (e *MockEngine) SetAvailable(ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = ok
}

// SetSpeakError makes Speak fail with err. A nil err restores normal behavior.
func (e *MockEngine) SetSpeakError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speakErr = err
}

// Utterances returns every utterance submitted so far.
func (e *MockEngine) Utterances() []tts.Utterance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]tts.Utterance(nil), e.utterances...)
}

// Last returns the most recent utterance and false if none was submitted.
func (e *MockEngine) Last() (tts.Utterance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.utterances) == 0 {
		return tts.Utterance{}, false
	}
	return e.utterances[len(e.utterances)-1], true
}

// Pauses returns the number of Pause calls.
func (e *MockEngine) Pauses() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauses
}

// Resumes returns the number of Resume calls.
func (e *MockEngine) Resumes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resumes
}

// Cancels returns the number of Cancel calls.
func (e *MockEngine) Cancels() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancels
}

// estimateDuration estimates speaking duration for text.
func (e *MockEngine) estimateDuration(text string) time.Duration {
	words := len(strings.Fields(text))
	if words < 1 {
		words = 1
	}
	seconds := float64(words) * 60.0 / float64(e.wpm)
	return time.Duration(seconds * float64(time.Second))
}
