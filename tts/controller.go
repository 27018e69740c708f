// Package tts provides read-aloud narration over paginated documents.
package tts

import (
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/readaloud/internal/document"
)

// Controller arbitrates between full-page narration, paragraph narration and
// stop/pause intents. It is the only writer of narration state and the only
// caller into the speech engine.
type Controller struct {
	engine    SpeechEngine
	source    Source
	extractor Extractor
	presenter Presenter
	dispatch  Dispatcher
	logger    *log.Logger

	// Visibility resolution for full-page reads
	geometry func() (document.Geometry, document.Viewport)

	mu     sync.Mutex
	state  NarrationState
	target document.Node // Scope node of the current narration
	text   string        // Text of the current narration
	lastID UtteranceID
}

// Option configures a Controller.
type Option func(*Controller)

// WithDispatcher routes engine notifications through d instead of handing
// them straight to HandleEvent.
func WithDispatcher(d Dispatcher) Option {
	return func(c *Controller) { c.dispatch = d }
}

// WithPresenter registers the affordance presenter.
func WithPresenter(p Presenter) Option {
	return func(c *Controller) { c.presenter = p }
}

// WithGeometry supplies the layout used to find the most visible page.
func WithGeometry(fn func() (document.Geometry, document.Viewport)) Option {
	return func(c *Controller) { c.geometry = fn }
}

// WithExtractor overrides the extraction rules.
func WithExtractor(e Extractor) Option {
	return func(c *Controller) { c.extractor = e }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller driving engine over source. It fails
// with ErrEngineUnavailable when the engine cannot speak.
func NewController(engine SpeechEngine, source Source, opts ...Option) (*Controller, error) {
	if engine == nil || !engine.Available() {
		return nil, ErrEngineUnavailable
	}

	c := &Controller{
		engine: engine,
		source: source,
		logger: log.Default(),
	}
	if d, ok := source.(*document.Document); ok {
		c.extractor = NewExtractor(d.Options())
	} else {
		c.extractor = NewExtractor(document.DefaultOptions())
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.dispatch == nil {
		c.dispatch = c.HandleEvent
	}

	c.present()
	return c, nil
}

// State returns a copy of the narration state.
func (c *Controller) State() NarrationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Presentation returns the affordance derived from the current state.
func (c *Controller) Presentation() Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return PresentationFor(c.state)
}

// Text returns the text being narrated, or "" when idle.
func (c *Controller) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Target returns the scope node being narrated, or nil.
func (c *Controller) Target() document.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Extractor returns the extraction rules in use.
func (c *Controller) Extractor() Extractor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extractor
}

// SetSource stops any narration and switches to a new document.
func (c *Controller) SetSource(source Source) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	c.source = source
	c.present()
}

// Start narrates text with the given scope, always replacing whatever is
// playing. Text that is empty after trimming leaves the state reset.
func (c *Controller) Start(text string, scope Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start(nil, text, scope)
}

// Stop cancels the engine and resets the state. It is safe when idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stop()
	c.present()
}

// ToggleFullPagePause pauses or resumes full-page narration. It does
// nothing unless a full-page utterance is reading.
func (c *Controller) ToggleFullPagePause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.togglePause()
}

// HandleAmbientClick starts reading the most visible page when idle, and
// toggles pause otherwise.
func (c *Controller) HandleAmbientClick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.IsReading {
		c.togglePause()
		return
	}
	page := c.visiblePage()
	c.start(page, c.extractor.Extract(page, ModeFullPage), ScopeFullPage)
}

// HandleAmbientDoubleClick stops narration regardless of state.
func (c *Controller) HandleAmbientDoubleClick() {
	c.Stop()
}

// HandleContentClick reads the paragraph enclosing line. A click during
// paragraph narration only stops it; full-page narration is displaced.
func (c *Controller) HandleContentClick(line document.Node) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var paragraph document.Node
	if c.source != nil {
		paragraph = ResolveParagraph(line, c.source.IsPageContainer)
	}

	if c.state.IsReading && c.state.Scope == ScopeBlock {
		c.stop()
		c.present()
		return
	}
	if c.state.IsReading && c.state.Scope == ScopeFullPage {
		c.stop()
	}
	if paragraph == nil {
		c.present()
		return
	}
	c.start(paragraph, c.extractor.Extract(paragraph, ModeBlock), ScopeBlock)
}

// HandleEvent applies a lifecycle notification. Notifications tagged with
// an utterance that is no longer current are dropped.
func (c *Controller) HandleEvent(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev.Utterance == 0 || ev.Utterance != c.state.Active {
		c.logger.Debug("ignoring stale speech event",
			"event", ev.Kind, "utterance", ev.Utterance, "active", c.state.Active)
		return
	}

	switch ev.Kind {
	case EventStarted:
		c.state.IsReading = true
		c.state.IsPaused = false
		c.logger.Debug("narration started", "utterance", ev.Utterance, "scope", c.state.Scope)
	case EventEnded:
		c.logger.Debug("narration ended", "utterance", ev.Utterance)
		c.reset()
	case EventErrored:
		c.logger.Warn("narration failed", "utterance", ev.Utterance, "error", ev.Err)
		c.reset()
	default:
		return
	}
	c.present()
}

// Private helpers. All of them expect c.mu to be held.

func (c *Controller) start(target document.Node, text string, scope Scope) {
	c.stop()

	if strings.TrimSpace(text) == "" {
		c.logger.Debug("nothing to read", "scope", scope)
		c.present()
		return
	}

	c.lastID++
	u := Utterance{
		ID:    c.lastID,
		Text:  text,
		Rate:  DefaultRate,
		Pitch: DefaultPitch,
	}
	c.state.Scope = scope
	c.state.Active = u.ID
	c.target = target
	c.text = text

	if err := c.engine.Speak(u, c.dispatch); err != nil {
		c.logger.Warn("speech engine rejected utterance",
			"error", &NarrationError{Op: "speak", Utterance: u.ID, Err: err})
		c.reset()
	} else {
		c.logger.Debug("utterance submitted", "utterance", u.ID, "scope", scope, "chars", len(text))
	}
	c.present()
}

func (c *Controller) stop() {
	if err := c.engine.Cancel(); err != nil {
		c.logger.Warn("speech engine cancel failed",
			"error", &NarrationError{Op: "cancel", Utterance: c.state.Active, Err: err})
	}
	c.reset()
}

func (c *Controller) togglePause() {
	if !c.state.IsReading || c.state.Scope != ScopeFullPage {
		return
	}

	if c.state.IsPaused {
		if err := c.engine.Resume(); err != nil {
			c.logger.Warn("speech engine resume failed",
				"error", &NarrationError{Op: "resume", Utterance: c.state.Active, Err: err})
			return
		}
		c.state.IsPaused = false
	} else {
		if err := c.engine.Pause(); err != nil {
			c.logger.Warn("speech engine pause failed",
				"error", &NarrationError{Op: "pause", Utterance: c.state.Active, Err: err})
			return
		}
		c.state.IsPaused = true
	}
	c.present()
}

func (c *Controller) reset() {
	c.state = NarrationState{}
	c.target = nil
	c.text = ""
}

func (c *Controller) visiblePage() document.Node {
	if c.source == nil {
		return nil
	}
	root := c.source.Root()
	if c.geometry == nil {
		return root
	}
	geo, vp := c.geometry()
	return VisiblePage(c.source.Pages(), geo, vp, root)
}

func (c *Controller) present() {
	if c.presenter != nil {
		c.presenter.Present(PresentationFor(c.state))
	}
}
