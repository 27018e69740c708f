// Package ui provides the terminal reader for readaloud.
package ui

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/readaloud/internal/document"
	"github.com/dgnsrekt/readaloud/tts"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"golang.org/x/time/rate"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	statusBarHeight      = 1
	ellipsis             = "…"
)

// NewProgram returns a new Tea program reading the document at cfg.Path, or
// content when it is not empty. A nil or unavailable engine leaves the
// reader working with narration disabled.
func NewProgram(cfg Config, engine tts.SpeechEngine, content string) *tea.Program {
	log.Debug(
		"Starting readaloud",
		"high_perf_pager",
		cfg.HighPerformancePager,
		"double_click",
		cfg.DoubleClick,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	r := &relay{}
	m := newModel(cfg, engine, content, r.dispatch)
	p := tea.NewProgram(m, opts...)
	r.program = p
	return p
}

// relay hands engine notifications to the running program so they are
// processed by Update, in order with key and mouse input.
type relay struct {
	program *tea.Program
}

func (r *relay) dispatch(ev tts.Event) {
	if r.program != nil {
		r.program.Send(ev)
	}
}

type (
	errMsg                  struct{ err error }
	reloadMsg               struct{}
	statusMessageTimeoutMsg struct{}
	editorFinishedMsg       struct{ err error }
)

func (e errMsg) Error() string { return e.err.Error() }

type documentLoadedMsg struct {
	doc     *document.Document
	rewatch bool // Loaded because the watcher fired
}

type pagerState int

const (
	pagerStateBrowse pagerState = iota
	pagerStateStatusMessage
)

// screen is what the controller sees of the terminal. The model and the
// controller's geometry callback share it.
type screen struct {
	doc          *document.Document
	layout       *Layout
	offset       int
	height       int
	presentation tts.Presentation
}

func (s *screen) geometry() (document.Geometry, document.Viewport) {
	if s.layout == nil {
		return nil, document.Viewport{}
	}
	return s.layout.Geometry(s.offset), document.Viewport{Height: s.height}
}

// Present keeps the status bar icon and the document's affordance label in
// step with the narration state.
func (s *screen) Present(p tts.Presentation) {
	s.presentation = p
	if s.doc != nil {
		tts.NewDocumentPresenter(s.doc).Present(p)
	}
}

type model struct {
	cfg      Config
	fatalErr error

	screen   *screen
	ctrl     *tts.Controller // nil when narration is unavailable
	viewport viewport.Model
	watcher  *fsnotify.Watcher
	reloads  *rate.Limiter // Spaces out reloads while a file is being written

	width  int
	height int

	state              pagerState
	statusMessage      string
	statusMessageTimer *time.Timer
	showHelp           bool

	lastIconPress time.Time
	now           func() time.Time
}

func newModel(cfg Config, engine tts.SpeechEngine, content string, dispatch tts.Dispatcher) model {
	if cfg.DoubleClick <= 0 {
		cfg.DoubleClick = 400 * time.Millisecond
	}

	vp := viewport.New(0, 0)
	vp.YPosition = 0
	vp.HighPerformanceRendering = cfg.HighPerformancePager //nolint:staticcheck

	m := model{
		cfg:      cfg,
		screen:   &screen{presentation: tts.Unsupported()},
		viewport: vp,
		now:      time.Now,
	}

	doc, err := loadDocument(cfg, content)
	if err != nil {
		log.Error("unable to load document", "file", cfg.Path, "error", err)
		m.fatalErr = err
		return m
	}
	m.screen.doc = doc
	if cfg.Path != "" {
		m.initWatcher()
	}

	if engine == nil || !engine.Available() {
		log.Warn("speech engine unavailable, narration disabled")
		m.screen.Present(tts.Unsupported())
		return m
	}
	m.ctrl, err = tts.NewController(engine, doc,
		tts.WithDispatcher(dispatch),
		tts.WithPresenter(m.screen),
		tts.WithGeometry(m.screen.geometry),
		tts.WithLogger(log.Default()),
	)
	if err != nil {
		log.Warn("narration disabled", "engine", engine.Name(), "error", err)
		m.screen.Present(tts.Unsupported())
	}
	return m
}

func loadDocument(cfg Config, content string) (*document.Document, error) {
	opts := cfg.Narration.Document.Options()
	if cfg.Path == "" {
		return document.ParseMarkdown([]byte(content), opts)
	}
	return document.Load(cfg.Path, opts)
}

func (m model) Init() tea.Cmd {
	if m.fatalErr != nil || m.watcher == nil {
		return nil
	}
	return m.watchFile
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.stop()
			m.unwatchFile()
			return m, tea.Quit

		case "ctrl+z":
			return m, tea.Suspend

		case " ":
			// Space would page down in the viewport.
			m.ambientClick()
			return m.refresh(cmds)

		case "esc", "s":
			if m.state != pagerStateBrowse {
				m.state = pagerStateBrowse
			}
			m.stop()
			return m.refresh(cmds)

		case "home", "g":
			m.viewport.GotoTop()

		case "end", "G":
			m.viewport.GotoBottom()

		case "y":
			cmds = append(cmds, m.copyVisiblePage())

		case "e":
			if m.cfg.Path != "" {
				log.Info("opening editor", "file", m.cfg.Path)
				return m, openEditor(m.cfg.Path, m.viewport.YOffset)
			}

		case "r":
			return m, m.reload(false)

		case "?":
			m.showHelp = !m.showHelp
			m.setSize(m.width, m.height)
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.press(msg.X, msg.Y)
			return m.refresh(cmds)
		}

	case tts.Event:
		if m.ctrl != nil {
			m.ctrl.HandleEvent(msg)
		}
		return m.refresh(cmds)

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.setSize(msg.Width, msg.Height)
		m.relayout()

	// The file was changed on disk and we're reloading it
	case reloadMsg:
		return m, m.reload(true)

	case editorFinishedMsg:
		if msg.err != nil {
			log.Error("editor exited with an error", "error", msg.err)
		}
		return m, m.reload(false)

	case documentLoadedMsg:
		// Narration scopes point into the old tree.
		m.screen.doc = msg.doc
		if m.ctrl != nil {
			m.ctrl.SetSource(msg.doc)
		} else {
			m.screen.Present(tts.Unsupported())
		}
		m.relayout()
		cmds = append(cmds, m.showStatusMessage("Reloaded"))
		if msg.rewatch {
			cmds = append(cmds, m.watchFile)
		}

	case errMsg:
		log.Error("reader error", "error", msg.err)
		cmds = append(cmds, m.showStatusMessage("Error: "+msg.err.Error()))

	case statusMessageTimeoutMsg:
		m.state = pagerStateBrowse
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m.refresh(cmds)
}

// refresh syncs the shared screen with the viewport and redraws the content
// so the highlight follows the narration state.
func (m model) refresh(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	m.syncScreen()
	if m.screen.layout != nil {
		m.viewport.SetContent(m.screen.layout.Render(m.highlighted()))
		m.screen.offset = m.viewport.YOffset
		if m.viewport.HighPerformanceRendering { //nolint:staticcheck
			cmds = append(cmds, viewport.Sync(m.viewport)) //nolint:staticcheck
		}
	}
	return m, tea.Batch(cmds...)
}

// syncScreen copies the viewport position the controller resolves
// visibility against.
func (m model) syncScreen() {
	m.screen.offset = m.viewport.YOffset
	m.screen.height = m.viewport.Height
}

// highlighted returns the paragraph being narrated, if any.
func (m model) highlighted() document.Node {
	if m.ctrl == nil {
		return nil
	}
	if m.ctrl.State().Scope != tts.ScopeBlock {
		return nil
	}
	return m.ctrl.Target()
}

func (m *model) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = max(0, h-statusBarHeight)
	if m.showHelp {
		m.viewport.Height = max(0, m.viewport.Height-strings.Count(m.helpView(), "\n"))
	}
}

func (m *model) relayout() {
	if m.screen.doc == nil {
		return
	}
	width := m.width
	if m.cfg.Width > 0 && int(m.cfg.Width) < width { //nolint:gosec
		width = int(m.cfg.Width) //nolint:gosec
	}
	m.screen.layout = NewLayout(m.screen.doc, width)
}

// press classifies a left-button press by where it landed.
func (m *model) press(x, y int) {
	m.syncScreen()
	if y == m.viewport.Height {
		if x < m.iconWidth() {
			m.iconPress()
		}
		return
	}
	if y < 0 || y >= m.viewport.Height || m.screen.layout == nil || m.ctrl == nil {
		return
	}
	if line := m.screen.layout.LineAt(y+m.viewport.YOffset, x); line != nil {
		m.ctrl.HandleContentClick(line)
	}
}

// iconPress turns presses on the icon into clicks and double clicks. The
// first press of a pair has already acted as a click when the second one
// arrives, so the second only stops.
func (m *model) iconPress() {
	if m.ctrl == nil {
		return
	}
	m.syncScreen()
	now := m.now()
	if !m.lastIconPress.IsZero() && now.Sub(m.lastIconPress) <= m.cfg.DoubleClick {
		m.lastIconPress = time.Time{}
		m.ctrl.HandleAmbientDoubleClick()
		return
	}
	m.lastIconPress = now
	m.ctrl.HandleAmbientClick()
}

func (m *model) ambientClick() {
	if m.ctrl != nil {
		m.syncScreen()
		m.ctrl.HandleAmbientClick()
	}
}

func (m *model) stop() {
	if m.ctrl != nil {
		m.ctrl.Stop()
	}
}

func (m model) presentation() tts.Presentation {
	if m.ctrl == nil {
		return tts.Unsupported()
	}
	return m.ctrl.Presentation()
}

// visiblePage returns the page most in view, or the document root.
func (m model) visiblePage() document.Node {
	doc := m.screen.doc
	if doc == nil {
		return nil
	}
	geo, vp := m.screen.geometry()
	return tts.VisiblePage(doc.Pages(), geo, vp, doc.Root())
}

// copyVisiblePage copies the text a full-page read would speak.
func (m *model) copyVisiblePage() tea.Cmd {
	m.syncScreen()
	page := m.visiblePage()
	if page == nil {
		return nil
	}
	extractor := tts.NewExtractor(m.screen.doc.Options())
	if m.ctrl != nil {
		extractor = m.ctrl.Extractor()
	}
	text := extractor.Extract(page, tts.ModeFullPage)
	if text == "" {
		return m.showStatusMessage("Nothing to copy")
	}

	// Copy using OSC 52
	termenv.Copy(text)
	// Copy using native system clipboard
	_ = clipboard.WriteAll(text)
	return m.showStatusMessage("Copied page text")
}

func (m *model) showStatusMessage(msg string) tea.Cmd {
	m.state = pagerStateStatusMessage
	m.statusMessage = msg
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)

	return waitForStatusMessageTimeout(m.statusMessageTimer)
}

func (m model) reload(rewatch bool) tea.Cmd {
	cfg := m.cfg
	if cfg.Path == "" {
		return nil
	}
	return func() tea.Msg {
		doc, err := loadDocument(cfg, "")
		if err != nil {
			return errMsg{err}
		}
		return documentLoadedMsg{doc: doc, rewatch: rewatch}
	}
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr)
	}

	var b strings.Builder
	fmt.Fprint(&b, m.viewport.View()+"\n")

	// Footer
	m.statusBarView(&b)

	if m.showHelp {
		fmt.Fprint(&b, "\n"+m.helpView())
	}

	return b.String()
}

func errorView(err error) string {
	s := fmt.Sprintf("%s\n\n%s", errorStyle("Error"), err)
	return "\n" + indent(s, 3) + "\n" + indent("Press any key to exit", 3)
}

// COMMANDS

func waitForStatusMessageTimeout(t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg{}
	}
}

// ETC

func documentName(path string) string {
	if path == "" {
		return "stdin"
	}
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return rel
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	var b bytes.Buffer
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
