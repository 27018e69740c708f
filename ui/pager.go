package ui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/time/rate"
)

const reloadInterval = 250 * time.Millisecond

// iconText is the unstyled icon, also used to size its click target.
func (m model) iconText() string {
	p := m.screen.presentation
	return " " + p.Glyph + " " + p.Label + " "
}

func (m model) iconWidth() int {
	return runewidth.StringWidth(m.iconText())
}

func (m model) iconView() string {
	p := m.screen.presentation
	switch {
	case p.Disabled:
		return iconDisabledStyle(m.iconText())
	case m.ctrl != nil && m.ctrl.State().IsReading:
		return iconActiveStyle(m.iconText())
	default:
		return iconStyle(m.iconText())
	}
}

func (m model) statusBarView(b *strings.Builder) {
	const (
		minPercent               float64 = 0.0
		maxPercent               float64 = 1.0
		percentToStringMagnitude float64 = 100.0
	)

	showStatusMessage := m.state == pagerStateStatusMessage

	icon := m.iconView()

	// Scroll percent
	percent := math.Max(minPercent, math.Min(maxPercent, m.viewport.ScrollPercent()))
	scrollPercent := statusBarScrollPosStyle(fmt.Sprintf(" %3.f%% ", percent*percentToStringMagnitude))

	// "Help" note
	helpNote := statusBarHelpStyle(" ? Help ")

	// Note
	var note string
	if showStatusMessage {
		note = m.statusMessage
	} else {
		note = m.noteText()
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.width-
			ansi.PrintableRuneWidth(icon)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	// Empty space
	padding := max(0,
		m.width-
			ansi.PrintableRuneWidth(icon)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = statusBarMessageStyle(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	fmt.Fprintf(b, "%s%s%s%s%s",
		icon,
		note,
		emptySpace,
		scrollPercent,
		helpNote,
	)
}

// noteText names the document, the page in view and what is being read.
func (m model) noteText() string {
	parts := []string{documentName(m.cfg.Path)}

	if l := m.screen.layout; l != nil && len(l.Pages()) > 0 {
		if i := l.PageIndex(m.visiblePage()); i >= 0 {
			parts = append(parts, fmt.Sprintf("page %d/%d", i+1, len(l.Pages())))
		}
	}
	if m.ctrl != nil {
		if text := m.ctrl.Text(); text != "" {
			parts = append(parts, "“"+strings.Join(strings.Fields(text), " ")+"”")
		}
	}
	return strings.Join(parts, " · ")
}

func (m model) helpView() (s string) {
	col1 := []string{
		"space    read page / pause",
		"esc/s    stop reading",
		"click    read paragraph",
		"y        copy page text",
		"e        edit this document",
		"r        reload this document",
		"q        quit",
	}

	s += "\n"
	s += "k/↑      up                  " + col1[0] + "\n"
	s += "j/↓      down                " + col1[1] + "\n"
	s += "b/pgup   page up             " + col1[2] + "\n"
	s += "f/pgdn   page down           " + col1[3] + "\n"
	s += "u        ½ page up           " + col1[4] + "\n"
	s += "d        ½ page down         " + col1[5] + "\n"
	s += "g/home   go to top           " + col1[6]

	s = indent(s, 2)

	// Fill up empty cells with spaces for background coloring
	if m.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}

		s = strings.Join(lines, "\n")
	}

	return helpViewStyle(s)
}

func (m *model) initWatcher() {
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		log.Error("error creating fsnotify watcher", "error", err)
		return
	}
	m.reloads = rate.NewLimiter(rate.Every(reloadInterval), 1)
}

func (m model) watchFile() tea.Msg {
	if m.watcher == nil {
		return nil
	}
	dir := m.localDir()

	if err := m.watcher.Add(dir); err != nil {
		log.Error("error adding dir to fsnotify watcher", "error", err)
		return nil
	}

	log.Info("fsnotify watching dir", "dir", dir)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.cfg.Path) {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			if m.reloads != nil {
				_ = m.reloads.Wait(context.Background())
			}
			return reloadMsg{}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "dir", dir, "error", err)
		}
	}
}

func (m *model) unwatchFile() {
	if m.watcher == nil {
		return
	}
	dir := m.localDir()

	err := m.watcher.Remove(dir)
	if err == nil {
		log.Debug("fsnotify dir unwatched", "dir", dir)
	} else {
		log.Debug("fsnotify fail to unwatch dir", "dir", dir, "error", err)
	}
}

func (m model) localDir() string {
	return filepath.Dir(m.cfg.Path)
}
