package ui

import (
	"fmt"
	"strings"

	"github.com/dgnsrekt/readaloud/internal/document"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const minLayoutWidth = 10

// hit is the clickable span of a text line on one row.
type hit struct {
	line        document.Node
	left, right int // Columns, right exclusive
}

type row struct {
	text   string
	header bool
	hits   []hit
}

// Layout is a document flattened into terminal rows. It records the rows and
// columns every rendered element occupies so clicks and visibility can be
// resolved against the tree.
type Layout struct {
	width int
	rows  []row
	boxes map[document.Node]document.Rect
	pages []document.Node
	doc   *document.Document
}

// NewLayout lays doc out at the given width. Each page container starts
// with a header row, and blocks directly under a page are separated by a
// blank row.
func NewLayout(doc *document.Document, width int) *Layout {
	l := &Layout{
		width: max(width, minLayoutWidth),
		boxes: make(map[document.Node]document.Rect),
		doc:   doc,
	}
	if doc == nil {
		return l
	}

	l.pages = doc.Pages()
	if len(l.pages) == 0 {
		l.section(doc.Root())
		return l
	}
	for i, p := range l.pages {
		top := len(l.rows)
		l.rows = append(l.rows, row{text: pageHeader(i+1, len(l.pages), l.width), header: true})
		l.section(p)
		l.boxes[p] = document.Rect{Top: top, Bottom: len(l.rows), Right: l.width}
	}
	return l
}

func pageHeader(n, total, width int) string {
	label := fmt.Sprintf(" page %d/%d ", n, total)
	pad := max(0, width-runewidth.StringWidth(label)-2)
	return "──" + label + strings.Repeat("─", pad)
}

// section lays out the children of a page, one block after another.
func (l *Layout) section(n document.Node) {
	for _, c := range n.Children() {
		before := len(l.rows)
		l.block(c)
		if len(l.rows) > before {
			l.rows = append(l.rows, row{})
		}
	}
}

func (l *Layout) block(n document.Node) {
	if n.IsText() {
		if t := strings.TrimSpace(n.Data()); t != "" {
			l.addText(t, nil)
		}
		return
	}
	if !n.IsElement() || l.skipped(n) {
		return
	}

	top := len(l.rows)
	if l.doc.IsTextLine(n) {
		l.addText(document.TextContent(n), n)
	} else {
		for _, c := range n.Children() {
			l.block(c)
		}
	}
	if len(l.rows) > top {
		l.boxes[n] = document.Rect{Top: top, Bottom: len(l.rows), Right: l.width}
	}
}

func (l *Layout) skipped(n document.Node) bool {
	switch n.Tag() {
	case "script", "noscript", "style", "head":
		return true
	}
	opts := l.doc.Options()
	id := n.ID()
	return id != "" && (id == opts.AmbientID || id == opts.SidePanelID)
}

// addText wraps text into rows. Rows belonging to a line are clickable over
// the columns their text covers.
func (l *Layout) addText(text string, line document.Node) {
	for _, para := range strings.Split(text, "\n") {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		wrapped := wrap.String(wordwrap.String(para, l.width), l.width)
		for _, s := range strings.Split(wrapped, "\n") {
			r := row{text: s}
			if line != nil {
				r.hits = []hit{{line: line, left: 0, right: runewidth.StringWidth(s)}}
			}
			l.rows = append(l.rows, r)
		}
	}
}

// Height returns the number of rows.
func (l *Layout) Height() int { return len(l.rows) }

// Pages returns the page containers in layout order.
func (l *Layout) Pages() []document.Node { return l.pages }

// Box returns the rows and columns n occupies in the layout.
func (l *Layout) Box(n document.Node) (document.Rect, bool) {
	r, ok := l.boxes[n]
	return r, ok
}

// LineAt returns the text line rendered at the given row and column, or nil.
func (l *Layout) LineAt(y, x int) document.Node {
	if y < 0 || y >= len(l.rows) {
		return nil
	}
	for _, h := range l.rows[y].hits {
		if x >= h.left && x < h.right {
			return h.line
		}
	}
	return nil
}

// PageIndex returns the 0-based position of page, or -1.
func (l *Layout) PageIndex(page document.Node) int {
	for i, p := range l.pages {
		if p == page {
			return i
		}
	}
	return -1
}

// Geometry returns the layout as seen through a viewport scrolled offset
// rows down.
func (l *Layout) Geometry(offset int) document.Geometry {
	return scrolled{l: l, offset: offset}
}

type scrolled struct {
	l      *Layout
	offset int
}

func (s scrolled) Rect(n document.Node) (document.Rect, bool) {
	r, ok := s.l.boxes[n]
	if !ok {
		return r, false
	}
	r.Top -= s.offset
	r.Bottom -= s.offset
	return r, true
}

// Render returns the rows as viewport content, with the rows of highlight
// marked.
func (l *Layout) Render(highlight document.Node) string {
	var box document.Rect
	lit := false
	if highlight != nil {
		box, lit = l.boxes[highlight]
	}

	var b strings.Builder
	for i, r := range l.rows {
		switch {
		case r.header:
			b.WriteString(pageHeaderStyle(r.text))
		case lit && i >= box.Top && i < box.Bottom && r.text != "":
			b.WriteString(highlightStyle(r.text))
		default:
			b.WriteString(r.text)
		}
		if i+1 < len(l.rows) {
			b.WriteRune('\n')
		}
	}
	return b.String()
}
