package tts

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/readaloud/internal/document"
)

func parse(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Parse(strings.NewReader(src), document.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func byID(t *testing.T, doc *document.Document, id string) document.Node {
	t.Helper()
	n := doc.ByID(id)
	if n == nil {
		t.Fatalf("no element with id %q", id)
	}
	return n
}

// rects is a fixed layout keyed by node.
type rects map[document.Node]document.Rect

func (r rects) Rect(n document.Node) (document.Rect, bool) {
	v, ok := r[n]
	return v, ok
}
