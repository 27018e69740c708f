package tts

import (
	"github.com/dgnsrekt/readaloud/internal/document"
)

// ResolveParagraph returns the paragraph enclosing a clicked line: the
// ancestor directly beneath the page boundary, or the page container itself
// when the walk reaches one first. The walk starts at the line's parent and
// stops at the topmost element. It returns nil when the line has no parent
// element.
func ResolveParagraph(line document.Node, isPage func(document.Node) bool) document.Node {
	if line == nil {
		return nil
	}
	cur := line.Parent()
	for cur != nil && cur.IsElement() {
		if isPage(cur) {
			return cur
		}
		parent := cur.Parent()
		if parent == nil || !parent.IsElement() || isPage(parent) {
			return cur
		}
		cur = parent
	}
	return nil
}

// VisiblePage picks the page container whose top edge is closest to the
// viewport top among those at least partially in view. It falls back to
// root when no container qualifies or no geometry is known.
func VisiblePage(pages []document.Node, geo document.Geometry, vp document.Viewport, root document.Node) document.Node {
	if geo == nil {
		return root
	}
	var (
		best     document.Node
		bestDist int
	)
	for _, p := range pages {
		r, ok := geo.Rect(p)
		if !ok || !vp.Visible(r) {
			continue
		}
		d := r.Top
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	if best == nil {
		return root
	}
	return best
}
