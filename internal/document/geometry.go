package document

// Rect is an element's bounding box in cells, relative to the viewport top.
// Bottom and Right are exclusive.
type Rect struct {
	Top, Bottom int
	Left, Right int
}

// Geometry reports where elements currently sit on screen.
type Geometry interface {
	// Rect returns the bounding box of n, and false when n is not laid out.
	Rect(n Node) (Rect, bool)
}

// Viewport describes the visible area.
type Viewport struct {
	Height int
}

// Visible reports whether r is at least partially inside vp.
func (vp Viewport) Visible(r Rect) bool {
	return r.Bottom > 0 && r.Top < vp.Height
}
