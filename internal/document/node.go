package document

import (
	"strings"

	"golang.org/x/net/html"
)

// Node is the tree capability set narration needs. It is independent of the
// underlying representation.
type Node interface {
	// IsText reports whether the node is a text leaf.
	IsText() bool
	// IsElement reports whether the node is an element.
	IsElement() bool
	// Tag returns the lower-cased tag name of an element, or "".
	Tag() string
	// ID returns the element's id attribute, or "".
	ID() string
	// HasClass reports whether the element carries the given class.
	HasClass(class string) bool
	// Data returns the text of a text leaf, or "".
	Data() string
	// Children returns the node's children in document order.
	Children() []Node
	// Parent returns the parent node, or nil at the top of the tree.
	Parent() Node
}

// htmlNode adapts an *html.Node. Two htmlNodes compare equal when they wrap
// the same *html.Node, so Node values can be used as map keys.
type htmlNode struct {
	n *html.Node
}

// Wrap returns n as a Node. A nil n yields a nil Node.
func Wrap(n *html.Node) Node {
	if n == nil {
		return nil
	}
	return htmlNode{n: n}
}

// Unwrap returns the *html.Node behind a Node created by this package.
func Unwrap(n Node) (*html.Node, bool) {
	h, ok := n.(htmlNode)
	if !ok {
		return nil, false
	}
	return h.n, true
}

func (h htmlNode) IsText() bool    { return h.n.Type == html.TextNode }
func (h htmlNode) IsElement() bool { return h.n.Type == html.ElementNode }

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) ID() string {
	return attr(h.n, "id")
}

func (h htmlNode) HasClass(class string) bool {
	for _, c := range strings.Fields(attr(h.n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func (h htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}

func (h htmlNode) Parent() Node {
	return Wrap(h.n.Parent)
}

func attr(n *html.Node, key string) string {
	if n.Type != html.ElementNode {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// TextContent concatenates the data of every text leaf under n, in document
// order, without any filtering.
func TextContent(n Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(Node)
	walk = func(n Node) {
		if n.IsText() {
			b.WriteString(n.Data())
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// Contains reports whether descendant is ancestor or lies beneath it.
func Contains(ancestor, descendant Node) bool {
	if ancestor == nil {
		return false
	}
	for n := descendant; n != nil; n = n.Parent() {
		if n == ancestor {
			return true
		}
	}
	return false
}
