package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInvalidSelector is returned when a page or line selector does not parse.
var ErrInvalidSelector = errors.New("invalid selector")

// Options control how a document is queried.
type Options struct {
	PageSelector  string // Selector for page containers
	LineSelector  string // Selector for text lines
	AmbientID     string // Stable id of the read-aloud affordance
	SidePanelID   string // Stable id of the side panel region
	BlocksPerPage int    // Top-level Markdown blocks per generated page
}

// DefaultOptions returns the selectors and ids used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		PageSelector:  ".page",
		LineSelector:  ".text-line",
		AmbientID:     "read-aloud-icon",
		SidePanelID:   "sidebar",
		BlocksPerPage: 8,
	}
}

// AmbientLabel is the text the affordance element carries before any
// narration state has been presented.
const AmbientLabel = "Read Aloud"

// Document is a parsed, queryable element tree.
type Document struct {
	root    *html.Node
	sel     *goquery.Document
	opts    Options
	page    cascadia.Selector
	line    cascadia.Selector
	ambient *html.Node
}

var markdownExtensions = []string{".md", ".markdown", ".mdown", ".mkd", ".mkdn"}

// Load reads path and parses it as Markdown or HTML depending on its
// extension. Files ending in .gz or .zst are decompressed first.
func Load(path string, opts Options) (*Document, error) {
	b, name, err := readSource(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, m := range markdownExtensions {
		if ext == m {
			return ParseMarkdown(b, opts)
		}
	}
	return Parse(bytes.NewReader(b), opts)
}

// Parse reads an HTML document.
func Parse(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	return newDocument(root, opts)
}

func newDocument(root *html.Node, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	page, err := cascadia.Compile(opts.PageSelector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, opts.PageSelector, err)
	}
	line, err := cascadia.Compile(opts.LineSelector)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelector, opts.LineSelector, err)
	}

	d := &Document{
		root: root,
		sel:  goquery.NewDocumentFromNode(root),
		opts: opts,
		page: page,
		line: line,
	}
	d.ambient = d.ensureAmbient()
	return d, nil
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.PageSelector == "" {
		o.PageSelector = def.PageSelector
	}
	if o.LineSelector == "" {
		o.LineSelector = def.LineSelector
	}
	if o.AmbientID == "" {
		o.AmbientID = def.AmbientID
	}
	if o.SidePanelID == "" {
		o.SidePanelID = def.SidePanelID
	}
	if o.BlocksPerPage <= 0 {
		o.BlocksPerPage = def.BlocksPerPage
	}
	return o
}

// ensureAmbient finds the affordance element by id, injecting it at the end
// of the body when the document does not carry one.
func (d *Document) ensureAmbient() *html.Node {
	if n := d.byID(d.opts.AmbientID); n != nil {
		return n
	}
	body := d.body()
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{
			{Key: "id", Val: d.opts.AmbientID},
			{Key: "role", Val: "button"},
		},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: AmbientLabel})
	body.AppendChild(n)
	return n
}

func (d *Document) byID(id string) *html.Node {
	s := d.sel.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	})
	if s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

func (d *Document) body() *html.Node {
	if s := d.sel.Find("body"); s.Length() > 0 {
		return s.Get(0)
	}
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return d.root
}

// Options returns the options the document was parsed with.
func (d *Document) Options() Options { return d.opts }

// Root returns the document body, the scope used when no page is in view.
func (d *Document) Root() Node { return Wrap(d.body()) }

// Ambient returns the read-aloud affordance element.
func (d *Document) Ambient() Node { return Wrap(d.ambient) }

// SidePanel returns the side panel element, or nil if the document has none.
func (d *Document) SidePanel() Node { return Wrap(d.byID(d.opts.SidePanelID)) }

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) Node { return Wrap(d.byID(id)) }

// Pages returns every page container in document order.
func (d *Document) Pages() []Node {
	return wrapAll(d.sel.FindMatcher(d.page).Nodes)
}

// Lines returns every text line in document order.
func (d *Document) Lines() []Node {
	return wrapAll(d.sel.FindMatcher(d.line).Nodes)
}

// IsPageContainer reports whether n matches the page selector.
func (d *Document) IsPageContainer(n Node) bool {
	h, ok := Unwrap(n)
	return ok && h.Type == html.ElementNode && d.page.Match(h)
}

// IsTextLine reports whether n matches the line selector.
func (d *Document) IsTextLine(n Node) bool {
	h, ok := Unwrap(n)
	return ok && h.Type == html.ElementNode && d.line.Match(h)
}

// SetText replaces the children of the element n with a single text leaf.
func (d *Document) SetText(n Node, text string) {
	h, ok := Unwrap(n)
	if !ok || h.Type != html.ElementNode {
		return
	}
	for c := h.FirstChild; c != nil; {
		next := c.NextSibling
		h.RemoveChild(c)
		c = next
	}
	h.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func wrapAll(nodes []*html.Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Wrap(n))
	}
	return out
}
