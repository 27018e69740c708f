package document

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// blockTags are elements that host text lines of their own rather than
// being part of one.
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Ul: true, atom.Ol: true, atom.Li: true,
	atom.Blockquote: true, atom.Pre: true, atom.Table: true, atom.Thead: true,
	atom.Tbody: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true,
	atom.H6: true, atom.Hr: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Section: true, atom.Figure: true, atom.Details: true, atom.Summary: true,
}

// ParseMarkdown converts Markdown into a paginated document. Top-level blocks
// are grouped into page containers of opts.BlocksPerPage blocks each, so every
// block sits directly beneath a page boundary. Inline content inside each block
// is wrapped into text lines.
func ParseMarkdown(src []byte, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	if err := md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("unable to convert markdown: %w", err)
	}
	root, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("unable to parse rendered markdown: %w", err)
	}

	body := findBody(root)
	if body == nil {
		return nil, fmt.Errorf("rendered markdown has no body")
	}

	pageTag, pageClass := elementFromSelector(opts.PageSelector, atom.Div, "page")
	lineTag, lineClass := elementFromSelector(opts.LineSelector, atom.Span, "text-line")

	var blocks []*html.Node
	for c := body.FirstChild; c != nil; {
		next := c.NextSibling
		body.RemoveChild(c)
		if c.Type == html.ElementNode {
			blocks = append(blocks, c)
		}
		c = next
	}

	for i := 0; i < len(blocks); i += opts.BlocksPerPage {
		end := min(i+opts.BlocksPerPage, len(blocks))
		page := newElement(pageTag, pageClass)
		page.Attr = append(page.Attr, html.Attribute{
			Key: "data-page-number",
			Val: strconv.Itoa(i/opts.BlocksPerPage + 1),
		})
		for _, b := range blocks[i:end] {
			wrapLines(b, lineTag, lineClass)
			page.AppendChild(b)
		}
		body.AppendChild(page)
	}

	return newDocument(root, opts)
}

// wrapLines moves every run of inline children of n into a text line span,
// descending into nested blocks.
func wrapLines(n *html.Node, tag atom.Atom, class string) {
	var run []*html.Node
	flush := func(before *html.Node) {
		defer func() { run = nil }()
		if len(run) == 0 || blank(run) {
			return
		}
		span := newElement(tag, class)
		n.InsertBefore(span, before)
		for _, c := range run {
			n.RemoveChild(c)
			span.AppendChild(c)
		}
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && blockTags[c.DataAtom] {
			flush(c)
			wrapLines(c, tag, class)
		} else {
			run = append(run, c)
		}
		c = next
	}
	flush(nil)
}

func blank(nodes []*html.Node) bool {
	for _, n := range nodes {
		if n.Type != html.TextNode || strings.TrimSpace(n.Data) != "" {
			return false
		}
	}
	return true
}

func newElement(a atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// elementFromSelector returns the tag and class named by a simple ".name" or
// "tag.name" selector. Anything more elaborate yields def and fallback.
func elementFromSelector(sel string, def atom.Atom, fallback string) (atom.Atom, string) {
	sel = strings.TrimSpace(sel)
	dot := strings.IndexByte(sel, '.')
	if dot < 0 {
		return def, fallback
	}
	tag, name := sel[:dot], sel[dot+1:]
	if name == "" || strings.ContainsAny(name, " .#[]:>+~,") {
		return def, fallback
	}
	if tag == "" {
		return def, name
	}
	a := atom.Lookup([]byte(strings.ToLower(tag)))
	if a == 0 {
		return def, fallback
	}
	return a, name
}
