package document

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html/atom"
)

const pagedHTML = `<html><body>
<div id="sidebar"><span>Contents</span></div>
<div class="page" id="p1">
  <div class="para"><span class="text-line">Hello</span> <span class="text-line">world</span></div>
</div>
<div class="page" id="p2">
  <div class="para"><span class="text-line">Second page</span></div>
</div>
</body></html>`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestParseFindsPagesAndLines(t *testing.T) {
	doc := mustParse(t, pagedHTML)

	pages := doc.Pages()
	if len(pages) != 2 {
		t.Fatalf("Pages() = %d, want 2", len(pages))
	}
	if pages[0].ID() != "p1" || pages[1].ID() != "p2" {
		t.Errorf("Pages() ids = %q, %q", pages[0].ID(), pages[1].ID())
	}

	lines := doc.Lines()
	if len(lines) != 3 {
		t.Fatalf("Lines() = %d, want 3", len(lines))
	}
	for _, l := range lines {
		if !doc.IsTextLine(l) {
			t.Errorf("IsTextLine(%q) = false", TextContent(l))
		}
		if doc.IsPageContainer(l) {
			t.Errorf("IsPageContainer(%q) = true", TextContent(l))
		}
	}
	if !doc.IsPageContainer(pages[0]) {
		t.Error("IsPageContainer(page) = false")
	}
	if doc.SidePanel() == nil || doc.SidePanel().ID() != "sidebar" {
		t.Error("SidePanel() did not find #sidebar")
	}
}

func TestAmbientIsInjectedOnce(t *testing.T) {
	doc := mustParse(t, pagedHTML)

	amb := doc.Ambient()
	if amb == nil {
		t.Fatal("Ambient() = nil")
	}
	if amb.ID() != "read-aloud-icon" {
		t.Errorf("Ambient().ID() = %q", amb.ID())
	}
	if got := TextContent(amb); got != AmbientLabel {
		t.Errorf("ambient label = %q, want %q", got, AmbientLabel)
	}
	if amb.Parent() != doc.Root() {
		t.Error("ambient element should be a child of the body")
	}

	existing := mustParse(t, `<body><button id="read-aloud-icon">Listen</button></body>`)
	if got := TextContent(existing.Ambient()); got != "Listen" {
		t.Errorf("existing ambient label = %q, want Listen", got)
	}
	if n := len(existing.Root().Children()); n != 1 {
		t.Errorf("body children = %d, want the existing affordance only", n)
	}
}

func TestSetText(t *testing.T) {
	doc := mustParse(t, pagedHTML)
	doc.SetText(doc.Ambient(), "Pause Reading")
	if got := TextContent(doc.Ambient()); got != "Pause Reading" {
		t.Errorf("TextContent after SetText = %q", got)
	}
	if n := len(doc.Ambient().Children()); n != 1 {
		t.Errorf("children after SetText = %d, want 1", n)
	}
}

func TestInvalidSelector(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSelector = "div[["
	_, err := Parse(strings.NewReader(pagedHTML), opts)
	if !errors.Is(err, ErrInvalidSelector) {
		t.Errorf("Parse() error = %v, want ErrInvalidSelector", err)
	}
}

func TestRootWithoutPages(t *testing.T) {
	doc := mustParse(t, `<p>loose text</p>`)
	if len(doc.Pages()) != 0 {
		t.Error("expected no pages")
	}
	if doc.Root().Tag() != "body" {
		t.Errorf("Root().Tag() = %q, want body", doc.Root().Tag())
	}
}

func TestNodeAccessors(t *testing.T) {
	doc := mustParse(t, `<body><div id="a" class="x  y"><em>hi</em></div></body>`)
	div := doc.Root().Children()[0]

	if !div.IsElement() || div.IsText() {
		t.Error("div should be an element")
	}
	if div.Tag() != "div" || div.ID() != "a" {
		t.Errorf("Tag/ID = %q/%q", div.Tag(), div.ID())
	}
	if !div.HasClass("x") || !div.HasClass("y") || div.HasClass("z") {
		t.Error("HasClass mismatch")
	}
	text := div.Children()[0].Children()[0]
	if !text.IsText() || text.Data() != "hi" || text.Tag() != "" {
		t.Errorf("text leaf = %+v", text)
	}
	if !Contains(div, text) || Contains(text, div) {
		t.Error("Contains mismatch")
	}
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestParseMarkdownPaginates(t *testing.T) {
	src := "# Title\n\nFirst *para*\ncontinues.\n\nSecond para.\n\n- one\n- two\n"
	opts := DefaultOptions()
	opts.BlocksPerPage = 2

	doc, err := ParseMarkdown([]byte(src), opts)
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	pages := doc.Pages()
	if len(pages) != 2 {
		t.Fatalf("Pages() = %d, want 2", len(pages))
	}
	for i, p := range pages {
		for _, block := range p.Children() {
			if !block.IsElement() {
				t.Errorf("page %d has a non-element child", i)
			}
		}
	}

	lines := doc.Lines()
	var texts []string
	for _, l := range lines {
		texts = append(texts, TextContent(l))
		parent := l.Parent()
		for parent != nil && !doc.IsPageContainer(parent.Parent()) {
			parent = parent.Parent()
		}
		if parent == nil {
			t.Errorf("line %q is not under a page", TextContent(l))
		}
	}
	want := []string{"Title", "First para\ncontinues.", "Second para.", "one", "two"}
	if len(texts) != len(want) {
		t.Fatalf("lines = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestParseMarkdownKeepsInlineMarkupInLine(t *testing.T) {
	doc, err := ParseMarkdown([]byte("Some **bold** text"), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	lines := doc.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines() = %d, want 1", len(lines))
	}
	var tags []string
	for _, c := range lines[0].Children() {
		tags = append(tags, c.Tag())
	}
	if strings.Join(tags, ",") != ",strong," {
		t.Errorf("line children tags = %q", tags)
	}
}

func TestElementFromSelector(t *testing.T) {
	tests := []struct {
		sel       string
		wantTag   atom.Atom
		wantClass string
	}{
		{".page", atom.Div, "page"},
		{" .leaf ", atom.Div, "leaf"},
		{"section.chapter", atom.Section, "chapter"},
		{"DIV.page", atom.Div, "page"},
		{"notatag.page", atom.Div, "fallback"},
		{".a .b", atom.Div, "fallback"},
		{".", atom.Div, "fallback"},
		{"#id", atom.Div, "fallback"},
		{"section", atom.Div, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			tag, class := elementFromSelector(tt.sel, atom.Div, "fallback")
			if tag != tt.wantTag || class != tt.wantClass {
				t.Errorf("elementFromSelector(%q) = %v, %q, want %v, %q",
					tt.sel, tag, class, tt.wantTag, tt.wantClass)
			}
		})
	}
}

func TestParseMarkdownCustomSelectors(t *testing.T) {
	opts := DefaultOptions()
	opts.PageSelector = "section.chapter"
	opts.LineSelector = "p.row"
	opts.BlocksPerPage = 1

	doc, err := ParseMarkdown([]byte("# One\n\nTwo.\n"), opts)
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	pages := doc.Pages()
	if len(pages) != 2 {
		t.Fatalf("Pages() = %d, want 2", len(pages))
	}
	if pages[0].Tag() != "section" || !pages[0].HasClass("chapter") {
		t.Errorf("page = <%s>, want section.chapter", pages[0].Tag())
	}
	lines := doc.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() = %d, want 2", len(lines))
	}
	if lines[0].Tag() != "p" || !lines[0].HasClass("row") {
		t.Errorf("line = <%s>, want p.row", lines[0].Tag())
	}
}

func TestViewportVisible(t *testing.T) {
	vp := Viewport{Height: 10}
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", Rect{Top: 2, Bottom: 5}, true},
		{"straddles top", Rect{Top: -3, Bottom: 1}, true},
		{"ends at top", Rect{Top: -3, Bottom: 0}, false},
		{"starts at bottom", Rect{Top: 10, Bottom: 12}, false},
		{"straddles bottom", Rect{Top: 9, Bottom: 15}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := vp.Visible(tt.r); got != tt.want {
				t.Errorf("Visible(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}
