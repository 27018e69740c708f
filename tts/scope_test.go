package tts

import (
	"testing"

	"github.com/dgnsrekt/readaloud/internal/document"
)

const scopeFixture = `<body>
<div class="page" id="p1">
  <p id="para"><span class="text-line" id="l1">one</span></p>
  <div id="outer"><div id="inner"><span class="text-line" id="l2">two</span></div></div>
  <span class="text-line" id="l3">three</span>
</div>
<div class="page" id="p2"><p id="para2"><span class="text-line" id="l4">four</span></p></div>
<section id="loose"><span class="text-line" id="l5">five</span></section>
</body>`

func TestResolveParagraph(t *testing.T) {
	doc := parse(t, scopeFixture)

	tests := []struct {
		name string
		line string
		want string
	}{
		{"paragraph below page", "l1", "para"},
		{"nested picks outermost", "l2", "outer"},
		{"line directly in page", "l3", "p1"},
		{"second page stays in page", "l4", "para2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveParagraph(byID(t, doc, tt.line), doc.IsPageContainer)
			if got != byID(t, doc, tt.want) {
				t.Errorf("ResolveParagraph(%s) = %v, want #%s", tt.line, got, tt.want)
			}
		})
	}
}

func TestResolveParagraphOutsidePages(t *testing.T) {
	doc := parse(t, scopeFixture)

	got := ResolveParagraph(byID(t, doc, "l5"), doc.IsPageContainer)
	if got == nil || got.Tag() != "html" {
		t.Errorf("ResolveParagraph outside pages = %v, want the html element", got)
	}
	if ResolveParagraph(nil, doc.IsPageContainer) != nil {
		t.Error("ResolveParagraph(nil) should be nil")
	}
}

func TestVisiblePage(t *testing.T) {
	doc := parse(t, `<body>
<div class="page" id="a">a</div><div class="page" id="b">b</div><div class="page" id="c">c</div>
</body>`)
	a, b, c := byID(t, doc, "a"), byID(t, doc, "b"), byID(t, doc, "c")
	pages := doc.Pages()
	root := doc.Root()
	vp := document.Viewport{Height: 20}

	tests := []struct {
		name string
		geo  document.Geometry
		want document.Node
	}{
		{
			name: "no geometry",
			geo:  nil,
			want: root,
		},
		{
			name: "top of first page closest",
			geo:  rects{a: {Top: 0, Bottom: 10}, b: {Top: 10, Bottom: 20}, c: {Top: 20, Bottom: 30}},
			want: a,
		},
		{
			name: "scrolled partway into first",
			geo:  rects{a: {Top: -8, Bottom: 2}, b: {Top: 2, Bottom: 12}, c: {Top: 12, Bottom: 22}},
			want: b,
		},
		{
			name: "page above viewport is skipped",
			geo:  rects{a: {Top: -10, Bottom: 0}, b: {Top: 15, Bottom: 25}, c: {Top: 25, Bottom: 35}},
			want: b,
		},
		{
			name: "tie goes to first",
			geo:  rects{a: {Top: -5, Bottom: 5}, b: {Top: 5, Bottom: 15}},
			want: a,
		},
		{
			name: "nothing in view",
			geo:  rects{a: {Top: 20, Bottom: 30}, b: {Top: 30, Bottom: 40}},
			want: root,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisiblePage(pages, tt.geo, vp, root)
			if got != tt.want {
				t.Errorf("VisiblePage() = %v, want %v", got, tt.want)
			}
		})
	}
}
