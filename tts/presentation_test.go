package tts

import (
	"strings"
	"testing"

	"github.com/dgnsrekt/readaloud/internal/document"
)

func TestPresentationFor(t *testing.T) {
	tests := []struct {
		name      string
		state     NarrationState
		wantGlyph string
		wantLabel string
	}{
		{"idle", NarrationState{}, "🔊", "Read Aloud"},
		{"pending page", NarrationState{Scope: ScopeFullPage, Active: 1}, "⏸", "Pause Reading"},
		{"reading page", NarrationState{IsReading: true, Scope: ScopeFullPage, Active: 1}, "⏸", "Pause Reading"},
		{"paused page", NarrationState{IsReading: true, IsPaused: true, Scope: ScopeFullPage, Active: 1}, "▶", "Resume Reading"},
		{"reading block", NarrationState{IsReading: true, Scope: ScopeBlock, Active: 1}, "🔊", "Read Aloud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PresentationFor(tt.state)
			if p.Glyph != tt.wantGlyph || p.Label != tt.wantLabel {
				t.Errorf("PresentationFor() = %q %q, want %q %q", p.Glyph, p.Label, tt.wantGlyph, tt.wantLabel)
			}
			if p.Disabled {
				t.Error("supported presentation should not be disabled")
			}
		})
	}
}

func TestUnsupported(t *testing.T) {
	p := Unsupported()
	if !p.Disabled || p.Glyph != "🔇" {
		t.Errorf("Unsupported() = %+v", p)
	}
}

func TestDocumentPresenter(t *testing.T) {
	doc, err := document.Parse(strings.NewReader(`<body><div class="page"><p>x</p></div></body>`), document.DefaultOptions())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	p := NewDocumentPresenter(doc)
	p.Present(PresentationFor(NarrationState{IsReading: true, Scope: ScopeFullPage, Active: 1}))

	if got := document.TextContent(doc.Ambient()); got != "Pause Reading" {
		t.Errorf("ambient label = %q, want %q", got, "Pause Reading")
	}

	NewDocumentPresenter(nil).Present(Presentation{}) // must not panic
}
