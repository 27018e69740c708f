package tts

import "github.com/dgnsrekt/readaloud/internal/document"

// Presentation is how the ambient affordance looks.
type Presentation struct {
	Glyph    string
	Label    string
	Disabled bool
}

var (
	presentIdle    = Presentation{Glyph: "🔊", Label: "Read Aloud"}
	presentPlaying = Presentation{Glyph: "⏸", Label: "Pause Reading"}
	presentPaused  = Presentation{Glyph: "▶", Label: "Resume Reading"}
	presentOff     = Presentation{Glyph: "🔇", Label: "Read Aloud (unavailable)", Disabled: true}
)

// PresentationFor derives the affordance from state alone. Only full-page
// narration offers a pause control; block narration keeps the idle glyph.
func PresentationFor(s NarrationState) Presentation {
	if s.Scope != ScopeFullPage {
		return presentIdle
	}
	if s.IsPaused {
		return presentPaused
	}
	return presentPlaying
}

// Unsupported is shown instead of the affordance when no engine is available.
func Unsupported() Presentation {
	return presentOff
}

// DocumentPresenter keeps the affordance element's label in the document
// tree in step with the narration state.
type DocumentPresenter struct {
	doc *document.Document
}

// NewDocumentPresenter returns a presenter writing into doc's affordance.
func NewDocumentPresenter(doc *document.Document) *DocumentPresenter {
	return &DocumentPresenter{doc: doc}
}

// Present writes the label into the affordance element.
func (p *DocumentPresenter) Present(pr Presentation) {
	if p.doc == nil {
		return
	}
	p.doc.SetText(p.doc.Ambient(), pr.Label)
}
