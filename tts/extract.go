package tts

import (
	"regexp"
	"strings"

	"github.com/dgnsrekt/readaloud/internal/document"
)

// Mode selects the extraction rules.
type Mode int

const (
	// ModeBlock reads everything under the scope verbatim.
	ModeBlock Mode = iota
	// ModeFullPage reads content only, skipping chrome, scripts and styles.
	ModeFullPage
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	if m == ModeFullPage {
		return "full-page"
	}
	return "block"
}

var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// CollapseWhitespace replaces every run of two or more whitespace characters
// with a single space. Lone whitespace characters are kept as they are.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// skippedTags are subtrees whose text is never content.
var skippedTags = map[string]bool{
	"script":   true,
	"noscript": true,
	"style":    true,
}

// Extractor computes the text to vocalize for a scope.
type Extractor struct {
	AmbientID   string // Id of the read-aloud affordance
	SidePanelID string // Id of the side panel region
}

// NewExtractor returns an extractor that skips the regions the document
// options name.
func NewExtractor(opts document.Options) Extractor {
	return Extractor{AmbientID: opts.AmbientID, SidePanelID: opts.SidePanelID}
}

// Extract returns the text of scope under the given mode. The result is
// computed fresh on every call.
func (e Extractor) Extract(scope document.Node, mode Mode) string {
	if scope == nil {
		return ""
	}
	if mode == ModeBlock {
		return CollapseWhitespace(document.TextContent(scope))
	}

	var parts []string
	var walk func(n document.Node)
	walk = func(n document.Node) {
		if n.IsText() {
			if p := n.Parent(); p != nil && e.isAmbient(p) {
				return
			}
			if t := strings.TrimSpace(n.Data()); t != "" {
				parts = append(parts, t)
			}
			return
		}
		if n.IsElement() && e.excluded(n) {
			return
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(scope)

	return CollapseWhitespace(strings.Join(parts, " "))
}

func (e Extractor) isAmbient(n document.Node) bool {
	return e.AmbientID != "" && n.IsElement() && n.ID() == e.AmbientID
}

func (e Extractor) excluded(n document.Node) bool {
	if skippedTags[n.Tag()] {
		return true
	}
	id := n.ID()
	if id == "" {
		return false
	}
	return id == e.AmbientID || id == e.SidePanelID
}
