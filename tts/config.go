package tts

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/readaloud/internal/document"
)

// Config contains all narration configuration options.
type Config struct {
	// Engine selection: auto (espeak) or mock
	Engine string `yaml:"engine"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	Mock   MockConfig   `yaml:"mock"`

	// How page containers, lines and excluded regions are found
	Document DocumentConfig `yaml:"document"`
}

// EspeakConfig contains espeak engine specific settings.
type EspeakConfig struct {
	Binary string `yaml:"binary"` // Empty means espeak-ng, then espeak
}

// MockConfig contains mock engine settings.
type MockConfig struct {
	StartDelay     time.Duration `yaml:"start_delay"`
	WordsPerMinute int           `yaml:"words_per_minute"`
}

// DocumentConfig mirrors document.Options.
type DocumentConfig struct {
	PageSelector  string `yaml:"page_selector"`
	LineSelector  string `yaml:"line_selector"`
	AmbientID     string `yaml:"ambient_id"`
	SidePanelID   string `yaml:"side_panel_id"`
	BlocksPerPage int    `yaml:"blocks_per_page"`
}

// Options converts the document section into document.Options.
func (d DocumentConfig) Options() document.Options {
	return document.Options{
		PageSelector:  d.PageSelector,
		LineSelector:  d.LineSelector,
		AmbientID:     d.AmbientID,
		SidePanelID:   d.SidePanelID,
		BlocksPerPage: d.BlocksPerPage,
	}
}

// Engine names accepted by the factory.
const (
	EngineAuto   = "auto"
	EngineEspeak = "espeak"
	EngineMock   = "mock"
)

// ValidEngines lists the engine names that can be configured.
func ValidEngines() []string {
	return []string{EngineAuto, EngineEspeak, EngineMock}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := document.DefaultOptions()
	return Config{
		Engine: EngineAuto,
		Mock: MockConfig{
			StartDelay:     100 * time.Millisecond,
			WordsPerMinute: 150,
		},
		Document: DocumentConfig{
			PageSelector:  opts.PageSelector,
			LineSelector:  opts.LineSelector,
			AmbientID:     opts.AmbientID,
			SidePanelID:   opts.SidePanelID,
			BlocksPerPage: opts.BlocksPerPage,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	valid := false
	for _, e := range ValidEngines() {
		if c.Engine == e {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: engine %q (valid: %s)",
			ErrInvalidConfig, c.Engine, strings.Join(ValidEngines(), ", "))
	}

	if c.Mock.WordsPerMinute < 1 || c.Mock.WordsPerMinute > 1000 {
		return fmt.Errorf("%w: mock words_per_minute must be between 1 and 1000, got %d",
			ErrInvalidConfig, c.Mock.WordsPerMinute)
	}
	if c.Mock.StartDelay < 0 {
		return fmt.Errorf("%w: mock start_delay must not be negative", ErrInvalidConfig)
	}

	if c.Document.BlocksPerPage < 1 {
		return fmt.Errorf("%w: document blocks_per_page must be at least 1, got %d",
			ErrInvalidConfig, c.Document.BlocksPerPage)
	}
	if c.Document.AmbientID != "" && c.Document.AmbientID == c.Document.SidePanelID {
		return fmt.Errorf("%w: document ambient_id and side_panel_id must differ", ErrInvalidConfig)
	}

	return nil
}
