package ui

import (
	"time"

	"github.com/dgnsrekt/readaloud/tts"
)

// Config contains TUI-specific configuration.
type Config struct {
	EnableMouse bool
	Width       uint // Maximum wrap width, 0 for the terminal width

	// File being read, empty when content comes from stdin
	Path string

	// Window in which a second press on the icon counts as a double click
	DoubleClick time.Duration `env:"READALOUD_DOUBLE_CLICK" envDefault:"400ms"`

	// Narration and document settings
	Narration tts.Config

	// For debugging the UI
	HighPerformancePager bool `env:"READALOUD_HIGH_PERFORMANCE" envDefault:"false"`
}
