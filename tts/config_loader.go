package tts

import (
	"fmt"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LoadConfigFromViper loads narration configuration from Viper.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}

	// Espeak settings
	if viper.IsSet("espeak.binary") {
		bin, err := homedir.Expand(viper.GetString("espeak.binary"))
		if err != nil {
			return cfg, fmt.Errorf("unable to expand espeak binary path: %w", err)
		}
		cfg.Espeak.Binary = bin
	}

	// Mock settings
	if viper.IsSet("mock.start_delay") {
		cfg.Mock.StartDelay = viper.GetDuration("mock.start_delay")
	}
	if viper.IsSet("mock.words_per_minute") {
		cfg.Mock.WordsPerMinute = viper.GetInt("mock.words_per_minute")
	}

	// Document settings
	cfg.Document = loadDocumentConfig(cfg.Document)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid narration configuration: %w", err)
	}

	return cfg, nil
}

// loadDocumentConfig overlays Viper document settings onto def.
func loadDocumentConfig(def DocumentConfig) DocumentConfig {
	cfg := def

	if viper.IsSet("document.page_selector") {
		cfg.PageSelector = viper.GetString("document.page_selector")
	}
	if viper.IsSet("document.line_selector") {
		cfg.LineSelector = viper.GetString("document.line_selector")
	}
	if viper.IsSet("document.ambient_id") {
		cfg.AmbientID = viper.GetString("document.ambient_id")
	}
	if viper.IsSet("document.side_panel_id") {
		cfg.SidePanelID = viper.GetString("document.side_panel_id")
	}
	if viper.IsSet("document.blocks_per_page") {
		cfg.BlocksPerPage = viper.GetInt("document.blocks_per_page")
	}

	return cfg
}
