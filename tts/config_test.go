package tts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestDefaultConfig tests that default configuration is valid.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	if cfg.Engine != EngineAuto {
		t.Errorf("Default engine should be auto, got %s", cfg.Engine)
	}

	opts := cfg.Document.Options()
	if opts.PageSelector != ".page" || opts.LineSelector != ".text-line" {
		t.Errorf("Default selectors = %q, %q", opts.PageSelector, opts.LineSelector)
	}
	if opts.AmbientID != "read-aloud-icon" || opts.SidePanelID != "sidebar" {
		t.Errorf("Default ids = %q, %q", opts.AmbientID, opts.SidePanelID)
	}
}

// TestConfigValidation tests configuration validation.
func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "espeak engine",
			modify:  func(c *Config) { c.Engine = EngineEspeak },
			wantErr: false,
		},
		{
			name:    "invalid engine",
			modify:  func(c *Config) { c.Engine = "invalid" },
			wantErr: true,
		},
		{
			name:    "words per minute too low",
			modify:  func(c *Config) { c.Mock.WordsPerMinute = 0 },
			wantErr: true,
		},
		{
			name:    "words per minute too high",
			modify:  func(c *Config) { c.Mock.WordsPerMinute = 1001 },
			wantErr: true,
		},
		{
			name:    "negative start delay",
			modify:  func(c *Config) { c.Mock.StartDelay = -time.Second },
			wantErr: true,
		},
		{
			name:    "zero blocks per page",
			modify:  func(c *Config) { c.Document.BlocksPerPage = 0 },
			wantErr: true,
		},
		{
			name: "ambient and side panel share an id",
			modify: func(c *Config) {
				c.Document.AmbientID = "chrome"
				c.Document.SidePanelID = "chrome"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}

func withViper(t *testing.T, settings map[string]any) {
	t.Helper()
	viper.Reset()
	for k, v := range settings {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

// TestLoadConfigFromViper tests loading settings from Viper.
func TestLoadConfigFromViper(t *testing.T) {
	withViper(t, map[string]any{
		"engine":                   "mock",
		"espeak.binary":            "/usr/local/bin/espeak-ng",
		"mock.start_delay":         "250ms",
		"mock.words_per_minute":    200,
		"document.page_selector":   "section.sheet",
		"document.blocks_per_page": 3,
	})

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}

	if cfg.Engine != EngineMock {
		t.Errorf("Engine = %v, want mock", cfg.Engine)
	}
	if cfg.Espeak.Binary != "/usr/local/bin/espeak-ng" {
		t.Errorf("Espeak.Binary = %v", cfg.Espeak.Binary)
	}
	if cfg.Mock.StartDelay != 250*time.Millisecond {
		t.Errorf("Mock.StartDelay = %v, want 250ms", cfg.Mock.StartDelay)
	}
	if cfg.Mock.WordsPerMinute != 200 {
		t.Errorf("Mock.WordsPerMinute = %v, want 200", cfg.Mock.WordsPerMinute)
	}
	if cfg.Document.PageSelector != "section.sheet" {
		t.Errorf("Document.PageSelector = %v", cfg.Document.PageSelector)
	}
	if cfg.Document.LineSelector != ".text-line" {
		t.Errorf("unset Document.LineSelector = %v, want default", cfg.Document.LineSelector)
	}
	if cfg.Document.BlocksPerPage != 3 {
		t.Errorf("Document.BlocksPerPage = %v, want 3", cfg.Document.BlocksPerPage)
	}
}

// TestLoadConfigFromViperInvalid tests that loaded values are validated.
func TestLoadConfigFromViperInvalid(t *testing.T) {
	withViper(t, map[string]any{"engine": "festival"})

	if _, err := LoadConfigFromViper(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfigFromViper() error = %v, want ErrInvalidConfig", err)
	}
}

// TestLoadConfigFromEnvironment tests that READALOUD_ variables reach the
// configuration through Viper.
func TestLoadConfigFromEnvironment(t *testing.T) {
	withViper(t, nil)
	viper.SetEnvPrefix("readaloud")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	t.Setenv("READALOUD_ENGINE", "mock")
	t.Setenv("READALOUD_MOCK_WORDS_PER_MINUTE", "300")

	cfg, err := LoadConfigFromViper()
	if err != nil {
		t.Fatalf("LoadConfigFromViper() error = %v", err)
	}
	if cfg.Engine != EngineMock {
		t.Errorf("Engine = %q, want %q", cfg.Engine, EngineMock)
	}
	if cfg.Mock.WordsPerMinute != 300 {
		t.Errorf("Mock.WordsPerMinute = %d, want 300", cfg.Mock.WordsPerMinute)
	}
}
