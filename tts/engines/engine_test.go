package engines

import (
	"errors"
	"testing"

	"github.com/dgnsrekt/readaloud/tts"
)

func TestNew(t *testing.T) {
	missing := tts.EspeakConfig{Binary: "readaloud-no-such-espeak"}

	tests := []struct {
		name          string
		engine        string
		espeak        tts.EspeakConfig
		wantName      string
		wantAvailable bool
		wantErr       error
	}{
		{"auto without espeak is unavailable", tts.EngineAuto, missing, tts.EngineEspeak, false, nil},
		{"empty means auto", "", missing, tts.EngineEspeak, false, nil},
		{"mock", tts.EngineMock, tts.EspeakConfig{}, tts.EngineMock, true, nil},
		{"espeak", tts.EngineEspeak, missing, tts.EngineEspeak, false, nil},
		{"unknown", "festival", tts.EspeakConfig{}, "", false, tts.ErrUnknownEngine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tts.DefaultConfig()
			cfg.Engine = tt.engine
			cfg.Espeak = tt.espeak

			engine, err := New(cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if engine.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", engine.Name(), tt.wantName)
			}
			if engine.Available() != tt.wantAvailable {
				t.Errorf("Available() = %v, want %v", engine.Available(), tt.wantAvailable)
			}
		})
	}
}

// With no speech engine on PATH the default configuration must not pretend
// to speak.
func TestNewDefaultWithoutEspeak(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	engine, err := New(tts.DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if engine.Available() {
		t.Errorf("%s engine Available() = true with an empty PATH", engine.Name())
	}
}
