// Package engines selects a speech engine from configuration.
package engines

import (
	"fmt"

	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/engines/espeak"
	"github.com/dgnsrekt/readaloud/tts/engines/mock"
)

// New returns the engine named by cfg.Engine. "auto" is espeak, the only
// engine that produces sound; the simulated mock engine must be asked for by
// name. An engine that is not installed is returned as is so callers can
// check Available and show narration as unsupported.
func New(cfg tts.Config) (tts.SpeechEngine, error) {
	switch cfg.Engine {
	case tts.EngineAuto, "", tts.EngineEspeak:
		return espeak.New(cfg.Espeak), nil
	case tts.EngineMock:
		return mock.NewAuto(cfg.Mock), nil
	default:
		return nil, fmt.Errorf("%w: %q", tts.ErrUnknownEngine, cfg.Engine)
	}
}
