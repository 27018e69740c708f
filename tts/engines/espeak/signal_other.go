//go:build !unix

package espeak

import (
	"os"

	"github.com/dgnsrekt/readaloud/tts"
)

func suspend(*os.Process) error { return tts.ErrPauseUnsupported }

func resume(*os.Process) error { return tts.ErrPauseUnsupported }
