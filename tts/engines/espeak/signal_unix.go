//go:build unix

package espeak

import (
	"os"

	"golang.org/x/sys/unix"
)

// suspend pauses the espeak process on Unix systems.
func suspend(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGSTOP)
}

// resume continues the espeak process on Unix systems.
func resume(p *os.Process) error {
	return unix.Kill(p.Pid, unix.SIGCONT)
}
