// Package espeak speaks through an espeak-ng or espeak subprocess.
package espeak

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/dgnsrekt/readaloud/tts"
)

// Base values espeak uses at rate and pitch 1.0.
const (
	baseWordsPerMinute = 175
	basePitch          = 50
)

var candidates = []string{"espeak-ng", "espeak"}

// Engine implements tts.SpeechEngine with one espeak process per utterance.
type Engine struct {
	binary string // Configured binary; empty means search candidates

	mu   sync.Mutex
	proc *process
}

type process struct {
	id          tts.UtteranceID
	cmd         *exec.Cmd
	paused      bool
	interrupted bool
}

// New creates an espeak engine. An empty binary searches PATH for espeak-ng,
// then espeak.
func New(cfg tts.EspeakConfig) *Engine {
	return &Engine{binary: cfg.Binary}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return tts.EngineEspeak }

// Available reports whether an espeak executable can be found.
func (e *Engine) Available() bool {
	_, err := e.lookPath()
	return err == nil
}

func (e *Engine) lookPath() (string, error) {
	if e.binary != "" {
		return exec.LookPath(e.binary)
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: espeak executable not found in PATH", tts.ErrEngineUnavailable)
}

// Args returns the command line for an utterance. Text is written to stdin.
func Args(u tts.Utterance) []string {
	return []string{
		"-s", strconv.Itoa(int(baseWordsPerMinute * u.Rate)),
		"-p", strconv.Itoa(int(basePitch * u.Pitch)),
		"--stdin",
	}
}

// Speak starts a process for u. Started is reported from the process
// goroutine once the process runs; Ended or Errored follow when it exits.
func (e *Engine) Speak(u tts.Utterance, notify func(tts.Event)) error {
	path, err := e.lookPath()
	if err != nil {
		return err
	}

	cmd := exec.Command(path, Args(u)...) //nolint:gosec
	cmd.Stdin = strings.NewReader(u.Text)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc != nil {
		_ = e.kill(e.proc)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to start %s: %w", path, err)
	}

	p := &process{id: u.ID, cmd: cmd}
	e.proc = p
	go e.wait(p, notify)
	return nil
}

func (e *Engine) wait(p *process, notify func(tts.Event)) {
	notify(tts.Event{Kind: tts.EventStarted, Utterance: p.id})
	err := p.cmd.Wait()

	e.mu.Lock()
	interrupted := p.interrupted
	if e.proc == p {
		e.proc = nil
	}
	e.mu.Unlock()

	switch {
	case interrupted:
		notify(tts.Event{Kind: tts.EventErrored, Utterance: p.id, Err: tts.ErrInterrupted})
	case err != nil:
		notify(tts.Event{Kind: tts.EventErrored, Utterance: p.id, Err: fmt.Errorf("espeak exited: %w", err)})
	default:
		notify(tts.Event{Kind: tts.EventEnded, Utterance: p.id})
	}
}

// Pause stops the running process with SIGSTOP.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil || e.proc.paused {
		return nil
	}
	if err := suspend(e.proc.cmd.Process); err != nil {
		return err
	}
	e.proc.paused = true
	return nil
}

// Resume continues a stopped process with SIGCONT.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil || !e.proc.paused {
		return nil
	}
	if err := resume(e.proc.cmd.Process); err != nil {
		return err
	}
	e.proc.paused = false
	return nil
}

// Cancel kills the running process, if any.
func (e *Engine) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.proc == nil {
		return nil
	}
	err := e.kill(e.proc)
	e.proc = nil
	return err
}

func (e *Engine) kill(p *process) error {
	p.interrupted = true
	if p.paused {
		_ = resume(p.cmd.Process)
		p.paused = false
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
