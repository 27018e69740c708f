package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/readaloud/internal/document"
	"github.com/dgnsrekt/readaloud/tts"
	"github.com/dgnsrekt/readaloud/tts/engines"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	speakPage   int
	speakDryRun bool

	speakCmd = &cobra.Command{
		Use:     "speak FILE",
		Short:   "Read one page of a document aloud without the pager",
		Long:    paragraph(fmt.Sprintf("\n%s a single page of a document and exit when it ends. Interrupting stops the speech engine.", keyword("Read"))),
		Example: paragraph("readaloud speak README.md\nreadaloud speak --page 2 --dry-run notes.html"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := documentPath(args[0])
			if err != nil {
				return err
			}
			cfg, err := tts.LoadConfigFromViper()
			if err != nil {
				return err
			}
			doc, err := document.Load(path, cfg.Document.Options())
			if err != nil {
				return err
			}

			if speakDryRun {
				return speak(cmd.Context(), cmd.OutOrStdout(), nil, doc, speakPage)
			}

			engine, err := engines.New(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return speak(ctx, cmd.OutOrStdout(), engine, doc, speakPage)
		},
	}
)

func init() {
	speakCmd.Flags().IntVarP(&speakPage, "page", "p", 1, "page to read, starting at 1")
	speakCmd.Flags().BoolVar(&speakDryRun, "dry-run", false, "print the text that would be read and exit")
}

// pageText extracts the full-page text of the n-th page. Documents without
// page containers have a single page, their root.
func pageText(doc *document.Document, n int) (string, error) {
	pages := doc.Pages()
	scope := doc.Root()
	if len(pages) > 0 {
		if n < 1 || n > len(pages) {
			return "", fmt.Errorf("%w: %d of %d", tts.ErrNoPage, n, len(pages))
		}
		scope = pages[n-1]
	} else if n != 1 {
		return "", fmt.Errorf("%w: %d of 1", tts.ErrNoPage, n)
	}
	return tts.NewExtractor(doc.Options()).Extract(scope, tts.ModeFullPage), nil
}

// speak reads page n of doc on engine until it ends or ctx is done. A nil
// engine prints the text instead.
func speak(ctx context.Context, w io.Writer, engine tts.SpeechEngine, doc *document.Document, n int) error {
	text, err := pageText(doc, n)
	if err != nil {
		return err
	}
	words := len(strings.Fields(text))

	if engine == nil {
		fmt.Fprintln(w, text)
		fmt.Fprintf(w, "\n%s words\n", humanize.Comma(int64(words)))
		return nil
	}

	events := make(chan tts.Event, 8)
	ctrl, err := tts.NewController(engine, doc, tts.WithDispatcher(func(ev tts.Event) {
		events <- ev
	}))
	if err != nil {
		return fmt.Errorf("%s: %w", engine.Name(), err)
	}

	log.Info("reading page", "page", n, "words", humanize.Comma(int64(words)), "engine", engine.Name())
	ctrl.Start(text, tts.ScopeFullPage)
	if ctrl.State().IsIdle() {
		return nil
	}

	var failure error
	for {
		select {
		case ev := <-events:
			if ev.Kind == tts.EventErrored && !tts.IsInterruption(ev.Err) && ev.Utterance == ctrl.State().Active {
				failure = ev.Err
			}
			ctrl.HandleEvent(ev)
			if ctrl.State().IsIdle() {
				if failure != nil {
					return fmt.Errorf("narration failed: %w", failure)
				}
				return nil
			}
		case <-ctx.Done():
			ctrl.Stop()
			return nil
		}
	}
}
