// Package output commits finished transcripts to their destination.
//
// The default destination is the system clipboard. A configured clipboard
// command overrides that and receives the transcript on stdin, which covers
// Wayland and tmux setups where the clipboard library cannot reach a display.
// An optional paste keystroke fires after the commit; its failure never fails
// the commit.
package output

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"

	"github.com/voxclip/voxclip/internal/config"
	"github.com/voxclip/voxclip/internal/transcript"
)

// commandTimeout bounds one clipboard command invocation.
const commandTimeout = 2 * time.Second

// Committer writes transcripts to the clipboard and optionally pastes them.
type Committer struct {
	clipboardArgv []string
	paste         bool
	format        transcript.Options
	logger        *slog.Logger

	writeAll   func(string) error
	runCommand func(ctx context.Context, argv []string, stdin string) error
	sendPaste  func() error
}

// NewCommitter builds a committer from the resolved configuration.
func NewCommitter(cfg config.Config, logger *slog.Logger) *Committer {
	return &Committer{
		clipboardArgv: cfg.Clipboard.Argv,
		paste:         cfg.Paste.Enable,
		format: transcript.Options{
			CapitalizeSentences: cfg.Transcript.CapitalizeSentences,
			TrailingSpace:       cfg.Transcript.TrailingSpace,
		},
		logger:     logger,
		writeAll:   clipboard.WriteAll,
		runCommand: runCommandWithInput,
		sendPaste:  sendPasteKeystroke,
	}
}

// Commit normalizes the transcript and writes it to the configured
// destination. Empty text commits nothing and is not an error.
func (c *Committer) Commit(ctx context.Context, text string) error {
	text = transcript.Normalize(text, c.format)
	if text == "" {
		return nil
	}

	if len(c.clipboardArgv) > 0 {
		if err := c.runCommand(ctx, c.clipboardArgv, text); err != nil {
			return fmt.Errorf("clipboard command: %w", err)
		}
	} else {
		if err := c.writeAll(text); err != nil {
			return fmt.Errorf("write clipboard: %w", err)
		}
	}

	if c.logger != nil {
		c.logger.Info("transcript committed", "chars", len(text))
	}

	if c.paste {
		if err := c.sendPaste(); err != nil && c.logger != nil {
			c.logger.Warn("paste keystroke failed", "error", err.Error())
		}
	}
	return nil
}

// runCommandWithInput runs argv with stdin fed from input.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = bytes.NewBufferString(input)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("%s: %w: %s", argv[0], err, stderr.String())
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}

// sendPasteKeystroke emits Ctrl+V through the OS keyboard event layer.
func sendPasteKeystroke() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_V)
	kb.HasCTRL(true)
	return kb.Launching()
}
