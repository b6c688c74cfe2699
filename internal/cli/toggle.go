package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxclip/voxclip/internal/ipc"
	"github.com/voxclip/voxclip/internal/output"
	"github.com/voxclip/voxclip/internal/pipeline"
	"github.com/voxclip/voxclip/internal/record"
	"github.com/voxclip/voxclip/internal/session"
)

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Start dictation, or stop it when already recording",
		Long: `With no session running, toggle starts recording and blocks until the
session finishes. Run from a second terminal or a hotkey, toggle stops the
active recording and triggers transcription.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runToggle(cmd.Context())
		},
	}
}

func (a *app) runToggle(ctx context.Context) error {
	// A running session means this invocation is the stop half of the toggle.
	resp, handled, err := tryForward(ctx, ipc.CommandToggle)
	if handled {
		if err != nil {
			return err
		}
		if resp.Message != "" {
			fmt.Fprintln(a.stdout, resp.Message)
		}
		return nil
	}

	if err := a.setup(); err != nil {
		return err
	}
	defer a.teardown()

	socketPath := ipc.SocketPath()
	listener, err := ipc.Acquire(ctx, socketPath, forwardTimeout)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			// Lost the race to another invocation; forward to the winner.
			resp, _, forwardErr := tryForward(ctx, ipc.CommandToggle)
			if forwardErr != nil {
				return forwardErr
			}
			if resp.Message != "" {
				fmt.Fprintln(a.stdout, resp.Message)
			}
			return nil
		}
		return err
	}
	defer func() {
		listener.Close()
		os.Remove(socketPath)
	}()

	notifier := a.notifier()
	recorder := record.New(a.loaded.Config.Recorder.Argv, a.logger)
	dictation := pipeline.NewDictation(recorder, a.buildRunner(notifier), a.logger)
	committer := output.NewCommitter(a.loaded.Config, a.logger)
	controller := session.NewController(a.logger, dictation, committer, notifier)

	serveCtx, cancelServe := context.WithCancel(ctx)
	defer cancelServe()
	serveErr := make(chan error, 1)
	go func() { serveErr <- ipc.Serve(serveCtx, listener, controller) }()

	result := controller.Run(ctx)
	cancelServe()
	if err := <-serveErr; err != nil {
		return fmt.Errorf("control server: %w", err)
	}

	a.logSessionResult(result)

	if result.Cancelled {
		fmt.Fprintln(a.stdout, "cancelled")
		return nil
	}
	if result.Err != nil {
		return result.Err
	}
	if text := strings.TrimSpace(result.Transcript); text != "" {
		fmt.Fprintln(a.stdout, text)
	}
	return nil
}

func (a *app) logSessionResult(result session.Result) {
	if a.logger == nil {
		return
	}
	fields := []any{
		"cancelled", result.Cancelled,
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"transcript_length", len(result.Transcript),
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
	}
	if result.Err != nil {
		a.logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	a.logger.Info("session complete", fields...)
}
