// Package session coordinates one dictation lifecycle: record, stop,
// transcribe, commit.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/voxclip/voxclip/internal/ipc"
	"github.com/voxclip/voxclip/internal/notify"
)

// State is the coarse lifecycle phase exposed over the control socket.
type State string

const (
	StateIdle         State = "idle"
	StateRecording    State = "recording"
	StateTranscribing State = "transcribing"
)

// ErrEmptyTranscript indicates stop completed but no usable speech came back.
var ErrEmptyTranscript = errors.New("no speech recognized; check microphone input or mute state")

type action int

const (
	actionStop action = iota + 1
	actionCancel
)

// Transcriber abstracts the capture-and-transcribe flow the session drives.
type Transcriber interface {
	Start(context.Context) error
	StopAndTranscribe(context.Context) (string, error)
	Cancel(context.Context) error
}

// Committer dispatches the finished transcript.
type Committer interface {
	Commit(context.Context, string) error
}

// CommitFunc adapts a function to Committer.
type CommitFunc func(context.Context, string) error

func (f CommitFunc) Commit(ctx context.Context, transcript string) error {
	return f(ctx, transcript)
}

// Result is the outcome of one Run invocation.
type Result struct {
	Transcript string
	Cancelled  bool
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Controller owns the session lifecycle and serves control requests while a
// run is active.
type Controller struct {
	logger     *slog.Logger
	transcribe Transcriber
	commit     Committer
	notifier   notify.Notifier

	mu    sync.RWMutex
	state State

	actions chan action
}

// NewController wires a session controller. Nil committer and notifier fall
// back to no-ops.
func NewController(
	logger *slog.Logger,
	transcriber Transcriber,
	committer Committer,
	notifier notify.Notifier,
) *Controller {
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Controller{
		logger:     logger,
		transcribe: transcriber,
		commit:     committer,
		notifier:   notifier,
		state:      StateIdle,
		actions:    make(chan action, 1),
	}
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Run executes one lifecycle from recording start until stop, cancel, or
// failure. It blocks until the session finishes.
func (c *Controller) Run(ctx context.Context) Result {
	result := Result{StartedAt: time.Now()}
	finish := func(r Result) Result {
		c.setState(StateIdle)
		r.FinishedAt = time.Now()
		return r
	}

	c.setState(StateRecording)
	c.notifier.Progress(ctx, "recording")

	if err := c.transcribe.Start(ctx); err != nil {
		c.notifier.Error(ctx, "unable to start recording")
		result.Err = err
		return finish(result)
	}

	select {
	case <-ctx.Done():
		c.transcribe.Cancel(context.Background())
		c.notifier.Warn(context.Background(), "recording cancelled")
		result.Cancelled = true
		result.Err = ctx.Err()
		return finish(result)

	case a := <-c.actions:
		if a == actionCancel {
			if err := c.transcribe.Cancel(ctx); err != nil && c.logger != nil {
				c.logger.Warn("cancel failed", "error", err.Error())
			}
			c.notifier.Progress(ctx, "recording discarded")
			result.Cancelled = true
			return finish(result)
		}

		c.setState(StateTranscribing)

		transcript, err := c.transcribe.StopAndTranscribe(ctx)
		if err != nil {
			c.notifier.Error(ctx, "transcription failed")
			result.Err = err
			return finish(result)
		}
		if strings.TrimSpace(transcript) == "" {
			c.notifier.Error(ctx, "no speech detected")
			result.Err = ErrEmptyTranscript
			return finish(result)
		}

		if err := c.commit.Commit(ctx, transcript); err != nil {
			c.notifier.Error(ctx, "unable to deliver transcript")
			result.Transcript = transcript
			result.Err = err
			return finish(result)
		}

		c.notifier.Progress(ctx, "copied to clipboard")
		result.Transcript = transcript
		return finish(result)
	}
}

// Handle serves control requests for the active session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: string(c.State())}
	case ipc.CommandToggle, ipc.CommandStop:
		return c.request(actionStop, "stop")
	case ipc.CommandCancel:
		return c.request(actionCancel, "cancel")
	default:
		return ipc.Response{State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

// request enqueues a lifecycle action when the current phase permits it.
func (c *Controller) request(a action, verb string) ipc.Response {
	state := c.State()
	if state == StateTranscribing {
		return ipc.Response{State: string(state), Error: fmt.Sprintf("cannot %s while transcribing", verb)}
	}
	if state != StateRecording {
		return ipc.Response{State: string(state), Error: fmt.Sprintf("cannot %s from state %s", verb, state)}
	}

	select {
	case c.actions <- a:
		return ipc.Response{OK: true, State: string(state), Message: verb + " requested"}
	default:
		return ipc.Response{OK: true, State: string(state), Message: verb + " already requested"}
	}
}
