// Package notify delivers fire-and-forget progress and warning messages.
//
// Notifications must never block or fail the pipeline: desktop dispatch runs
// asynchronously and failures are only logged.
package notify

import (
	"context"
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appName = "voxclip"

// Notifier is the pipeline-facing notification contract.
type Notifier interface {
	Progress(ctx context.Context, text string)
	Warn(ctx context.Context, text string)
	Error(ctx context.Context, text string)
}

// Noop swallows all notifications; used in tests and headless wiring.
type Noop struct{}

func (Noop) Progress(context.Context, string) {}
func (Noop) Warn(context.Context, string)     {}
func (Noop) Error(context.Context, string)    {}

// Desktop routes messages to desktop notifications and the runtime log.
type Desktop struct {
	enabled bool
	logger  *slog.Logger
}

// NewDesktop creates a desktop notifier. When disabled it still logs.
func NewDesktop(enabled bool, logger *slog.Logger) *Desktop {
	return &Desktop{enabled: enabled, logger: logger}
}

// Progress reports a state advance.
func (d *Desktop) Progress(_ context.Context, text string) {
	if d.logger != nil {
		d.logger.Info("progress", "message", text)
	}
	d.dispatch(text, false)
}

// Warn reports a recoverable degradation (reduced accuracy, skipped chunk).
func (d *Desktop) Warn(_ context.Context, text string) {
	if d.logger != nil {
		d.logger.Warn("warning", "message", text)
	}
	d.dispatch(text, false)
}

// Error reports a fatal run failure.
func (d *Desktop) Error(_ context.Context, text string) {
	if d.logger != nil {
		d.logger.Error("failure", "message", text)
	}
	d.dispatch(text, true)
}

// dispatch emits the desktop notification without waiting for completion.
func (d *Desktop) dispatch(text string, alert bool) {
	if !d.enabled {
		return
	}
	logger := d.logger
	go func() {
		var err error
		if alert {
			err = beeep.Alert(appName, text, "")
		} else {
			err = beeep.Notify(appName, text, "")
		}
		if err != nil && logger != nil {
			logger.Debug("desktop notification failed", "error", err.Error())
		}
	}()
}
