package pipeline

import (
	"context"
	"log/slog"

	"github.com/voxclip/voxclip/internal/media"
)

// Recorder captures microphone audio into a file-backed asset.
type Recorder interface {
	Start() error
	Stop() (media.Asset, error)
	Cancel() error
}

// Dictation couples a recorder with a pipeline runner into the start/stop
// surface the session controller drives.
type Dictation struct {
	recorder Recorder
	runner   *Runner
	logger   *slog.Logger
}

// NewDictation wires a dictation flow from its recorder and runner.
func NewDictation(recorder Recorder, runner *Runner, logger *slog.Logger) *Dictation {
	return &Dictation{recorder: recorder, runner: runner, logger: logger}
}

// Start begins audio capture.
func (d *Dictation) Start(context.Context) error {
	return d.recorder.Start()
}

// StopAndTranscribe ends capture and runs the captured asset through the
// pipeline, which takes ownership of the file.
func (d *Dictation) StopAndTranscribe(ctx context.Context) (string, error) {
	asset, err := d.recorder.Stop()
	if err != nil {
		return "", err
	}

	result, err := d.runner.Run(ctx, asset)
	if err != nil {
		return "", err
	}

	if d.logger != nil {
		d.logger.Info("dictation transcribed",
			"segments", result.Segments,
			"discarded", result.Discarded,
			"single_shot", result.SingleShot,
		)
	}
	return result.Text, nil
}

// Cancel aborts capture and discards any partial audio.
func (d *Dictation) Cancel(context.Context) error {
	return d.recorder.Cancel()
}
