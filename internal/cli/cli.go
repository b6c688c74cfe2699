// Package cli defines the voxclip command surface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/voxclip/voxclip/internal/asr"
	"github.com/voxclip/voxclip/internal/config"
	"github.com/voxclip/voxclip/internal/logging"
	"github.com/voxclip/voxclip/internal/media"
	"github.com/voxclip/voxclip/internal/notify"
	"github.com/voxclip/voxclip/internal/pipeline"
	"github.com/voxclip/voxclip/internal/version"
)

// forwardTimeout bounds one control-socket exchange with a running session.
const forwardTimeout = 250 * time.Millisecond

type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string

	loaded config.Loaded
	logRun logging.Runtime
	logger *slog.Logger
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if code, ok := err.(exitError); ok {
			return int(code)
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// exitError carries a non-zero exit code through cobra without a message,
// for commands that already printed their own output.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit code %d", int(e)) }

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "voxclip",
		Short: "Dictate into your clipboard through a speech-to-text API",
		Long: `voxclip records microphone audio, transcribes it through a
speech-to-text API, and copies the result to the clipboard. Long recordings
are split into chunks and stitched back together with overlap removal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file")

	root.AddCommand(
		newToggleCmd(a),
		newStopCmd(a),
		newCancelCmd(a),
		newStatusCmd(a),
		newTranscribeCmd(a),
		newDoctorCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup loads configuration and logging; commands that talk to the pipeline
// call it from their RunE.
func (a *app) setup() error {
	loaded, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	for _, w := range loaded.Warnings {
		fmt.Fprintf(a.stderr, "warning: %s\n", w.Message)
	}

	logRun, err := logging.New(loaded.Config.Log.Level)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	a.loaded = loaded
	a.logRun = logRun
	a.logger = logRun.Logger
	return nil
}

func (a *app) teardown() {
	a.logRun.Close()
}

func (a *app) notifier() notify.Notifier {
	return notify.NewDesktop(a.loaded.Config.Notify.Enable, a.logger)
}

// buildRunner assembles the transcription pipeline from the loaded config.
func (a *app) buildRunner(notifier notify.Notifier) *pipeline.Runner {
	cfg := a.loaded.Config
	client := asr.NewClient(
		cfg.API.Endpoint,
		cfg.API.Model,
		cfg.API.Key,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
	)
	return pipeline.NewRunner(
		pipeline.Options{
			MaxSegmentSeconds: float64(cfg.MaxSegmentSeconds),
			Language:          cfg.Language,
		},
		media.NewProber(),
		media.NewSegmenter(float64(cfg.MaxSegmentSeconds)),
		client,
		asr.DefaultTemplates(),
		notifier,
		a.logger,
	)
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(a.stdout, version.String())
		},
	}
}
