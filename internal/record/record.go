// Package record drives the external audio capture binary.
//
// The recorder command comes from configuration as an argv vector; the
// destination file path is appended as the final argument. Capture stops by
// sending the process an interrupt so tools like ffmpeg and sox can finalize
// their container headers before exiting.
package record

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxclip/voxclip/internal/media"
)

// stopGrace bounds how long Stop waits for the process to finalize the file
// after the interrupt before killing it.
const stopGrace = 5 * time.Second

var (
	// ErrNotConfigured indicates the recorder command is empty.
	ErrNotConfigured = errors.New("recorder command not configured")
	// ErrAlreadyRecording indicates Start was called while a capture is active.
	ErrAlreadyRecording = errors.New("recording already in progress")
	// ErrNotRecording indicates Stop or Cancel was called with no active capture.
	ErrNotRecording = errors.New("no recording in progress")
)

// Recorder manages at most one capture process at a time.
type Recorder struct {
	argv   []string
	logger *slog.Logger

	mu   sync.Mutex
	cmd  *exec.Cmd
	dest string
	done chan error
}

// New builds a recorder around the configured capture argv.
func New(argv []string, logger *slog.Logger) *Recorder {
	return &Recorder{argv: argv, logger: logger}
}

// Start launches the capture process writing to a fresh temp destination.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.argv) == 0 {
		return ErrNotConfigured
	}
	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	dest := filepath.Join(os.TempDir(), "voxclip-rec-"+uuid.NewString()+".wav")
	args := append(append([]string{}, r.argv[1:]...), dest)
	cmd := exec.Command(r.argv[0], args...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start recorder %q: %w", r.argv[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	r.cmd = cmd
	r.dest = dest
	r.done = done
	if r.logger != nil {
		r.logger.Info("recording started", "command", r.argv[0], "dest", dest)
	}
	return nil
}

// Stop interrupts the capture process, waits for it to exit, and returns the
// captured asset. The caller takes ownership of the asset file.
func (r *Recorder) Stop() (media.Asset, error) {
	r.mu.Lock()
	cmd, dest, done := r.cmd, r.dest, r.done
	r.cmd, r.dest, r.done = nil, "", nil
	r.mu.Unlock()

	if cmd == nil {
		return media.Asset{}, ErrNotRecording
	}

	waitErr := r.shutdown(cmd, done)

	info, statErr := os.Stat(dest)
	if statErr != nil || info.Size() == 0 {
		os.Remove(dest)
		if waitErr != nil {
			return media.Asset{}, fmt.Errorf("recorder produced no audio: %w", waitErr)
		}
		return media.Asset{}, errors.New("recorder produced no audio")
	}

	// Capture tools commonly exit non-zero on interrupt; the file existing
	// with content is the success signal that matters.
	if waitErr != nil && r.logger != nil {
		r.logger.Debug("recorder exit after interrupt", "error", waitErr.Error())
	}
	if r.logger != nil {
		r.logger.Info("recording stopped", "dest", dest, "bytes", info.Size())
	}
	return media.Asset{Path: dest}, nil
}

// Cancel terminates the capture process and deletes any partial file.
func (r *Recorder) Cancel() error {
	r.mu.Lock()
	cmd, dest, done := r.cmd, r.dest, r.done
	r.cmd, r.dest, r.done = nil, "", nil
	r.mu.Unlock()

	if cmd == nil {
		return ErrNotRecording
	}

	r.shutdown(cmd, done)
	if err := os.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove cancelled recording: %w", err)
	}
	if r.logger != nil {
		r.logger.Info("recording cancelled")
	}
	return nil
}

// Recording reports whether a capture process is active.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// shutdown interrupts the process and waits up to the grace period before
// escalating to a kill.
func (r *Recorder) shutdown(cmd *exec.Cmd, done chan error) error {
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
	select {
	case err := <-done:
		return err
	case <-time.After(stopGrace):
		cmd.Process.Kill()
		return <-done
	}
}
