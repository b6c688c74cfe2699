// Package media owns recorded-audio assets: duration probing via ffprobe,
// bounded-duration segment extraction via ffmpeg, and WAV format inspection.
package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Asset identifies one recorded audio resource on disk. The bytes behind the
// path are stable once an asset is handed to the pipeline.
type Asset struct {
	Path string
}

// Segment is a bounded-duration slice of a source asset. Index order is the
// chronological order and determines both transcription and stitch order.
type Segment struct {
	Asset Asset
	Index int
	Start float64
}

// Runner executes one external command and returns its stdout. Tests inject
// fakes; the default runs the real binary and folds stderr into the error.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, detail)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}
