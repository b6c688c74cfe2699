package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// ErrProbe indicates the asset duration could not be determined. Callers
// treat the asset as unsegmentable and fall back to single-shot
// transcription.
var ErrProbe = errors.New("duration probe failed")

// Prober determines asset duration through ffprobe.
type Prober struct {
	Run      Runner
	LookPath func(string) (string, error)
}

// NewProber returns a prober wired to the real ffprobe binary.
func NewProber() Prober {
	return Prober{Run: runCommand, LookPath: exec.LookPath}
}

// probeOutput mirrors the ffprobe JSON structure.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns the asset duration in seconds, or ErrProbe when the tool
// is missing, the asset is malformed, or the reported value is not a
// positive number.
func (p Prober) Duration(ctx context.Context, asset Asset) (float64, error) {
	if _, err := p.LookPath("ffprobe"); err != nil {
		return 0, fmt.Errorf("%w: ffprobe not found: %v", ErrProbe, err)
	}

	out, err := p.Run(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		asset.Path,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbe, err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe output: %v", ErrProbe, err)
	}

	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric duration %q", ErrProbe, probe.Format.Duration)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%w: non-positive duration %v", ErrProbe, duration)
	}

	return duration, nil
}
