package media

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrSegmentExtraction indicates a per-segment ffmpeg extraction failed.
// The whole segmentation step is abandoned; callers fall back to treating
// the original asset as a single segment.
var ErrSegmentExtraction = errors.New("segment extraction failed")

// Segmenter splits an asset into bounded-duration segments.
type Segmenter struct {
	Run               Runner
	LookPath          func(string) (string, error)
	MaxSegmentSeconds float64
}

// NewSegmenter returns a segmenter wired to the real ffmpeg binary.
func NewSegmenter(maxSegmentSeconds float64) Segmenter {
	return Segmenter{
		Run:               runCommand,
		LookPath:          exec.LookPath,
		MaxSegmentSeconds: maxSegmentSeconds,
	}
}

// Available reports whether the splitting tool can be invoked at all.
func (s Segmenter) Available() bool {
	_, err := s.LookPath("ffmpeg")
	return err == nil
}

// Passthrough wraps the original asset as the single segment of a run,
// used when splitting is not possible or not worthwhile.
func Passthrough(asset Asset) []Segment {
	return []Segment{{Asset: asset, Index: 0, Start: 0}}
}

// PlanOffsets returns the segment start offsets for a source of the given
// duration: ceil(duration/max) segments starting at 0, max, 2*max, ...
func PlanOffsets(duration, maxSegmentSeconds float64) []float64 {
	if duration <= 0 || maxSegmentSeconds <= 0 {
		return []float64{0}
	}
	count := int(math.Ceil(duration / maxSegmentSeconds))
	if count < 1 {
		count = 1
	}
	offsets := make([]float64, count)
	for i := range offsets {
		offsets[i] = float64(i) * maxSegmentSeconds
	}
	return offsets
}

// Split extracts the planned segments into dir. Each segment is extracted
// independently with stream copy into the source container; the final
// segment may be shorter than the nominal length. Any extraction failure
// aborts the whole step with ErrSegmentExtraction.
func (s Segmenter) Split(ctx context.Context, asset Asset, duration float64, dir string) ([]Segment, error) {
	offsets := PlanOffsets(duration, s.MaxSegmentSeconds)
	if len(offsets) <= 1 {
		return Passthrough(asset), nil
	}

	ext := filepath.Ext(asset.Path)
	base := strings.TrimSuffix(filepath.Base(asset.Path), ext)

	segments := make([]Segment, 0, len(offsets))
	for i, start := range offsets {
		out := filepath.Join(dir, fmt.Sprintf("%s_seg_%03d%s", base, i, ext))

		_, err := s.Run(ctx, "ffmpeg",
			"-v", "error",
			"-ss", formatSeconds(start),
			"-t", formatSeconds(s.MaxSegmentSeconds),
			"-i", asset.Path,
			"-c", "copy",
			"-y",
			out,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d at %ss: %v", ErrSegmentExtraction, i, formatSeconds(start), err)
		}

		segments = append(segments, Segment{Asset: Asset{Path: out}, Index: i, Start: start})
	}

	return segments, nil
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
