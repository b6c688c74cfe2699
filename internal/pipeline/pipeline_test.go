package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxclip/voxclip/internal/asr"
	"github.com/voxclip/voxclip/internal/fsm"
	"github.com/voxclip/voxclip/internal/media"
	"github.com/voxclip/voxclip/internal/stitch"
)

type fakeProber struct {
	duration float64
	err      error
	calls    int
}

func (f *fakeProber) Duration(context.Context, media.Asset) (float64, error) {
	f.calls++
	return f.duration, f.err
}

type fakeSegmenter struct {
	available  bool
	count      int
	err        error
	splitCalls int
	dir        string
}

func (f *fakeSegmenter) Available() bool { return f.available }

func (f *fakeSegmenter) Split(_ context.Context, asset media.Asset, _ float64, dir string) ([]media.Segment, error) {
	f.splitCalls++
	f.dir = dir
	if f.err != nil {
		return nil, f.err
	}
	segments := make([]media.Segment, 0, f.count)
	for i := 0; i < f.count; i++ {
		path := filepath.Join(dir, fmt.Sprintf("seg_%03d.opus", i))
		if err := os.WriteFile(path, []byte("segment"), 0o600); err != nil {
			return nil, err
		}
		segments = append(segments, media.Segment{Asset: media.Asset{Path: path}, Index: i, Start: float64(i) * 60})
	}
	return segments, nil
}

type reply struct {
	text string
	err  error
}

type fakeTranscriber struct {
	replies  []reply
	requests []asr.Request
}

func (f *fakeTranscriber) Transcribe(_ context.Context, req asr.Request) (string, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	if i >= len(f.replies) {
		return "", errors.New("unexpected transcription call")
	}
	return f.replies[i].text, f.replies[i].err
}

type recordingNotifier struct {
	progress []string
	warnings []string
	failures []string
}

func (n *recordingNotifier) Progress(_ context.Context, text string) {
	n.progress = append(n.progress, text)
}

func (n *recordingNotifier) Warn(_ context.Context, text string) {
	n.warnings = append(n.warnings, text)
}

func (n *recordingNotifier) Error(_ context.Context, text string) {
	n.failures = append(n.failures, text)
}

func writeAsset(t *testing.T) media.Asset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recording.opus")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o600))
	return media.Asset{Path: path}
}

func newTestRunner(t *testing.T, prober *fakeProber, seg *fakeSegmenter, tr *fakeTranscriber, n *recordingNotifier) *Runner {
	t.Helper()
	return NewRunner(
		Options{MaxSegmentSeconds: 60, Language: "auto", TempRoot: t.TempDir()},
		prober, seg, tr, nil, n, nil,
	)
}

func TestRunShortRecordingSingleShot(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 30}
	seg := &fakeSegmenter{available: true}
	tr := &fakeTranscriber{replies: []reply{{text: "  hello world  "}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "hello world", result.Text)
	require.True(t, result.SingleShot)
	require.Equal(t, fsm.StateDone, result.State)
	require.Equal(t, 1, result.Segments)

	require.Len(t, tr.requests, 1)
	require.Equal(t, asset.Path, tr.requests[0].AudioPath)
	require.Empty(t, tr.requests[0].Prompt)
	require.Empty(t, tr.requests[0].Language)
	require.Zero(t, seg.splitCalls)
	require.Empty(t, notifier.warnings)

	require.NoFileExists(t, asset.Path)
}

func TestRunLongRecordingSegmentsInOrder(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 125}
	seg := &fakeSegmenter{available: true, count: 3}
	tr := &fakeTranscriber{replies: []reply{
		{text: "We met on Tuesday to plan the release."},
		{text: "The release covers three services and a migration."},
		{text: "Everyone agreed to start on Monday."},
	}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t,
		"We met on Tuesday to plan the release. The release covers three services and a migration. Everyone agreed to start on Monday.",
		result.Text)
	require.False(t, result.SingleShot)
	require.Equal(t, fsm.StateDone, result.State)
	require.Equal(t, 3, result.Segments)
	require.Zero(t, result.Discarded)

	require.Len(t, tr.requests, 3)
	for i, req := range tr.requests {
		require.Contains(t, req.AudioPath, fmt.Sprintf("seg_%03d", i))
	}

	// First chunk gets no prompt; each later chunk is seeded with the
	// instruction plus the tail of what has been accumulated so far.
	require.Empty(t, tr.requests[0].Prompt)
	instruction := asr.DefaultTemplates().Instruction("en")
	require.True(t, strings.HasPrefix(tr.requests[1].Prompt, instruction))
	require.Contains(t, tr.requests[1].Prompt, "plan the release.")
	require.True(t, strings.HasPrefix(tr.requests[2].Prompt, instruction))
	require.Contains(t, tr.requests[2].Prompt, "a migration.")

	require.NoFileExists(t, asset.Path)
	require.NoDirExists(t, seg.dir)
}

func TestRunSplittingToolUnavailableFallsBackToOnePass(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 300}
	seg := &fakeSegmenter{available: false}
	tr := &fakeTranscriber{replies: []reply{{text: "a long recording transcribed whole"}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "a long recording transcribed whole", result.Text)
	require.Equal(t, fsm.StateDone, result.State)
	require.Equal(t, 1, result.Segments)
	require.False(t, result.SingleShot)

	require.Len(t, tr.requests, 1)
	require.Equal(t, asset.Path, tr.requests[0].AudioPath)
	require.Zero(t, seg.splitCalls)

	require.Len(t, notifier.warnings, 1)
	require.Contains(t, notifier.warnings[0], "splitting tool unavailable")
	require.NoFileExists(t, asset.Path)
}

func TestRunSplitFailureFallsBackToOnePass(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 300}
	seg := &fakeSegmenter{available: true, err: media.ErrSegmentExtraction}
	tr := &fakeTranscriber{replies: []reply{{text: "whole recording"}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "whole recording", result.Text)
	require.Equal(t, 1, result.Segments)
	require.Equal(t, 1, seg.splitCalls)
	require.Len(t, notifier.warnings, 1)
	require.Contains(t, notifier.warnings[0], "splitting failed")
}

func TestRunProbeFailureFallsBackToSingleShot(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{err: media.ErrProbe}
	seg := &fakeSegmenter{available: true}
	tr := &fakeTranscriber{replies: []reply{{text: "fallback text"}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "fallback text", result.Text)
	require.True(t, result.SingleShot)
	require.Len(t, notifier.warnings, 1)
	require.Contains(t, notifier.warnings[0], "recording length")
}

func TestRunFailedChunkIsSkippedNotFatal(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 150}
	seg := &fakeSegmenter{available: true, count: 3}
	tr := &fakeTranscriber{replies: []reply{
		{text: "We met at the cafe."},
		{err: asr.ErrTranscription},
		{text: "Then we went home."},
	}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "We met at the cafe. Then we went home.", result.Text)
	require.Equal(t, 1, result.Discarded)
	require.Equal(t, fsm.StateDone, result.State)

	require.Len(t, notifier.warnings, 1)
	require.Contains(t, notifier.warnings[0], "chunk 2/3")

	// The failed chunk must not contribute to the continuation prompt of
	// the chunk after it.
	require.Contains(t, tr.requests[2].Prompt, "the cafe.")
}

func TestRunEchoedPromptChunkIsDiscarded(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 150}
	seg := &fakeSegmenter{available: true, count: 3}
	instruction := asr.DefaultTemplates().Instruction("en")
	tr := &fakeTranscriber{replies: []reply{
		{text: "First part of the dictation."},
		{text: instruction},
		{text: "Second part of the dictation."},
	}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.NoError(t, err)

	require.Equal(t, "First part of the dictation. Second part of the dictation.", result.Text)
	require.Equal(t, 1, result.Discarded)
}

func TestRunAllChunksDiscardedFails(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 150}
	seg := &fakeSegmenter{available: true, count: 3}
	tr := &fakeTranscriber{replies: []reply{
		{err: asr.ErrTranscription},
		{text: "   "},
		{err: asr.ErrTranscription},
	}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, seg, tr, notifier).Run(context.Background(), asset)
	require.ErrorIs(t, err, stitch.ErrEmptyResult)

	require.Equal(t, fsm.StateErrored, result.State)
	require.Equal(t, 3, result.Discarded)
	require.Len(t, notifier.failures, 1)

	require.NoFileExists(t, asset.Path)
	require.NoDirExists(t, seg.dir)
}

func TestRunSingleShotEmptyResponseIsFatal(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 10}
	tr := &fakeTranscriber{replies: []reply{{text: "   "}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, &fakeSegmenter{available: true}, tr, notifier).Run(context.Background(), asset)
	require.ErrorIs(t, err, ErrNoSpeech)
	require.Equal(t, fsm.StateErrored, result.State)
	require.NoFileExists(t, asset.Path)
}

func TestRunSingleShotEchoedInstructionIsFatal(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 10}
	tr := &fakeTranscriber{replies: []reply{{text: asr.DefaultTemplates().Instruction("ko")}}}

	_, err := newTestRunner(t, prober, &fakeSegmenter{available: true}, tr, &recordingNotifier{}).Run(context.Background(), asset)
	require.ErrorIs(t, err, ErrEchoedPrompt)
}

func TestRunSingleShotTransportErrorIsFatal(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 10}
	tr := &fakeTranscriber{replies: []reply{{err: asr.ErrTranscription}}}
	notifier := &recordingNotifier{}

	result, err := newTestRunner(t, prober, &fakeSegmenter{available: true}, tr, notifier).Run(context.Background(), asset)
	require.ErrorIs(t, err, asr.ErrTranscription)
	require.Equal(t, fsm.StateErrored, result.State)
	require.Len(t, notifier.failures, 1)
	require.NoFileExists(t, asset.Path)
}

func TestRunPassesExplicitLanguageHint(t *testing.T) {
	t.Parallel()

	asset := writeAsset(t)
	prober := &fakeProber{duration: 10}
	tr := &fakeTranscriber{replies: []reply{{text: "안녕하세요"}}}

	runner := NewRunner(
		Options{MaxSegmentSeconds: 60, Language: "ko", TempRoot: t.TempDir()},
		prober, &fakeSegmenter{available: true}, tr, nil, nil, nil,
	)
	_, err := runner.Run(context.Background(), asset)
	require.NoError(t, err)

	require.Len(t, tr.requests, 1)
	require.Equal(t, "ko", tr.requests[0].Language)
}
