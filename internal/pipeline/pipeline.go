// Package pipeline orchestrates one recorded asset through duration probing,
// segmentation, sequential transcription, and stitching.
//
// Chunks are transcribed strictly in order, never concurrently: every chunk
// after the first seeds its continuation prompt from the tail of the text
// accumulated so far, and parallelism would break that ordering guarantee.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/voxclip/voxclip/internal/asr"
	"github.com/voxclip/voxclip/internal/fsm"
	"github.com/voxclip/voxclip/internal/media"
	"github.com/voxclip/voxclip/internal/notify"
	"github.com/voxclip/voxclip/internal/stitch"
)

var (
	// ErrNoSpeech indicates a single-shot transcription returned nothing
	// usable.
	ErrNoSpeech = errors.New("no speech detected")
	// ErrEchoedPrompt indicates the service returned the instruction prompt
	// instead of a transcription; treated as a special case of no speech.
	ErrEchoedPrompt = errors.New("service echoed the prompt instead of transcribing")
)

// tailContextRunes bounds the trailing text embedded in continuation prompts.
const tailContextRunes = 150

// Prober determines the duration of a recorded asset.
type Prober interface {
	Duration(ctx context.Context, asset media.Asset) (float64, error)
}

// Segmenter splits an asset into bounded-duration segments.
type Segmenter interface {
	Available() bool
	Split(ctx context.Context, asset media.Asset, duration float64, dir string) ([]media.Segment, error)
}

// Transcriber performs one transcription upload.
type Transcriber interface {
	Transcribe(ctx context.Context, req asr.Request) (string, error)
}

// Options carries per-runner pipeline configuration.
type Options struct {
	MaxSegmentSeconds float64
	Language          string // "auto" or an explicit language code
	TempRoot          string // defaults to os.TempDir()
}

// Runner owns one pipeline configuration and executes independent runs.
// All mutable run state lives on the stack of Run, so a Runner is safe to
// reuse; concurrent runs get independent temp namespaces.
type Runner struct {
	opts        Options
	prober      Prober
	segmenter   Segmenter
	transcriber Transcriber
	templates   asr.Templates
	notifier    notify.Notifier
	logger      *slog.Logger
}

// NewRunner wires a pipeline runner from its collaborators. Nil templates
// and notifier fall back to the defaults.
func NewRunner(
	opts Options,
	prober Prober,
	segmenter Segmenter,
	transcriber Transcriber,
	templates asr.Templates,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Runner {
	if templates == nil {
		templates = asr.DefaultTemplates()
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Runner{
		opts:        opts,
		prober:      prober,
		segmenter:   segmenter,
		transcriber: transcriber,
		templates:   templates,
		notifier:    notifier,
		logger:      logger,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	Text       string
	State      fsm.State
	SingleShot bool
	Segments   int
	Discarded  int
}

// Run takes ownership of the asset, transcribes it, and returns the final
// text. The asset file and all intermediate segment files are deleted on
// every exit path.
func (r *Runner) Run(ctx context.Context, asset media.Asset) (Result, error) {
	state := fsm.StateIdle
	step := func(event fsm.Event) {
		next, err := fsm.Transition(state, event)
		if err != nil {
			r.logDebug("unexpected pipeline transition", "state", string(state), "event", string(event))
			return
		}
		state = next
		r.logDebug("pipeline state", "state", string(state))
	}

	runDir := filepath.Join(r.tempRoot(), "voxclip-"+uuid.NewString())
	runDirCreated := false
	defer func() {
		if runDirCreated {
			if err := os.RemoveAll(runDir); err != nil {
				r.logDebug("segment cleanup failed", "dir", runDir, "error", err.Error())
			}
		}
		if err := os.Remove(asset.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			r.logDebug("asset cleanup failed", "path", asset.Path, "error", err.Error())
		}
	}()

	r.inspectAsset(ctx, asset)

	step(fsm.EventBegin)
	duration, probeErr := r.prober.Duration(ctx, asset)
	if probeErr != nil {
		r.notifier.Warn(ctx, "unable to determine recording length; transcribing in one pass")
		r.logWarn("duration probe failed", "error", probeErr.Error())
		step(fsm.EventProbeFailed)
		return r.singleShot(ctx, asset, &state)
	}

	if duration <= r.opts.MaxSegmentSeconds {
		step(fsm.EventShortAsset)
		return r.singleShot(ctx, asset, &state)
	}

	step(fsm.EventLongAsset)
	segments := r.segment(ctx, asset, duration, runDir, &runDirCreated)
	step(fsm.EventSegmented)

	var acc stitch.Accumulator
	discarded := 0
	for _, seg := range segments {
		r.notifier.Progress(ctx, fmt.Sprintf("transcribing chunk %d/%d", seg.Index+1, len(segments)))

		prompt := ""
		if acc.Text() != "" {
			prompt = r.templates.Render(r.opts.Language, stitch.TailContext(acc.Text(), tailContextRunes))
		}

		text, err := r.transcriber.Transcribe(ctx, asr.Request{
			AudioPath: seg.Asset.Path,
			Language:  r.languageHint(),
			Prompt:    prompt,
		})

		partial := stitch.Partial{Text: text}
		switch {
		case err != nil:
			// A failed chunk never aborts the run while other chunks remain.
			r.notifier.Warn(ctx, fmt.Sprintf("chunk %d/%d failed; its audio will be missing from the transcript", seg.Index+1, len(segments)))
			r.logWarn("chunk transcription failed", "chunk", seg.Index, "error", err.Error())
			partial.Discard = true
			discarded++
		case r.isDiscardable(text, prompt):
			r.logWarn("chunk returned no usable text", "chunk", seg.Index)
			partial.Discard = true
			discarded++
		}
		acc.Add(partial)
	}
	step(fsm.EventChunksDone)

	text, err := acc.Result()
	if err != nil {
		step(fsm.EventFail)
		r.notifier.Error(ctx, "no usable speech in the recording")
		return Result{State: state, Segments: len(segments), Discarded: discarded},
			fmt.Errorf("stitch transcript: %w", err)
	}
	step(fsm.EventStitched)

	return Result{
		Text:      text,
		State:     state,
		Segments:  len(segments),
		Discarded: discarded,
	}, nil
}

// segment produces the run's segment sequence, degrading to a single
// pass-through segment when splitting is unavailable or fails. Both
// degradations carry a user-visible warning because transcription accuracy
// on a long unsplit recording is reduced.
func (r *Runner) segment(ctx context.Context, asset media.Asset, duration float64, runDir string, created *bool) []media.Segment {
	if !r.segmenter.Available() {
		r.notifier.Warn(ctx, "audio splitting tool unavailable; transcription accuracy may be reduced")
		return media.Passthrough(asset)
	}

	if err := os.MkdirAll(runDir, 0o700); err != nil {
		r.notifier.Warn(ctx, "audio splitting failed; transcription accuracy may be reduced")
		r.logWarn("create segment dir failed", "dir", runDir, "error", err.Error())
		return media.Passthrough(asset)
	}
	*created = true

	segments, err := r.segmenter.Split(ctx, asset, duration, runDir)
	if err != nil {
		r.notifier.Warn(ctx, "audio splitting failed; transcription accuracy may be reduced")
		r.logWarn("segmentation failed", "error", err.Error())
		return media.Passthrough(asset)
	}
	return segments
}

// singleShot transcribes the whole asset in one call. Unlike the
// multi-segment path, an empty or echoed response here is fatal: there is no
// other chunk that could still carry the speech.
func (r *Runner) singleShot(ctx context.Context, asset media.Asset, state *fsm.State) (Result, error) {
	r.notifier.Progress(ctx, "transcribing")

	fail := func(err error) (Result, error) {
		next, _ := fsm.Transition(*state, fsm.EventFail)
		*state = next
		return Result{State: *state, SingleShot: true, Segments: 1}, err
	}

	text, err := r.transcriber.Transcribe(ctx, asr.Request{
		AudioPath: asset.Path,
		Language:  r.languageHint(),
	})
	if err != nil {
		r.notifier.Error(ctx, "transcription failed")
		return fail(fmt.Errorf("transcribe recording: %w", err))
	}

	if strings.TrimSpace(text) == "" {
		r.notifier.Error(ctx, "no speech detected")
		return fail(ErrNoSpeech)
	}
	if r.templates.IsEchoedInstruction(text) {
		r.notifier.Error(ctx, "no speech detected")
		return fail(ErrEchoedPrompt)
	}

	next, _ := fsm.Transition(*state, fsm.EventTranscribed)
	*state = next

	return Result{
		Text:       strings.TrimSpace(text),
		State:      *state,
		SingleShot: true,
		Segments:   1,
	}, nil
}

// isDiscardable classifies a multi-segment chunk response that must not
// contribute text: blank output, a bare instruction literal, or an exact
// echo of the prompt that was sent.
func (r *Runner) isDiscardable(text, sentPrompt string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	if r.templates.IsEchoedInstruction(trimmed) {
		return true
	}
	return sentPrompt != "" && trimmed == strings.TrimSpace(sentPrompt)
}

// inspectAsset warns when a WAV recording does not match the expected
// capture format. Best-effort: inspection failures are only logged.
func (r *Runner) inspectAsset(ctx context.Context, asset media.Asset) {
	if !strings.EqualFold(filepath.Ext(asset.Path), ".wav") {
		return
	}
	info, err := media.InspectWAV(asset.Path)
	if err != nil {
		r.logDebug("asset inspection failed", "path", asset.Path, "error", err.Error())
		return
	}
	if !info.Supported() {
		r.notifier.Warn(ctx, fmt.Sprintf("recording is %s; expected mono 16-bit at 16/24/44.1 kHz", info))
	}
}

func (r *Runner) languageHint() string {
	if r.opts.Language == "" || r.opts.Language == "auto" {
		return ""
	}
	return r.opts.Language
}

func (r *Runner) tempRoot() string {
	if r.opts.TempRoot != "" {
		return r.opts.TempRoot
	}
	return os.TempDir()
}

func (r *Runner) logWarn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

func (r *Runner) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
