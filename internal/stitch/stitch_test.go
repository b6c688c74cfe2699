package stitch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStitchNoOverlapPreservesOrder(t *testing.T) {
	t.Parallel()

	got, err := Stitch([]Partial{
		{Text: "first chunk ends here."},
		{Text: "second chunk text,"},
		{Text: "third chunk text"},
	})
	require.NoError(t, err)
	require.Equal(t, "first chunk ends here. second chunk text, third chunk text", got)
}

func TestStitchForcesSentenceBoundaryWithoutPunctuation(t *testing.T) {
	t.Parallel()

	got, err := Stitch([]Partial{
		{Text: "no punctuation at the end"},
		{Text: "and none at the start"},
	})
	require.NoError(t, err)
	require.Equal(t, "no punctuation at the end. and none at the start", got)
}

func TestStitchSkipsDiscardablePartials(t *testing.T) {
	t.Parallel()

	got, err := Stitch([]Partial{
		{Text: "ignore me entirely", Discard: true},
		{Text: "kept text"},
	})
	require.NoError(t, err)
	require.Equal(t, "kept text", got)
}

func TestStitchDiscardableInMiddle(t *testing.T) {
	t.Parallel()

	got, err := Stitch([]Partial{
		{Text: "chunk one."},
		{Text: "gone", Discard: true},
		{Text: "chunk three."},
	})
	require.NoError(t, err)
	require.Equal(t, "chunk one. chunk three.", got)
}

func TestStitchAllDiscardedIsError(t *testing.T) {
	t.Parallel()

	_, err := Stitch([]Partial{
		{Text: "a", Discard: true},
		{Text: "", Discard: false},
		{Text: "   "},
	})
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestStitchEmptyInputIsError(t *testing.T) {
	t.Parallel()

	_, err := Stitch(nil)
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestMergeRemovesSuffixPrefixOverlap(t *testing.T) {
	t.Parallel()

	got := Merge(
		"somewhere in the text the quick brown fox jumps",
		"brown fox jumps over the lazy dog",
	)
	require.Equal(t, "somewhere in the text the quick brown fox jumps over the lazy dog", got)
}

func TestMergeRemovesFullTailWindowInsideNext(t *testing.T) {
	t.Parallel()

	got := Merge(
		"we will meet again next week",
		"meet again next week at the same place",
	)
	require.Equal(t, "we will meet again next week at the same place", got)
}

func TestMergeOverlapIsCaseFolded(t *testing.T) {
	t.Parallel()

	got := Merge(
		"The Quick Brown Fox Jumps",
		"quick brown fox jumps over the fence",
	)
	require.Equal(t, "The Quick Brown Fox Jumps over the fence", got)
}

func TestMergeNextFullyContainedInTail(t *testing.T) {
	t.Parallel()

	got := Merge("and that was the end", "was the end")
	require.Equal(t, "and that was the end", got)
}

func TestMergeShortUtterancesUseWholeWindow(t *testing.T) {
	t.Parallel()

	// Fewer than five tokens on either side: the window is the whole text.
	got := Merge("okay", "okay then")
	require.Equal(t, "okay then", got)
}

func TestMergeNoFalseOverlap(t *testing.T) {
	t.Parallel()

	got := Merge("the meeting is over.", "the budget looks fine")
	require.Equal(t, "the meeting is over. the budget looks fine", got)
}

func TestAccumulatorMatchesBatchStitch(t *testing.T) {
	t.Parallel()

	partials := []Partial{
		{Text: "alpha beta gamma delta epsilon"},
		{Text: "delta epsilon zeta"},
		{Text: "unrelated tail", Discard: true},
		{Text: "eta theta"},
	}

	var acc Accumulator
	for _, p := range partials {
		acc.Add(p)
	}
	incremental, err := acc.Result()
	require.NoError(t, err)

	batch, err := Stitch(partials)
	require.NoError(t, err)
	require.Equal(t, batch, incremental)
}

func TestTailContextShortTextReturnedWhole(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short tail", TailContext("  short tail  ", 150))
}

func TestTailContextCutsOnTokenBoundary(t *testing.T) {
	t.Parallel()

	got := TailContext("aaaa bbbb cccc dddd", 9)
	// Nine trailing runes land mid-token; the partial token is dropped.
	require.Equal(t, "dddd", got)
}

func TestTailContextBoundsLength(t *testing.T) {
	t.Parallel()

	long := ""
	for i := 0; i < 100; i++ {
		long += "word "
	}
	got := TailContext(long, 150)
	require.LessOrEqual(t, len([]rune(got)), 150)
	require.NotEmpty(t, got)
}
