// Package stitch merges ordered partial transcripts into one text.
//
// Adjacent chunks of a split recording frequently share a few words around
// the cut point. The merge heuristic compares small case-folded token
// windows at the seam and drops the duplicated run when one is found. This
// is best-effort de-duplication, not a grammatical guarantee: utterances
// shorter than the window and scripts without whitespace-delimited tokens
// degrade to exact prefix matching.
package stitch

import (
	"errors"
	"strings"
)

// ErrEmptyResult indicates every chunk was discarded and no usable text exists.
var ErrEmptyResult = errors.New("no usable text in any transcript chunk")

// overlapWindow is the number of seam tokens compared on each side.
const overlapWindow = 5

// Partial is the transcription result for one segment. Discard marks chunks
// whose text must never reach the stitched output (failed upload, empty
// response, echoed prompt).
type Partial struct {
	Text    string
	Discard bool
}

// Accumulator holds the running state of one stitching pass: the text
// accumulated so far and whether any usable chunk has been seen.
type Accumulator struct {
	text   string
	usable bool
}

// Add folds one partial into the accumulated text. Discarded and blank
// partials contribute nothing, including no separator.
func (a *Accumulator) Add(p Partial) {
	if p.Discard {
		return
	}
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return
	}
	if !a.usable {
		a.text = text
		a.usable = true
		return
	}
	a.text = Merge(a.text, text)
}

// Text returns the text accumulated so far.
func (a *Accumulator) Text() string {
	return a.text
}

// Result returns the final stitched text, or ErrEmptyResult when no partial
// contributed any text.
func (a *Accumulator) Result() (string, error) {
	if !a.usable {
		return "", ErrEmptyResult
	}
	return a.text, nil
}

// Stitch merges partials in segment order into one transcript.
func Stitch(partials []Partial) (string, error) {
	var acc Accumulator
	for _, p := range partials {
		acc.Add(p)
	}
	return acc.Result()
}

// Merge appends next onto accumulated, removing seam overlap when the token
// windows detect one and joining with punctuation-aware separators otherwise.
func Merge(accumulated, next string) string {
	accumulated = strings.TrimSpace(accumulated)
	next = strings.TrimSpace(next)
	if accumulated == "" {
		return next
	}
	if next == "" {
		return accumulated
	}

	if remainder, ok := trimOverlap(accumulated, next); ok {
		if remainder == "" {
			return accumulated
		}
		return accumulated + " " + remainder
	}

	return accumulated + separator(accumulated, next) + next
}

// trimOverlap reports whether the seam windows overlap and returns next with
// the overlapping run removed. Two cases are recognized: the full tail window
// occurring somewhere inside next, and a suffix of the tail window matching a
// prefix of the head window.
func trimOverlap(accumulated, next string) (string, bool) {
	tail := lastTokens(foldTokens(accumulated), overlapWindow)
	nextTokens := strings.Fields(next)
	folded := foldTokens(next)
	if len(tail) == 0 || len(nextTokens) == 0 {
		return "", false
	}

	if at := indexTokens(folded, tail); at >= 0 {
		return strings.Join(nextTokens[at+len(tail):], " "), true
	}

	head := folded
	if len(head) > overlapWindow {
		head = head[:overlapWindow]
	}
	max := len(tail)
	if len(head) < max {
		max = len(head)
	}
	for k := max; k >= 1; k-- {
		if tokensEqual(tail[len(tail)-k:], head[:k]) {
			return strings.Join(nextTokens[k:], " "), true
		}
	}

	return "", false
}

// separator chooses the joining string for a non-overlapping seam: a bare
// space when either boundary character already carries sentence or list
// punctuation, otherwise a forced sentence boundary.
func separator(accumulated, next string) string {
	accRunes := []rune(accumulated)
	nextRunes := []rune(next)
	if isBoundaryPunct(accRunes[len(accRunes)-1]) || isBoundaryPunct(nextRunes[0]) {
		return " "
	}
	return ". "
}

func isBoundaryPunct(r rune) bool {
	switch r {
	case '.', '!', '?', ',':
		return true
	default:
		return false
	}
}

// foldTokens splits text into case-folded whitespace-delimited tokens.
func foldTokens(text string) []string {
	tokens := strings.Fields(text)
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}
	return tokens
}

func lastTokens(tokens []string, n int) []string {
	if len(tokens) <= n {
		return tokens
	}
	return tokens[len(tokens)-n:]
}

// indexTokens returns the first position of sub inside tokens, or -1.
func indexTokens(tokens, sub []string) int {
	if len(sub) == 0 || len(sub) > len(tokens) {
		return -1
	}
	for i := 0; i+len(sub) <= len(tokens); i++ {
		if tokensEqual(tokens[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}

func tokensEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TailContext returns the trailing portion of text used to seed the next
// chunk's continuation prompt, trimmed to at most maxRunes runes and aligned
// to a token boundary when the cut lands mid-word.
func TailContext(text string, maxRunes int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxRunes {
		return text
	}

	cut := string(runes[len(runes)-maxRunes:])
	if idx := strings.IndexAny(cut, " \t\n"); idx >= 0 {
		cut = cut[idx+1:]
	}
	return strings.TrimSpace(cut)
}
