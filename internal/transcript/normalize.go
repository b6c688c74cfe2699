// Package transcript normalizes stitched text before it is committed.
package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

// Options controls final transcript formatting behavior.
type Options struct {
	TrailingSpace       bool
	CapitalizeSentences bool
}

var pronounIPattern = regexp.MustCompile(`(^|\s)i(\s|'|$)`)

// Normalize collapses whitespace and applies configured casing. Sentence
// capitalization only touches cased scripts, so CJK text passes through
// unchanged.
func Normalize(text string, opts Options) string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return ""
	}

	if opts.CapitalizeSentences {
		normalized = capitalizeSentences(normalized)
	}

	if opts.TrailingSpace {
		return normalized + " "
	}
	return normalized
}

// capitalizeSentences upcases the first letter of the text and of every run
// following sentence-terminal punctuation, plus the standalone pronoun "i".
func capitalizeSentences(text string) string {
	runes := []rune(text)
	atStart := true
	for i, r := range runes {
		if atStart && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			atStart = false
			continue
		}
		switch r {
		case '.', '!', '?':
			atStart = true
		default:
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				atStart = false
			}
		}
	}

	return pronounIPattern.ReplaceAllStringFunc(string(runes), func(match string) string {
		return strings.Replace(match, "i", "I", 1)
	})
}
