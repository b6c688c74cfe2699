package asr

import "strings"

// Templates maps language codes to the continuation instruction embedded in
// each chunk's prompt. The instruction is worded in the language of the
// expected speech, which improves the service's continuation behavior but is
// best-effort only. New languages are added by extending the map, not by
// branching code.
type Templates map[string]string

// fallbackLanguage is used for unknown codes and automatic detection.
const fallbackLanguage = "en"

// DefaultTemplates returns the built-in instruction table.
func DefaultTemplates() Templates {
	return Templates{
		"en": "Continue the transcript. The previous part ended with:",
		"ko": "이어서 받아쓰세요. 이전 내용의 끝부분:",
		"ja": "続きを書き起こしてください。直前の内容:",
		"zh": "请继续转写。上文结尾：",
	}
}

// Instruction returns the bare instruction for a language code, falling back
// to the English form.
func (t Templates) Instruction(language string) string {
	if instruction, ok := t[language]; ok {
		return instruction
	}
	return t[fallbackLanguage]
}

// Render builds the continuation prompt for one chunk from the trailing text
// of the transcript accumulated so far.
func (t Templates) Render(language, tail string) string {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return ""
	}
	return t.Instruction(language) + " " + tail
}

// IsEchoedInstruction reports whether the service returned one of the bare
// instruction literals instead of a transcription. All languages are
// checked, since a mis-detected language can echo a different template.
func (t Templates) IsEchoedInstruction(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, instruction := range t {
		if trimmed == instruction {
			return true
		}
	}
	return false
}
