package config

const (
	// DefaultMaxSegmentSeconds bounds one transcription chunk.
	DefaultMaxSegmentSeconds = 60
	// DefaultTimeoutSeconds bounds one transcription upload.
	DefaultTimeoutSeconds = 120
)

// Default returns the canonical runtime configuration used when no config
// file is present.
func Default() Config {
	recorder := "ffmpeg -v error -f pulse -i default -ac 1 -ar 16000 -sample_fmt s16 -y"

	return Config{
		API: APIConfig{
			Endpoint:       "https://api.openai.com/v1/audio/transcriptions",
			Model:          "whisper-1",
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Language:          "auto",
		MaxSegmentSeconds: DefaultMaxSegmentSeconds,
		Recorder:          mustCommand(recorder),
		Clipboard:         CommandConfig{},
		Paste:             PasteConfig{Enable: false},
		Transcript: TranscriptConfig{
			CapitalizeSentences: true,
			TrailingSpace:       false,
		},
		Notify: NotifyConfig{Enable: true},
		Log:    LogConfig{Level: "info"},
	}
}
