// Package config resolves, parses, validates, and defaults voxclip
// configuration.
package config

// Config is the fully materialized runtime configuration.
type Config struct {
	API               APIConfig
	Language          string
	MaxSegmentSeconds int
	Recorder          CommandConfig
	Clipboard         CommandConfig
	Paste             PasteConfig
	Transcript        TranscriptConfig
	Notify            NotifyConfig
	Log               LogConfig
}

// APIConfig holds the transcription service connection settings. Key is only
// ever populated from the environment, never from the config file.
type APIConfig struct {
	Endpoint       string
	Model          string
	Key            string
	TimeoutSeconds int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// PasteConfig controls the optional paste keystroke after clipboard commit.
type PasteConfig struct {
	Enable bool
}

// TranscriptConfig controls final transcript formatting.
type TranscriptConfig struct {
	CapitalizeSentences bool
	TrailingSpace       bool
}

// NotifyConfig controls desktop notification dispatch.
type NotifyConfig struct {
	Enable bool
}

// LogConfig controls runtime log verbosity.
type LogConfig struct {
	Level string
}

// Warning is a non-fatal parse/validation message surfaced to the user.
type Warning struct {
	Message string
}
