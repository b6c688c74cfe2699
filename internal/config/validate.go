package config

import (
	"fmt"
	"strings"
)

// SupportedLanguages is the closed language enumeration: auto-detection plus
// the codes with continuation-prompt templates.
var SupportedLanguages = map[string]bool{
	"auto": true,
	"en":   true,
	"ko":   true,
	"ja":   true,
	"zh":   true,
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks a materialized config, repairing soft problems into
// warnings and rejecting hard ones.
func Validate(cfg *Config) ([]Warning, error) {
	var warnings []Warning

	endpoint := strings.TrimSpace(cfg.API.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("api.endpoint is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("api.endpoint must be an http(s) URL, got %q", endpoint)
	}
	if strings.TrimSpace(cfg.API.Model) == "" {
		return nil, fmt.Errorf("api.model is required")
	}

	if cfg.API.TimeoutSeconds <= 0 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("api.timeout_seconds %d is invalid; using %d", cfg.API.TimeoutSeconds, DefaultTimeoutSeconds),
		})
		cfg.API.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if !SupportedLanguages[cfg.Language] {
		return nil, fmt.Errorf("language %q is not supported (auto, en, ko, ja, zh)", cfg.Language)
	}

	if cfg.MaxSegmentSeconds <= 0 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("max_segment_seconds %d is invalid; using %d", cfg.MaxSegmentSeconds, DefaultMaxSegmentSeconds),
		})
		cfg.MaxSegmentSeconds = DefaultMaxSegmentSeconds
	}

	if len(cfg.Recorder.Argv) == 0 {
		warnings = append(warnings, Warning{
			Message: "recorder.command is empty; the toggle workflow is unavailable",
		})
	}

	if cfg.API.Key == "" {
		warnings = append(warnings, Warning{
			Message: "VOXCLIP_API_KEY is not set; transcription requests will be rejected",
		})
	}

	if !logLevels[cfg.Log.Level] {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("log.level %q is unknown; using info", cfg.Log.Level),
		})
		cfg.Log.Level = "info"
	}

	return warnings, nil
}
