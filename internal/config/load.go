package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// apiKeyEnv carries the transcription service credential; it deliberately
// never lives in the config file.
const apiKeyEnv = "VOXCLIP_API_KEY"

// Loaded captures the resolved config path, parsed values, and non-fatal
// warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// fileConfig is the YAML schema. Pointer fields distinguish "absent" from
// zero values so the file only overrides what it mentions.
type fileConfig struct {
	API struct {
		Endpoint       *string `yaml:"endpoint"`
		Model          *string `yaml:"model"`
		TimeoutSeconds *int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Language          *string `yaml:"language"`
	MaxSegmentSeconds *int    `yaml:"max_segment_seconds"`
	Recorder          struct {
		Command *string `yaml:"command"`
	} `yaml:"recorder"`
	Clipboard struct {
		Command *string `yaml:"command"`
	} `yaml:"clipboard"`
	Paste struct {
		Enable *bool `yaml:"enable"`
	} `yaml:"paste"`
	Transcript struct {
		CapitalizeSentences *bool `yaml:"capitalize_sentences"`
		TrailingSpace       *bool `yaml:"trailing_space"`
	} `yaml:"transcript"`
	Notify struct {
		Enable *bool `yaml:"enable"`
	} `yaml:"notify"`
	Log struct {
		Level *string `yaml:"level"`
	} `yaml:"log"`
}

// Load resolves, reads, parses, and validates the runtime configuration.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	cfg := Default()
	loaded := Loaded{Path: resolvedPath, Exists: true}

	content, err := os.ReadFile(resolvedPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		loaded.Exists = false
		loaded.Warnings = append(loaded.Warnings, Warning{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		})
	case err != nil:
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	default:
		var file fileConfig
		if err := yaml.Unmarshal(content, &file); err != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
		}
		if err := applyFile(&cfg, file); err != nil {
			return Loaded{}, fmt.Errorf("config %q: %w", resolvedPath, err)
		}
	}

	if key := strings.TrimSpace(os.Getenv(apiKeyEnv)); key != "" {
		cfg.API.Key = key
	}

	warnings, err := Validate(&cfg)
	if err != nil {
		return Loaded{}, fmt.Errorf("config %q: %w", resolvedPath, err)
	}
	loaded.Warnings = append(loaded.Warnings, warnings...)
	loaded.Config = cfg

	return loaded, nil
}

// applyFile overlays present file values onto the defaults.
func applyFile(cfg *Config, file fileConfig) error {
	if file.API.Endpoint != nil {
		cfg.API.Endpoint = *file.API.Endpoint
	}
	if file.API.Model != nil {
		cfg.API.Model = *file.API.Model
	}
	if file.API.TimeoutSeconds != nil {
		cfg.API.TimeoutSeconds = *file.API.TimeoutSeconds
	}
	if file.Language != nil {
		cfg.Language = *file.Language
	}
	if file.MaxSegmentSeconds != nil {
		cfg.MaxSegmentSeconds = *file.MaxSegmentSeconds
	}
	if file.Recorder.Command != nil {
		cmd, err := ParseCommand(*file.Recorder.Command)
		if err != nil {
			return fmt.Errorf("recorder.command: %w", err)
		}
		cfg.Recorder = cmd
	}
	if file.Clipboard.Command != nil {
		cmd, err := ParseCommand(*file.Clipboard.Command)
		if err != nil {
			return fmt.Errorf("clipboard.command: %w", err)
		}
		cfg.Clipboard = cmd
	}
	if file.Paste.Enable != nil {
		cfg.Paste.Enable = *file.Paste.Enable
	}
	if file.Transcript.CapitalizeSentences != nil {
		cfg.Transcript.CapitalizeSentences = *file.Transcript.CapitalizeSentences
	}
	if file.Transcript.TrailingSpace != nil {
		cfg.Transcript.TrailingSpace = *file.Transcript.TrailingSpace
	}
	if file.Notify.Enable != nil {
		cfg.Notify.Enable = *file.Notify.Enable
	}
	if file.Log.Level != nil {
		cfg.Log.Level = *file.Log.Level
	}
	return nil
}
