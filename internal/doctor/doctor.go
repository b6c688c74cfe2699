// Package doctor runs runtime readiness diagnostics for config, tools, and
// the transcription endpoint.
package doctor

import (
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/voxclip/voxclip/internal/config"
)

// Check is one diagnostic result. Warn marks degradations that do not block
// dictation, like a missing splitter.
type Check struct {
	Name    string
	Pass    bool
	Warn    bool
	Message string
}

// Report is the full diagnostic output.
type Report struct {
	Checks []Check
}

// OK returns true when no check failed hard.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass && !check.Warn {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		switch {
		case check.Warn && !check.Pass:
			status = "WARN"
		case !check.Pass:
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Name, check.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Run executes readiness checks against a loaded configuration.
func Run(loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{configCheck(loaded)}

	checks = append(checks, commandCheck("recorder", cfg.Recorder.Argv))
	checks = append(checks, binaryCheck("ffprobe", false,
		"duration probing works", "long recordings will be transcribed in one pass"))
	checks = append(checks, binaryCheck("ffmpeg", true,
		"recording splitting works", "long recordings cannot be split; accuracy may be reduced"))
	checks = append(checks, apiCheck(cfg.API))

	if len(cfg.Clipboard.Argv) > 0 {
		checks = append(checks, commandCheck("clipboard", cfg.Clipboard.Argv))
	} else {
		checks = append(checks, Check{
			Name:    "clipboard",
			Pass:    true,
			Message: "using built-in clipboard support",
		})
	}

	return Report{Checks: checks}
}

func configCheck(loaded config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("no file at %q; using defaults", loaded.Path)
	}
	if len(loaded.Warnings) > 0 {
		return Check{
			Name:    "config",
			Pass:    true,
			Warn:    true,
			Message: fmt.Sprintf("%s (%d warnings)", message, len(loaded.Warnings)),
		}
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// commandCheck validates that a configured argv names a runnable binary.
func commandCheck(name string, argv []string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	path, err := lookPath(argv[0])
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", argv[0])}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found at %s", path)}
}

// binaryCheck validates a tool on PATH; degraded tools warn instead of fail.
func binaryCheck(bin string, degraded bool, okMsg, failMsg string) Check {
	path, err := lookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Warn: degraded, Message: failMsg}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

func apiCheck(api config.APIConfig) Check {
	u, err := url.Parse(api.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Check{Name: "api", Pass: false, Message: fmt.Sprintf("invalid endpoint %q", api.Endpoint)}
	}
	if strings.TrimSpace(api.Key) == "" {
		return Check{
			Name:    "api",
			Pass:    false,
			Warn:    true,
			Message: "VOXCLIP_API_KEY is not set; requests may be rejected",
		}
	}
	return Check{Name: "api", Pass: true, Message: fmt.Sprintf("endpoint %s, model %s", u.Host, api.Model)}
}
