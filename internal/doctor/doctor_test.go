package doctor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxclip/voxclip/internal/config"
)

func withLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	prev := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = prev })
}

func allFound(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func loadedDefaults() config.Loaded {
	cfg := config.Default()
	cfg.API.Key = "sk-test"
	return config.Loaded{Path: "/home/tester/.config/voxclip/config.yaml", Config: cfg, Exists: true}
}

func TestRunAllHealthy(t *testing.T) {
	withLookPath(t, allFound)

	report := Run(loadedDefaults())
	require.True(t, report.OK())

	rendered := report.String()
	require.Contains(t, rendered, "[OK] config")
	require.Contains(t, rendered, "[OK] recorder")
	require.Contains(t, rendered, "[OK] ffprobe")
	require.Contains(t, rendered, "[OK] ffmpeg")
	require.Contains(t, rendered, "[OK] api")
	require.Contains(t, rendered, "[OK] clipboard")
	require.NotContains(t, rendered, "FAIL")
}

func TestRunMissingFfmpegIsWarningOnly(t *testing.T) {
	withLookPath(t, func(name string) (string, error) {
		if name == "ffmpeg" {
			return "", errors.New("not found")
		}
		return allFound(name)
	})

	report := Run(loadedDefaults())
	require.True(t, report.OK())
	require.Contains(t, report.String(), "[WARN] ffmpeg")
	require.Contains(t, report.String(), "cannot be split")
}

func TestRunMissingRecorderFails(t *testing.T) {
	withLookPath(t, func(name string) (string, error) {
		if name == "ffmpeg" || name == "ffprobe" {
			return allFound(name)
		}
		return "", errors.New("not found")
	})

	loaded := loadedDefaults()
	report := Run(loaded)
	require.False(t, report.OK())
	require.Contains(t, report.String(), "[FAIL] recorder")
}

func TestRunMissingAPIKeyWarns(t *testing.T) {
	withLookPath(t, allFound)

	loaded := loadedDefaults()
	loaded.Config.API.Key = ""

	report := Run(loaded)
	require.True(t, report.OK())
	require.Contains(t, report.String(), "[WARN] api")
	require.Contains(t, report.String(), "VOXCLIP_API_KEY")
}

func TestRunInvalidEndpointFails(t *testing.T) {
	withLookPath(t, allFound)

	loaded := loadedDefaults()
	loaded.Config.API.Endpoint = "not a url"

	report := Run(loaded)
	require.False(t, report.OK())
	require.Contains(t, report.String(), "[FAIL] api")
}

func TestRunConfiguredClipboardCommandChecked(t *testing.T) {
	withLookPath(t, func(name string) (string, error) {
		if name == "wl-copy" {
			return "", errors.New("not found")
		}
		return allFound(name)
	})

	loaded := loadedDefaults()
	var err error
	loaded.Config.Clipboard, err = config.ParseCommand("wl-copy")
	require.NoError(t, err)

	report := Run(loaded)
	require.False(t, report.OK())

	var clipboardLine string
	for _, line := range strings.Split(report.String(), "\n") {
		if strings.Contains(line, "clipboard") {
			clipboardLine = line
		}
	}
	require.Contains(t, clipboardLine, "FAIL")
}

func TestRunConfigWarningsSurface(t *testing.T) {
	withLookPath(t, allFound)

	loaded := loadedDefaults()
	loaded.Warnings = []config.Warning{{Message: "timeout_seconds out of range"}}

	report := Run(loaded)
	require.True(t, report.OK())
	require.Contains(t, report.String(), "[WARN] config")
	require.Contains(t, report.String(), "1 warnings")
}
