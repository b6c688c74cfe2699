package media

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// supportedRates are the sample rates the transcription service accepts
// without resampling.
var supportedRates = map[int]bool{
	16000: true,
	24000: true,
	44100: true,
}

// WAVInfo describes the decoded header of a recorded WAV asset.
type WAVInfo struct {
	Format   *audio.Format
	BitDepth int
}

// Supported reports whether the asset matches the expected recording format:
// mono, 16-bit PCM, at one of the supported sample rates.
func (w WAVInfo) Supported() bool {
	if w.Format == nil {
		return false
	}
	return w.Format.NumChannels == 1 && w.BitDepth == 16 && supportedRates[w.Format.SampleRate]
}

// String renders the format for logs and warnings.
func (w WAVInfo) String() string {
	if w.Format == nil {
		return "unknown format"
	}
	return fmt.Sprintf("%d-channel %d-bit %d Hz", w.Format.NumChannels, w.BitDepth, w.Format.SampleRate)
}

// InspectWAV decodes the WAV header of the asset at path.
func InspectWAV(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, fmt.Errorf("open asset: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("not a valid WAV file: %s", path)
	}

	return WAVInfo{Format: decoder.Format(), BitDepth: int(decoder.BitDepth)}, nil
}
