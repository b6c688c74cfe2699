package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

func writeTestWAV(t *testing.T, sampleRate, bitDepth, channels int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rec.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitDepth,
		Data:           make([]int, sampleRate/100*channels),
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	return path
}

func TestInspectWAVReadsFormat(t *testing.T) {
	t.Parallel()

	path := writeTestWAV(t, 16000, 16, 1)
	info, err := InspectWAV(path)
	require.NoError(t, err)
	require.Equal(t, 1, info.Format.NumChannels)
	require.Equal(t, 16000, info.Format.SampleRate)
	require.Equal(t, 16, info.BitDepth)
	require.True(t, info.Supported())
	require.Equal(t, "1-channel 16-bit 16000 Hz", info.String())
}

func TestInspectWAVUnsupportedFormats(t *testing.T) {
	t.Parallel()

	stereo, err := InspectWAV(writeTestWAV(t, 16000, 16, 2))
	require.NoError(t, err)
	require.False(t, stereo.Supported())

	oddRate, err := InspectWAV(writeTestWAV(t, 22050, 16, 1))
	require.NoError(t, err)
	require.False(t, oddRate.Supported())
}

func TestInspectWAVRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "noise.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o600))

	_, err := InspectWAV(path)
	require.Error(t, err)
}

func TestInspectWAVMissingFile(t *testing.T) {
	t.Parallel()

	_, err := InspectWAV(filepath.Join(t.TempDir(), "absent.wav"))
	require.Error(t, err)
}
