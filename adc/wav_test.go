package adc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youpy/go-wav"
)

func writeWav(t *testing.T, channels uint16, bitsPerSample uint16, values []int) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(filename)
	require.NoError(t, err)
	defer f.Close()

	samples := make([]wav.Sample, len(values))
	for i, v := range values {
		samples[i].Values[0] = v
		samples[i].Values[1] = -v
	}
	w := wav.NewWriter(f, uint32(len(samples)), channels, 48000, bitsPerSample)
	require.NoError(t, w.WriteSamples(samples))
	return filename
}

func TestWavSource_Read(t *testing.T) {
	values := make([]int, 1000)
	for i := range values {
		values[i] = i - 500
	}
	filename := writeWav(t, 2, 16, values)

	src, err := OpenWav(filename)
	require.NoError(t, err)
	defer src.Close()

	assert.Equal(t, 48000, src.SampleRate())
	assert.Equal(t, uint16(2), src.Format().NumChannels)

	var read []int16
	buf := make([]int16, 300)
	for {
		n, err := src.Read(buf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		read = append(read, buf[:n]...)
	}
	require.Len(t, read, len(values))
	for i, v := range values {
		assert.Equal(t, int16(v), read[i])
	}
}

func TestOpenWav_UnsupportedFormat(t *testing.T) {
	filename := writeWav(t, 1, 8, []int{1, 2, 3})

	_, err := OpenWav(filename)

	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestOpenWav_Missing(t *testing.T) {
	_, err := OpenWav(filepath.Join(t.TempDir(), "missing.wav"))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedFormat))
}
