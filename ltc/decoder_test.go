package ltc

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysh86/LTCtools/adc"
)

type sliceSource struct {
	samples    []int16
	sampleRate int
	err        error
}

func (s *sliceSource) Read(buf []int16) (int, error) {
	if len(s.samples) == 0 && s.err != nil {
		return 0, s.err
	}
	n := copy(buf, s.samples)
	s.samples = s.samples[n:]
	return n, nil
}

func (s *sliceSource) SampleRate() int {
	return s.sampleRate
}

func signal(bits []byte, sampleRate, fps int) *sliceSource {
	return &sliceSource{
		samples:    adc.Synthesize(bits, sampleRate, fps, 16000),
		sampleRate: sampleRate,
	}
}

func testConfig(fps int) Config {
	cfg := DefaultConfig()
	cfg.FPS = fps
	return cfg
}

func nullLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	return logger
}

func TestDecoder_RoundTrip(t *testing.T) {
	bits := frameBits(t, "10:00:00:00", 25, 50)

	result, err := NewDecoder(testConfig(25), nullLogger()).Run(signal(bits, 48000, 25))

	require.NoError(t, err)
	assert.Equal(t, 50, result.Frames)
	assert.Equal(t, 0, result.DiscardedAtStart)
	assert.Equal(t, []Range{{Start: Timecode{Hours: 10}, End: Timecode{Hours: 10, Seconds: 1, Frames: 24}}}, result.Ranges)
	assert.Equal(t, "10:00:00:00", result.First.String())
	assert.Equal(t, "10:00:01:24", result.Last.String())
	assert.False(t, result.Calibrated)
	assert.Equal(t, len(bits), result.Bits)
}

func TestDecoder_Calibrates(t *testing.T) {
	tt := []struct {
		desc       string
		sampleRate int
		fps        int
	}{
		{"48kHz 25fps", 48000, 25},
		{"48kHz 30fps", 48000, 30},
		{"48kHz 24fps", 48000, 24},
		{"44.1kHz 25fps", 44100, 25},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			bits := frameBits(t, "12:34:56:07", tc.fps, 2*tc.fps)

			result, err := NewDecoder(testConfig(0), nullLogger()).Run(signal(bits, tc.sampleRate, tc.fps))

			require.NoError(t, err)
			assert.True(t, result.Calibrated)
			assert.Equal(t, tc.fps, result.FPS)
			assert.Equal(t, 2*tc.fps, result.Frames)
			require.Len(t, result.Ranges, 1)
			assert.Equal(t, "12:34:56:07", result.Ranges[0].Start.String())
		})
	}
}

func TestDecoder_NoiseSplitsRanges(t *testing.T) {
	const noise = 37
	bits := concat(
		frameBits(t, "10:00:00:00", 25, 30),
		make([]byte, noise),
		frameBits(t, "10:00:05:00", 25, 20),
	)

	for _, blockSize := range []int{64, 512, 1000, 4096, 48000} {
		cfg := testConfig(25)
		cfg.BlockSize = blockSize

		result, err := NewDecoder(cfg, nullLogger()).Run(signal(bits, 48000, 25))

		require.NoError(t, err)
		want := []Range{
			{Start: Timecode{Hours: 10}, End: Timecode{Hours: 10, Seconds: 1, Frames: 4}},
			{Start: Timecode{Hours: 10, Seconds: 5}, End: Timecode{Hours: 10, Seconds: 5, Frames: 19}},
		}
		if diff := cmp.Diff(want, result.Ranges); diff != "" {
			t.Errorf("block size %d: ranges mismatch (-want +got):\n%s", blockSize, diff)
		}
		assert.Equal(t, 0, result.DiscardedAtStart)
		assert.Equal(t, noise, result.Discarded)
		assert.Equal(t, 50, result.Frames)
	}
}

func TestDecoder_LeadingGarbage(t *testing.T) {
	bits := concat(make([]byte, 13), frameBits(t, "00:00:00:00", 25, 10))

	result, err := NewDecoder(testConfig(25), nullLogger()).Run(signal(bits, 48000, 25))

	require.NoError(t, err)
	assert.Equal(t, 13, result.DiscardedAtStart)
	assert.Len(t, result.Ranges, 1)
}

func TestDecoder_NoFrames(t *testing.T) {
	cfg := testConfig(25)
	cfg.BlockSize = 4096
	cfg.BitBufferSize = 100

	result, err := NewDecoder(cfg, nullLogger()).Run(signal(make([]byte, 200), 48000, 25))

	require.Error(t, err)
	assert.Equal(t, SyncError, KindOf(err))
	assert.Equal(t, 200, result.Bits)
	assert.False(t, result.Found)
	assert.Empty(t, result.Ranges)
}

func TestDecoder_ErrorKeepsRanges(t *testing.T) {
	src := signal(frameBits(t, "10:00:00:00", 25, 20), 48000, 25)
	src.err = errors.New("broken")

	result, err := NewDecoder(testConfig(25), nullLogger()).Run(src)

	require.Error(t, err)
	assert.Equal(t, InputError, KindOf(err))
	// the last frame is only decoded at the end of the stream
	assert.Equal(t, 19, result.Frames)
	assert.Equal(t, []Range{{Start: result.First, End: result.Last}}, result.Ranges)
	assert.Equal(t, "10:00:00:18", result.Last.String())
}

func TestDecoder_TraceLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	bits := frameBits(t, "10:00:00:00", 25, 3)

	_, err := NewDecoder(testConfig(25), logger.WithField("file", "test.wav")).Run(signal(bits, 48000, 25))

	require.NoError(t, err)
	var frames []string
	for _, e := range hook.AllEntries() {
		assert.Equal(t, "test.wav", e.Data["file"])
		if e.Level == logrus.TraceLevel && strings.HasPrefix(e.Message, "frame ") {
			frames = append(frames, e.Message)
		}
	}
	assert.Equal(t, []string{"frame 10:00:00:00", "frame 10:00:00:01", "frame 10:00:00:02"}, frames)
}

func TestDecoder_Errors(t *testing.T) {
	tt := []struct {
		desc     string
		cfg      Config
		src      *sliceSource
		expected Kind
	}{
		{
			desc:     "silence",
			cfg:      testConfig(0),
			src:      &sliceSource{samples: adc.Silence(4800), sampleRate: 48000},
			expected: CalibrationError,
		},
		{
			desc:     "silence at a given frame rate",
			cfg:      testConfig(25),
			src:      &sliceSource{samples: adc.Silence(4800), sampleRate: 48000},
			expected: SyncError,
		},
		{
			desc:     "empty input",
			cfg:      testConfig(0),
			src:      &sliceSource{sampleRate: 48000},
			expected: CalibrationError,
		},
		{
			desc:     "invalid sample rate",
			cfg:      testConfig(25),
			src:      &sliceSource{},
			expected: FormatError,
		},
		{
			desc:     "read error",
			cfg:      testConfig(25),
			src:      &sliceSource{sampleRate: 48000, err: errors.New("broken")},
			expected: InputError,
		},
		{
			desc:     "invalid config",
			cfg:      Config{},
			src:      &sliceSource{sampleRate: 48000},
			expected: ResourceError,
		},
	}
	for _, tc := range tt {
		t.Run(tc.desc, func(t *testing.T) {
			result, err := NewDecoder(tc.cfg, nullLogger()).Run(tc.src)

			require.Error(t, err)
			assert.Equal(t, tc.expected, KindOf(err))
			require.NotNil(t, result)
			assert.Empty(t, result.Ranges)
		})
	}
}

func TestDecoder_Logging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	bits := concat(
		frameBits(t, "12:34:56:07", 25, 10),
		make([]byte, 5),
		frameBits(t, "12:35:00:00", 25, 10),
	)

	_, err := NewDecoder(testConfig(0), logger).Run(signal(bits, 48000, 25))

	require.NoError(t, err)
	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"sample rate: 48000Hz",
		"frame rate: 25fps (calibrated)",
		"first frame 12:34:56:07 after 0 discarded bits",
		"lost synchronisation after 12:34:56:16, resynchronised at 12:35:00:00",
	}, messages)
}

func TestDecodeBits(t *testing.T) {
	bits := concat(
		make([]byte, 3),
		frameBits(t, "01:00:00:00", 30, 40),
		make([]byte, 11),
		frameBits(t, "02:00:00:00", 30, 5),
	)

	result, err := DecodeBits(bits, testConfig(30), nullLogger())

	require.NoError(t, err)
	want := []Range{
		{Start: Timecode{Hours: 1}, End: Timecode{Hours: 1, Seconds: 1, Frames: 9}},
		{Start: Timecode{Hours: 2}, End: Timecode{Hours: 2, Frames: 4}},
	}
	if diff := cmp.Diff(want, result.Ranges); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, result.DiscardedAtStart)
	assert.Equal(t, 14, result.Discarded)
	assert.Equal(t, 30, result.FPS)
}

func TestDecodeBits_BufferCapacity(t *testing.T) {
	cfg := testConfig(25)
	cfg.BitBufferSize = 100

	result, err := DecodeBits(make([]byte, 300), cfg, nullLogger())

	require.Error(t, err)
	assert.Equal(t, SyncError, KindOf(err))
	assert.Equal(t, 100, result.Bits)
}
