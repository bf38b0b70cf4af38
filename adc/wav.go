package adc

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/youpy/go-wav"
)

// ErrUnsupportedFormat is returned for anything but 16 bit linear PCM.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// WavSource reads 16 bit PCM samples from a WAV file. Only the first channel (L) is used.
type WavSource struct {
	f        *os.File
	reader   *wav.Reader
	format   *wav.WavFormat
	duration time.Duration
}

// OpenWav opens a WAV file and checks its format.
func OpenWav(filename string) (*WavSource, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open input")
	}

	result, err := NewWavSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return result, nil
}

// NewWavSource reads the WAV header from f. Closing the source closes f.
func NewWavSource(f *os.File) (*WavSource, error) {
	reader := wav.NewReader(f)

	format, err := reader.Format()
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "cannot read WAV header: %v", err)
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "audio format %d, linear PCM expected", format.AudioFormat)
	}
	if format.BitsPerSample != 16 {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%d bits/sample, 16 expected", format.BitsPerSample)
	}
	if format.NumChannels == 0 || format.SampleRate == 0 {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%d channels at %dHz", format.NumChannels, format.SampleRate)
	}
	duration, err := reader.Duration()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read WAV duration")
	}

	return &WavSource{
		f:        f,
		reader:   reader,
		format:   format,
		duration: duration,
	}, nil
}

// Read fills buf with up to len(buf) samples. It returns 0 at the end of the stream.
func (s *WavSource) Read(buf []int16) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	samples, err := s.reader.ReadSamples(uint32(len(buf)))
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "cannot read samples")
	}

	for i, sample := range samples {
		buf[i] = int16(s.reader.IntValue(sample, 0)) // L only
	}
	return len(samples), nil
}

func (s *WavSource) SampleRate() int {
	return int(s.format.SampleRate)
}

func (s *WavSource) Format() wav.WavFormat {
	return *s.format
}

func (s *WavSource) Duration() time.Duration {
	return s.duration
}

func (s *WavSource) Close() error {
	return s.f.Close()
}
