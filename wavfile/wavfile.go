// Package wavfile edits WAV files: padding with silence, trimming leading samples and
// merging the metadata chunks of one file with the audio of another.
package wavfile

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/youpy/go-wav"
)

const blockSamples = 4096

// ErrExists is returned when the output file exists and overwriting is not allowed.
var ErrExists = errors.New("output file exists")

// Create creates the output file. It fails with ErrExists if the file exists, unless force is set.
func Create(filename string, force bool) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(filename, flags, 0o644)
	if os.IsExist(err) {
		return nil, errors.Wrap(ErrExists, filename)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create output")
	}
	return f, nil
}

type input struct {
	f          *os.File
	reader     *wav.Reader
	format     *wav.WavFormat
	numSamples uint32
}

func openInput(filename string) (*input, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open input")
	}
	reader := wav.NewReader(f)
	format, err := reader.Format()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s: cannot read WAV header", filename)
	}
	if format.AudioFormat != wav.AudioFormatPCM || format.BlockAlign == 0 {
		f.Close()
		return nil, errors.Errorf("%s: not a linear PCM file", filename)
	}
	if format.NumChannels > 2 {
		f.Close()
		return nil, errors.Errorf("%s: %d channels, up to 2 supported", filename, format.NumChannels)
	}
	// the data chunk is located on first use
	if _, err := reader.Duration(); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "%s: cannot read data chunk", filename)
	}
	if reader.WavData == nil {
		f.Close()
		return nil, errors.Errorf("%s: no data chunk", filename)
	}

	return &input{
		f:          f,
		reader:     reader,
		format:     format,
		numSamples: reader.WavData.Size / uint32(format.BlockAlign),
	}, nil
}

func (in *input) writer(w io.Writer, numSamples uint32) *wav.Writer {
	return wav.NewWriter(w, numSamples, in.format.NumChannels, in.format.SampleRate, in.format.BitsPerSample)
}

// copyTo copies the remaining samples of in to w, skipping the first skip samples.
func (in *input) copyTo(w *wav.Writer, skip uint32) error {
	for {
		samples, err := in.reader.ReadSamples(blockSamples)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "cannot read samples")
		}
		if skip >= uint32(len(samples)) {
			skip -= uint32(len(samples))
			continue
		}
		samples = samples[skip:]
		skip = 0
		if err := w.WriteSamples(samples); err != nil {
			return errors.Wrap(err, "cannot write samples")
		}
	}
}

// SampleRate returns the sample rate of a WAV file.
func SampleRate(filename string) (int, error) {
	in, err := openInput(filename)
	if err != nil {
		return 0, err
	}
	defer in.f.Close()
	return int(in.format.SampleRate), nil
}

// Pad writes n samples of silence followed by every sample of the input.
func Pad(inFile, outFile string, n int, force bool) error {
	if n < 0 {
		return errors.Errorf("invalid number of samples: %d", n)
	}
	in, err := openInput(inFile)
	if err != nil {
		return err
	}
	defer in.f.Close()

	out, err := Create(outFile, force)
	if err != nil {
		return err
	}
	defer out.Close()

	w := in.writer(out, in.numSamples+uint32(n))
	silence := make([]wav.Sample, blockSamples)
	for remaining := n; remaining > 0; {
		c := min(remaining, blockSamples)
		if err := w.WriteSamples(silence[:c]); err != nil {
			return errors.Wrap(err, "cannot write silence")
		}
		remaining -= c
	}
	if err := in.copyTo(w, 0); err != nil {
		return err
	}
	return errors.Wrap(out.Close(), "cannot close output")
}

// Trim copies the input without its first n samples.
func Trim(inFile, outFile string, n int, force bool) error {
	if n < 0 {
		return errors.Errorf("invalid number of samples: %d", n)
	}
	in, err := openInput(inFile)
	if err != nil {
		return err
	}
	defer in.f.Close()

	out, err := Create(outFile, force)
	if err != nil {
		return err
	}
	defer out.Close()

	skip := min(uint32(n), in.numSamples)
	w := in.writer(out, in.numSamples-skip)
	if err := in.copyTo(w, skip); err != nil {
		return err
	}
	return errors.Wrap(out.Close(), "cannot close output")
}

// MicrosecondsToSamples converts a duration in microseconds to samples at the given rate.
func MicrosecondsToSamples(us int64, sampleRate int) int {
	return int(int64(sampleRate) * us / 1e6)
}
