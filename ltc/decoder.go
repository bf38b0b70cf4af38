package ltc

import (
	"github.com/sirupsen/logrus"

	"github.com/ysh86/LTCtools/adc"
)

// Source supplies blocks of 16 bit samples. Read returns 0 at the end of the stream.
type Source interface {
	Read(buf []int16) (int, error)
	SampleRate() int
}

// Result of a decode run. It is also filled if the run ends with an error.
type Result struct {
	Ranges           []Range
	DiscardedAtStart int
	Discarded        int
	First            Timecode
	Last             Timecode
	Found            bool
	FPS              int
	Calibrated       bool
	Frames           int
	Bits             int
}

// Decoder runs the decode pipeline: spikes, bits, frames and timecode ranges.
type Decoder struct {
	cfg Config
	log logrus.Ext1FieldLogger

	detector *adc.PulseDetector
	bits     *BitDecoder
	buffer   *BitBuffer
	tracker  *Tracker
	ranges   *Ranges

	fps        int
	calibrated bool
	frames     int
	pushed     int
}

func NewDecoder(cfg Config, log logrus.Ext1FieldLogger) *Decoder {
	return &Decoder{
		cfg:      cfg,
		log:      log,
		detector: adc.NewPulseDetector(),
		buffer:   NewBitBuffer(cfg.BitBufferSize),
		tracker:  NewTracker(),
		ranges:   NewRanges(),
		fps:      cfg.FPS,
	}
}

// Run decodes the whole source.
func (d *Decoder) Run(src Source) (*Result, error) {
	err := d.run(src)
	if err != nil {
		// keep the ranges decoded so far
		d.ranges.Finish()
	}
	return d.result(), err
}

func (d *Decoder) run(src Source) error {
	if err := d.cfg.Validate(); err != nil {
		return NewError(ResourceError, err)
	}
	sampleRate := src.SampleRate()
	if sampleRate <= 0 {
		return errorf(FormatError, "invalid sample rate: %d", sampleRate)
	}
	d.log.Infof("sample rate: %dHz", sampleRate)

	block := make([]int16, d.cfg.BlockSize)
	first := true
	for {
		n, err := src.Read(block)
		if err != nil {
			return NewError(InputError, err)
		}
		if n == 0 {
			if first {
				return errorf(CalibrationError, "no signal: input is empty")
			}
			break
		}

		if first {
			first = false
			if err := d.setup(block[:n], sampleRate); err != nil {
				return err
			}
		}

		if err := d.decodeBlock(block[:n]); err != nil {
			return err
		}
		if err := d.consume(false); err != nil {
			return err
		}
	}

	if err := d.consume(true); err != nil {
		return err
	}
	return d.finish()
}

func (d *Decoder) finish() error {
	d.ranges.Finish()
	if d.frames == 0 {
		return errorf(SyncError, "no LTC frames found in %d bits", d.pushed)
	}
	return nil
}

// setup calibrates the frame rate on the first block, unless it is given.
func (d *Decoder) setup(block []int16, sampleRate int) error {
	if d.fps > 0 {
		d.log.Infof("frame rate: %dfps", d.fps)
	} else {
		// a separate detector, the first gap is only the distance to the start of the block
		gaps := adc.NewPulseDetector().Gaps(block, d.cfg.CalibrationGaps+1)
		if len(gaps) > 0 {
			gaps = gaps[1:]
		}
		calibration, err := Calibrate(gaps, sampleRate, d.cfg.calibrationOptions())
		d.log.Debugf("calibration: %d gaps, short %.2f (%d/%d out of tolerance), long %.2f (%d/%d out of tolerance)",
			len(gaps),
			calibration.Low.Mean, calibration.Low.Outliers, calibration.Low.Count,
			calibration.High.Mean, calibration.High.Outliers, calibration.High.Count)
		if err != nil {
			return err
		}
		d.fps = calibration.FPS
		d.calibrated = true
		d.log.Infof("frame rate: %dfps (calibrated)", d.fps)
	}

	d.bits = NewBitDecoder(sampleRate, d.fps)
	d.log.Debugf("short gap threshold: %.2f samples", d.bits.Threshold())
	return nil
}

func (d *Decoder) decodeBlock(block []int16) error {
	var err error
	d.detector.Scan(block, func(gap int) {
		if err != nil {
			return
		}
		before := d.buffer.Len()
		err = d.bits.Gap(gap, d.buffer)
		d.pushed += d.buffer.Len() - before
		// at most one frame per tracker call, whatever the block size
		if err == nil && d.buffer.Len() > FrameBits {
			err = d.consume(false)
		}
	})
	d.log.Tracef("spike threshold: %d", d.detector.Threshold())
	return err
}

func (d *Decoder) consume(final bool) error {
	bits := d.buffer.Bits()
	if d.tracker.State() == Seeking && len(bits) > FrameBits {
		d.log.Tracef("looking for sync word: %s", BitString(bits[:FrameBits]))
	}

	consumption, err := d.tracker.Consume(bits, final)
	d.record(consumption)
	d.buffer.Drop(consumption.Consumed)
	return err
}

func (d *Decoder) record(c Consumption) {
	d.ranges.Discard(c.Discarded)
	for _, frame := range c.Frames {
		tc := frame.Timecode()
		if d.frames == 0 {
			d.log.Infof("first frame %s after %d discarded bits", tc, d.ranges.DiscardedAtStart())
		}
		closed, split := d.ranges.Frame(tc)
		if split {
			d.log.Infof("lost synchronisation after %s, resynchronised at %s", closed.End, tc)
		}
		d.log.Tracef("frame %s", tc)
		d.frames++
	}
}

func (d *Decoder) result() *Result {
	result := &Result{
		Ranges:           d.ranges.Ranges(),
		DiscardedAtStart: d.ranges.DiscardedAtStart(),
		Discarded:        d.ranges.DiscardedTotal(),
		FPS:              d.fps,
		Calibrated:       d.calibrated,
		Frames:           d.frames,
		Bits:             d.pushed,
	}
	result.First, result.Found = d.ranges.First()
	result.Last, _ = d.ranges.Last()
	return result
}

// DecodeBits runs the frame and range stages over a bit stream, e.g. a text dump.
func DecodeBits(bits []byte, cfg Config, log logrus.Ext1FieldLogger) (*Result, error) {
	d := NewDecoder(cfg, log)
	err := d.runBits(bits)
	if err != nil {
		d.ranges.Finish()
	}
	return d.result(), err
}

// feed the tracker in portions of less than one frame, like the sample blocks do
const bitBlockSize = 64

func (d *Decoder) runBits(bits []byte) error {
	if err := d.cfg.Validate(); err != nil {
		return NewError(ResourceError, err)
	}
	for len(bits) > 0 {
		n := min(bitBlockSize, len(bits))
		for _, b := range bits[:n] {
			d.pushed++
			if err := d.buffer.Push(b & 1); err != nil {
				return err
			}
		}
		bits = bits[n:]
		if err := d.consume(false); err != nil {
			return err
		}
	}
	if err := d.consume(true); err != nil {
		return err
	}
	return d.finish()
}
