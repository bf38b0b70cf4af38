package ltc

import "math"

const (
	// a gap shorter than 3/4 of a bit cell is half of a ONE
	shortGapRatio = 0.75
)

// BitBuffer holds the decoded bits that are not yet consumed into frames.
// It never grows beyond its capacity.
type BitBuffer struct {
	bits     []byte
	capacity int
}

func NewBitBuffer(capacity int) *BitBuffer {
	return &BitBuffer{
		bits:     make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Push appends one bit. Filling the buffer up to its capacity means that no frame could be
// found in the bits so far, which is reported as SyncError.
func (b *BitBuffer) Push(bit byte) error {
	if len(b.bits) >= b.capacity {
		return errorf(SyncError, "no LTC frames found: bit buffer full (%d bits)", b.capacity)
	}
	b.bits = append(b.bits, bit)
	if len(b.bits) == b.capacity {
		return errorf(SyncError, "no LTC frames found: bit buffer full (%d bits)", b.capacity)
	}
	return nil
}

// Bits returns the pending bits. The slice is only valid until the next Push or Drop.
func (b *BitBuffer) Bits() []byte {
	return b.bits
}

func (b *BitBuffer) Len() int {
	return len(b.bits)
}

func (b *BitBuffer) Cap() int {
	return b.capacity
}

// Drop removes n bits from the front.
func (b *BitBuffer) Drop(n int) {
	n = min(n, len(b.bits))
	remaining := copy(b.bits, b.bits[n:])
	b.bits = b.bits[:remaining]
}

// BitDecoder turns the gaps between spikes into biphase-mark bits:
// one long gap is a ZERO, two short gaps are a ONE.
type BitDecoder struct {
	threshold float64
	started   bool
	halfBit   bool
}

// NewBitDecoder returns a decoder for the bit cell length that results from the given
// sample rate and frame rate.
func NewBitDecoder(sampleRate int, fps int) *BitDecoder {
	return &BitDecoder{
		threshold: ShortGapThreshold(sampleRate, fps),
	}
}

// ShortGapThreshold is the gap length in samples that separates half bit cells from full bit cells.
// At 48kHz and 25fps this is 18 samples.
func ShortGapThreshold(sampleRate int, fps int) float64 {
	if fps <= 0 {
		return math.Inf(1)
	}
	cell := float64(sampleRate) / float64(fps*FrameBits)
	return shortGapRatio * cell
}

func (d *BitDecoder) Threshold() float64 {
	return d.threshold
}

// Gap processes the gap in samples since the previous spike and pushes the resulting bit, if any.
func (d *BitDecoder) Gap(gap int, buf *BitBuffer) error {
	if !d.started {
		// the first spike only marks the start of the first bit cell
		d.started = true
		return nil
	}

	if float64(gap) < d.threshold {
		if !d.halfBit {
			d.halfBit = true
			return nil
		}
		d.halfBit = false
		return buf.Push(1)
	}

	d.halfBit = false
	return buf.Push(0)
}
