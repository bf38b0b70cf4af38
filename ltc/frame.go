package ltc

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// FrameBits is the length of one LTC frame in bits.
	FrameBits = 80
	// SyncWord terminates every frame, bits 64..79 read LSB-first.
	SyncWord uint16 = 0xBFFC

	syncBits  = 16
	frameSize = FrameBits / 8
)

var syncPattern = [syncBits]byte{0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 1}

// Frame holds the fields of one LTC frame. The user bits are not decoded.
type Frame struct {
	FrameUnits int
	FrameTens  int
	SecsUnits  int
	SecsTens   int
	MinsUnits  int
	MinsTens   int
	HoursUnits int
	HoursTens  int
	DropFrame  bool
	ColorFrame bool
	PhaseBit   bool
	GroupFlags [3]bool
	Sync       uint16
}

// packFrame packs 80 bits into 10 bytes, LSB first.
func packFrame(bits []byte) [frameSize]byte {
	var result [frameSize]byte
	for i := range result {
		for j, b := range bits[i*8 : i*8+8] {
			result[i] |= (b & 1) << j
		}
	}
	return result
}

// UnpackFrame decodes 80 bits into a frame. The sync word is not checked, see Frame.Valid.
func UnpackFrame(bits []byte) (Frame, error) {
	if len(bits) != FrameBits {
		return Frame{}, errors.Errorf("invalid frame length: %d", len(bits))
	}
	b := packFrame(bits)

	return Frame{
		FrameUnits: int(b[0] & 0x0f),
		FrameTens:  int(b[1] & 0x03),
		DropFrame:  b[1]&0x04 != 0,
		ColorFrame: b[1]&0x08 != 0,
		SecsUnits:  int(b[2] & 0x0f),
		SecsTens:   int(b[3] & 0x07),
		PhaseBit:   b[3]&0x08 != 0,
		MinsUnits:  int(b[4] & 0x0f),
		MinsTens:   int(b[5] & 0x07),
		HoursUnits: int(b[6] & 0x0f),
		HoursTens:  int(b[7] & 0x03),
		GroupFlags: [3]bool{b[5]&0x08 != 0, b[7]&0x04 != 0, b[7]&0x08 != 0},
		Sync:       uint16(b[8]) | uint16(b[9])<<8,
	}, nil
}

// Valid reports whether the frame ends with the sync word.
func (f Frame) Valid() bool {
	return f.Sync == SyncWord
}

// Timecode converts the BCD fields.
func (f Frame) Timecode() Timecode {
	return Timecode{
		Hours:   f.HoursUnits + 10*f.HoursTens,
		Minutes: f.MinsUnits + 10*f.MinsTens,
		Seconds: f.SecsUnits + 10*f.SecsTens,
		Frames:  f.FrameUnits + 10*f.FrameTens,
	}
}

// FrameOf returns a valid frame that carries the given timecode.
func FrameOf(t Timecode) Frame {
	return Frame{
		FrameUnits: t.Frames % 10,
		FrameTens:  t.Frames / 10,
		SecsUnits:  t.Seconds % 10,
		SecsTens:   t.Seconds / 10,
		MinsUnits:  t.Minutes % 10,
		MinsTens:   t.Minutes / 10,
		HoursUnits: t.Hours % 10,
		HoursTens:  t.Hours / 10,
		Sync:       SyncWord,
	}
}

// Bits encodes the frame into 80 bits, LSB first within each byte.
func (f Frame) Bits() []byte {
	var b [frameSize]byte
	b[0] = byte(f.FrameUnits & 0x0f)
	b[1] = byte(f.FrameTens&0x03) | flag(f.DropFrame, 0x04) | flag(f.ColorFrame, 0x08)
	b[2] = byte(f.SecsUnits & 0x0f)
	b[3] = byte(f.SecsTens&0x07) | flag(f.PhaseBit, 0x08)
	b[4] = byte(f.MinsUnits & 0x0f)
	b[5] = byte(f.MinsTens&0x07) | flag(f.GroupFlags[0], 0x08)
	b[6] = byte(f.HoursUnits & 0x0f)
	b[7] = byte(f.HoursTens&0x03) | flag(f.GroupFlags[1], 0x04) | flag(f.GroupFlags[2], 0x08)
	b[8] = byte(f.Sync)
	b[9] = byte(f.Sync >> 8)

	result := make([]byte, 0, FrameBits)
	for _, v := range b {
		for j := 0; j < 8; j++ {
			result = append(result, (v>>j)&1)
		}
	}
	return result
}

func flag(set bool, mask byte) byte {
	if set {
		return mask
	}
	return 0
}

// hasSync reports whether bits ends with the sync pattern.
func hasSync(bits []byte) bool {
	tail := bits[len(bits)-syncBits:]
	for i, b := range syncPattern {
		if tail[i] != b {
			return false
		}
	}
	return true
}

// BitString renders bits as a string of '0' and '1'.
func BitString(bits []byte) string {
	var sb strings.Builder
	sb.Grow(len(bits))
	for _, b := range bits {
		if b == 0 {
			sb.WriteByte('0')
		} else {
			sb.WriteByte('1')
		}
	}
	return sb.String()
}
