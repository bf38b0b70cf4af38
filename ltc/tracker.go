package ltc

// TrackerState is the alignment state of the Tracker.
type TrackerState int

const (
	Seeking TrackerState = iota
	Aligned
)

func (s TrackerState) String() string {
	if s == Aligned {
		return "aligned"
	}
	return "seeking"
}

// Consumption is the outcome of one Tracker.Consume call.
type Consumption struct {
	// Consumed is the number of bits to drop from the front of the buffer, including the discarded bits.
	Consumed int
	// Discarded is the number of bits skipped while looking for the sync word.
	Discarded int
	// Frames holds the decoded frames in stream order.
	Frames []Frame
}

// Timecodes returns the timecodes of the decoded frames.
func (c Consumption) Timecodes() []Timecode {
	result := make([]Timecode, len(c.Frames))
	for i, f := range c.Frames {
		result[i] = f.Timecode()
	}
	return result
}

// Tracker finds the frame boundaries in a bit stream and decodes the frames.
type Tracker struct {
	state TrackerState
}

func NewTracker() *Tracker {
	return &Tracker{state: Seeking}
}

func (t *Tracker) State() TrackerState {
	return t.state
}

// Consume looks for the sync word at the start of bits, discarding leading bits that do not
// line up with a frame boundary, and then decodes as many complete frames as possible.
// A frame is only decoded if more bits follow it, unless final is set at the end of the stream.
// Once aligned, a frame that does not end with the sync word is a SyncError.
func (t *Tracker) Consume(bits []byte, final bool) (Consumption, error) {
	var result Consumption

	enough := func(n int) bool {
		if final {
			return n >= FrameBits
		}
		return n > FrameBits
	}

	pos := 0
	found := false
	for enough(len(bits) - pos) {
		if hasSync(bits[pos : pos+FrameBits]) {
			found = true
			break
		}
		pos++
		result.Discarded++
	}
	if !found {
		result.Consumed = pos
		return result, nil
	}
	t.state = Aligned

	for enough(len(bits) - pos) {
		frame, err := UnpackFrame(bits[pos : pos+FrameBits])
		if err != nil {
			result.Consumed = pos
			return result, NewError(SyncError, err)
		}
		if !frame.Valid() {
			result.Consumed = pos
			return result, errorf(SyncError, "lost synchronisation: sync word %04x at bit %d", frame.Sync, pos+FrameBits-syncBits)
		}
		result.Frames = append(result.Frames, frame)
		pos += FrameBits
	}

	result.Consumed = pos
	return result, nil
}
