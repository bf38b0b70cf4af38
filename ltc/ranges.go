package ltc

// Ranges aggregates decoded timecodes into unbroken ranges. Any bits discarded
// after the first frame mark a loss of sync and start a new range.
type Ranges struct {
	closed   []Range
	tracking bool
	start    Timecode
	last     Timecode
	first    Timecode

	pending          int
	discardedAtStart int
	discardedTotal   int
}

func NewRanges() *Ranges {
	return &Ranges{}
}

// Discard records bits that were skipped while looking for the sync word.
func (r *Ranges) Discard(n int) {
	if n <= 0 {
		return
	}
	r.discardedTotal += n
	if !r.tracking {
		r.discardedAtStart += n
		return
	}
	r.pending += n
}

// Frame records a decoded timecode. It returns the range that was closed because of
// discarded bits since the previous frame, if any.
func (r *Ranges) Frame(tc Timecode) (Range, bool) {
	var closed Range
	split := false
	switch {
	case !r.tracking:
		r.tracking = true
		r.first = tc
		r.start = tc
	case r.pending > 0:
		closed = Range{Start: r.start, End: r.last}
		r.closed = append(r.closed, closed)
		r.start = tc
		split = true
	}
	r.pending = 0
	r.last = tc
	return closed, split
}

// Finish closes the open range at the end of the stream.
func (r *Ranges) Finish() {
	if !r.tracking {
		return
	}
	r.closed = append(r.closed, Range{Start: r.start, End: r.last})
	r.tracking = false
}

// Ranges returns the closed ranges in stream order.
func (r *Ranges) Ranges() []Range {
	return r.closed
}

// Tracking reports whether a range is open.
func (r *Ranges) Tracking() bool {
	return r.tracking
}

// DiscardedAtStart is the number of bits discarded before the first frame.
func (r *Ranges) DiscardedAtStart() int {
	return r.discardedAtStart
}

func (r *Ranges) DiscardedTotal() int {
	return r.discardedTotal
}

// First returns the first timecode of the stream.
func (r *Ranges) First() (Timecode, bool) {
	return r.first, r.tracking || len(r.closed) > 0
}

// Last returns the most recent timecode.
func (r *Ranges) Last() (Timecode, bool) {
	return r.last, r.tracking || len(r.closed) > 0
}
