package ltc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Timecode is a SMPTE time of day with frame resolution.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// String formats the timecode as HH:MM:SS:FF.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds, t.Frames)
}

// ParseTimecode parses HH:MM:SS:FF. HH:MM:SS;FF (drop-frame notation) is accepted as well.
func ParseTimecode(s string) (Timecode, error) {
	var t Timecode
	n, _ := fmt.Sscanf(s, "%d:%d:%d:%d", &t.Hours, &t.Minutes, &t.Seconds, &t.Frames)
	if n < 4 {
		n, _ = fmt.Sscanf(s, "%d:%d:%d;%d", &t.Hours, &t.Minutes, &t.Seconds, &t.Frames)
	}
	if n < 4 {
		return Timecode{}, errors.Errorf("invalid timecode %q, HH:MM:SS:FF expected", s)
	}
	if t.Hours > 23 || t.Minutes > 59 || t.Seconds > 59 || t.Frames > 39 ||
		t.Hours < 0 || t.Minutes < 0 || t.Seconds < 0 || t.Frames < 0 {
		return Timecode{}, errors.Errorf("timecode out of range: %q", s)
	}
	return t, nil
}

// Next returns the timecode of the following frame at the given frame rate.
func (t Timecode) Next(fps int) Timecode {
	t.Frames++
	if t.Frames < fps {
		return t
	}
	t.Frames = 0
	t.Seconds++
	if t.Seconds < 60 {
		return t
	}
	t.Seconds = 0
	t.Minutes++
	if t.Minutes < 60 {
		return t
	}
	t.Minutes = 0
	t.Hours = (t.Hours + 1) % 24
	return t
}

// InSeconds returns the timecode as seconds since midnight.
func (t Timecode) InSeconds(fps int) float64 {
	result := float64(t.Hours*3600 + t.Minutes*60 + t.Seconds)
	if fps > 0 {
		result += float64(t.Frames) / float64(fps)
	}
	return result
}

// Range is one unbroken segment of decoded timecode.
type Range struct {
	Start Timecode
	End   Timecode
}

func (r Range) String() string {
	return r.Start.String() + " - " + r.End.String()
}
