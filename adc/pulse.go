package adc

const (
	// a pulse may be sampled twice, so the next spike must be at least this far away
	minSpikeDistance = 2
)

// PulseDetector finds the spikes of a differentiated LTC signal. Most samples are
// clustered around zero, the transitions of the biphase-mark signal show up as outliers:
//
//	               *|*
//	               *|*
//	 **           **|**           **
//	----------------|----------------
//
// Any sample with a magnitude greater than half the maximum of its block is a spike.
// The detector keeps counting samples across blocks.
type PulseDetector struct {
	elapsed   int
	seen      bool
	threshold int
}

func NewPulseDetector() *PulseDetector {
	return &PulseDetector{
		elapsed: minSpikeDistance - 1,
	}
}

// Scan reports the gap in samples between consecutive spikes in the block.
func (d *PulseDetector) Scan(block []int16, gap func(int)) {
	d.threshold = Max(block) >> 1

	for _, s := range block {
		d.elapsed++
		if abs(int(s)) <= d.threshold || d.elapsed < minSpikeDistance {
			continue
		}
		gap(d.elapsed)
		d.seen = true
		d.elapsed = 0
	}
}

// Gaps scans the block and collects at most limit gaps. Limit 0 collects all gaps.
func (d *PulseDetector) Gaps(block []int16, limit int) []int {
	result := make([]int, 0, limit)
	d.Scan(block, func(gap int) {
		if limit > 0 && len(result) >= limit {
			return
		}
		result = append(result, gap)
	})
	return result
}

// Threshold is the spike threshold of the last scanned block.
func (d *PulseDetector) Threshold() int {
	return d.threshold
}

// Seen reports whether any spike was found so far.
func (d *PulseDetector) Seen() bool {
	return d.seen
}

// Max returns the maximum absolute sample value in the block.
func Max(block []int16) int {
	result := 0
	for _, s := range block {
		result = max(result, abs(int(s)))
	}
	return result
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
