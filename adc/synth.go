package adc

// Synthesize renders bits as the spike train of a differentiated biphase-mark signal:
// a spike at the start, a spike at the end of every bit cell and an additional spike
// in the middle of a ONE. The spikes alternate in polarity, like the edges of the
// square wave they stand for.
//
// The bit cell length is sampleRate / (fps * 80) samples. Spike positions are rounded
// from the exact cell grid, so fractional cell lengths keep their average.
func Synthesize(bits []byte, sampleRate int, fps int, amplitude int16) []int16 {
	const bitsPerFrame = 80
	cell := float64(sampleRate) / float64(fps*bitsPerFrame)
	length := int(float64(len(bits))*cell+0.5) + 1
	result := make([]int16, length)

	polarity := int16(1)
	spike := func(pos float64) {
		i := int(pos + 0.5)
		if i >= len(result) {
			return
		}
		result[i] = polarity * amplitude
		polarity = -polarity
	}

	spike(0)
	for i, b := range bits {
		start := float64(i) * cell
		if b != 0 {
			spike(start + cell/2)
		}
		spike(start + cell)
	}
	return result
}

// Silence returns n zero samples.
func Silence(n int) []int16 {
	return make([]int16, n)
}
