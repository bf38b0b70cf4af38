package ltc

import (
	"math"
	"slices"
)

const (
	DefaultMaxOutlierRatio  = 0.10
	DefaultDeviationDivisor = 7
)

// CalibrationOptions are the tolerances of the two-cluster check.
type CalibrationOptions struct {
	// MaxOutlierRatio is the fraction of gaps per cluster that may deviate from the cluster mean.
	MaxOutlierRatio float64
	// DeviationDivisor defines the allowed deviation as the mean of the long gaps divided by this value.
	DeviationDivisor float64
}

func DefaultCalibrationOptions() CalibrationOptions {
	return CalibrationOptions{
		MaxOutlierRatio:  DefaultMaxOutlierRatio,
		DeviationDivisor: DefaultDeviationDivisor,
	}
}

// ClusterStats describes one of the two gap clusters.
type ClusterStats struct {
	Mean     float64
	Count    int
	Outliers int
	Valid    bool
}

// Calibration is the result of a successful frame rate detection.
type Calibration struct {
	FPS  int
	Low  ClusterStats
	High ClusterStats
}

// Calibrate detects the frame rate from gap lengths in samples. LTC gaps form two clusters:
// half bit cells (the halves of a ONE) and full bit cells (a ZERO). The mean of the full
// cells gives the bit rate, and 80 bits make a frame.
func Calibrate(gaps []int, sampleRate int, opts CalibrationOptions) (Calibration, error) {
	if len(gaps) == 0 {
		return Calibration{}, errorf(CalibrationError, "cannot detect frame rate: no spikes found")
	}

	mid := (slices.Max(gaps) + slices.Min(gaps)) / 2
	low := make([]int, 0, len(gaps))
	high := make([]int, 0, len(gaps))
	for _, g := range gaps {
		if g < mid {
			low = append(low, g)
		} else {
			high = append(high, g)
		}
	}
	if len(low) == 0 || len(high) == 0 {
		return Calibration{}, errorf(CalibrationError, "cannot detect frame rate: gaps do not form two clusters (%d short, %d long)", len(low), len(high))
	}

	highMean := mean(high)
	tolerance := highMean / opts.DeviationDivisor
	result := Calibration{
		Low:  clusterStats(low, tolerance, opts.MaxOutlierRatio),
		High: clusterStats(high, tolerance, opts.MaxOutlierRatio),
	}
	if !result.Low.Valid || !result.High.Valid {
		return result, errorf(CalibrationError, "cannot detect frame rate: not an LTC signal (%d/%d short and %d/%d long gaps out of tolerance)",
			result.Low.Outliers, result.Low.Count, result.High.Outliers, result.High.Count)
	}

	result.FPS = int(math.Round(float64(sampleRate) / highMean / FrameBits))
	if result.FPS <= 0 {
		return result, errorf(CalibrationError, "cannot detect frame rate: bit cell of %.1f samples is too long", highMean)
	}
	return result, nil
}

func clusterStats(gaps []int, tolerance float64, maxOutlierRatio float64) ClusterStats {
	result := ClusterStats{
		Mean:  mean(gaps),
		Count: len(gaps),
	}
	for _, g := range gaps {
		if math.Abs(float64(g)-result.Mean) > tolerance {
			result.Outliers++
		}
	}
	result.Valid = float64(result.Outliers)/float64(result.Count) < maxOutlierRatio
	return result
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
