package ltc

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "ltc"

// Config of a decode run. The fields can be set through LTC_* environment variables.
type Config struct {
	// BlockSize is the number of samples read per block.
	BlockSize int `envconfig:"BLOCK_SIZE" default:"512"`
	// BitBufferSize is the capacity of the pending bit buffer.
	BitBufferSize int `envconfig:"BIT_BUFFER_SIZE" default:"512"`
	// CalibrationGaps is the maximum number of gaps used to detect the frame rate.
	CalibrationGaps  int     `envconfig:"CALIBRATION_GAPS" default:"100"`
	MaxOutlierRatio  float64 `envconfig:"MAX_OUTLIER_RATIO" default:"0.10"`
	DeviationDivisor float64 `envconfig:"DEVIATION_DIVISOR" default:"7"`
	// FPS skips the calibration if > 0.
	FPS int `envconfig:"FPS"`
}

func DefaultConfig() Config {
	return Config{
		BlockSize:        512,
		BitBufferSize:    512,
		CalibrationGaps:  100,
		MaxOutlierRatio:  DefaultMaxOutlierRatio,
		DeviationDivisor: DefaultDeviationDivisor,
	}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var result Config
	err := envconfig.Process(envPrefix, &result)
	if err != nil {
		return Config{}, errors.Wrap(err, "cannot load configuration")
	}
	return result, result.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.BlockSize <= 0:
		return errors.Errorf("invalid block size: %d", c.BlockSize)
	case c.BitBufferSize <= FrameBits:
		return errors.Errorf("invalid bit buffer size: %d, must hold more than one frame", c.BitBufferSize)
	case c.CalibrationGaps <= 0:
		return errors.Errorf("invalid number of calibration gaps: %d", c.CalibrationGaps)
	case c.MaxOutlierRatio <= 0 || c.MaxOutlierRatio > 1:
		return errors.Errorf("invalid outlier ratio: %v", c.MaxOutlierRatio)
	case c.DeviationDivisor <= 0:
		return errors.Errorf("invalid deviation divisor: %v", c.DeviationDivisor)
	case c.FPS < 0:
		return errors.Errorf("invalid frame rate: %d", c.FPS)
	}
	return nil
}

func (c Config) calibrationOptions() CalibrationOptions {
	return CalibrationOptions{
		MaxOutlierRatio:  c.MaxOutlierRatio,
		DeviationDivisor: c.DeviationDivisor,
	}
}
