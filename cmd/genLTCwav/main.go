package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/youpy/go-wav"

	"github.com/ysh86/LTCtools/adc"
	"github.com/ysh86/LTCtools/ltc"
	"github.com/ysh86/LTCtools/wavfile"
)

var flags = struct {
	start     string
	fps       int
	frames    int
	rate      int
	amplitude int
	bits      bool
	force     bool
}{}

var rootCmd = &cobra.Command{
	Use:   "genLTCwav <out.wav>",
	Short: "genLTCwav - generate a test signal with linear timecode",
	Long: `genLTCwav writes a mono 16 bit WAV file with consecutive LTC frames,
rendered as the spike train of a differentiated biphase-mark signal.
With --bits the frames are written as a text dump of bits instead.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flags.start, "start", "00:00:00:00", "timecode of the first frame")
	rootCmd.Flags().IntVar(&flags.fps, "fps", 25, "frame rate")
	rootCmd.Flags().IntVar(&flags.frames, "frames", 250, "number of frames")
	rootCmd.Flags().IntVar(&flags.rate, "rate", 48000, "sample rate in Hz")
	rootCmd.Flags().IntVar(&flags.amplitude, "amplitude", 16384, "spike amplitude")
	rootCmd.Flags().BoolVarP(&flags.bits, "bits", "b", false, "write a text dump of bits")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "overwrite the output file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flags.fps <= 0 || flags.rate <= 0 || flags.frames < 0 {
		return errors.Errorf("invalid parameters: %dfps, %dHz, %d frames", flags.fps, flags.rate, flags.frames)
	}
	if flags.amplitude <= 0 || flags.amplitude > 32767 {
		return errors.Errorf("invalid amplitude: %d", flags.amplitude)
	}
	start, err := ltc.ParseTimecode(flags.start)
	if err != nil {
		return err
	}

	// step1: timecode to bits
	bits := make([]byte, 0, flags.frames*ltc.FrameBits)
	tc := start
	for i := 0; i < flags.frames; i++ {
		bits = append(bits, ltc.FrameOf(tc).Bits()...)
		tc = tc.Next(flags.fps)
	}

	out, err := wavfile.Create(args[0], flags.force)
	if err != nil {
		return err
	}
	defer out.Close()

	if flags.bits {
		if err := adc.WriteTextBits(out, bits, ltc.FrameBits); err != nil {
			return err
		}
		return errors.Wrap(out.Close(), "cannot close output")
	}

	// step2: bits to spikes
	pcm := adc.Synthesize(bits, flags.rate, flags.fps, int16(flags.amplitude))

	// step3: spikes to wav, 1ch 16bit
	samples := make([]wav.Sample, len(pcm))
	for i, s := range pcm {
		samples[i].Values[0] = int(s)
	}
	writer := wav.NewWriter(out, uint32(len(samples)), 1, uint32(flags.rate), 16)
	if err := writer.WriteSamples(samples); err != nil {
		return errors.Wrap(err, "cannot write samples")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "cannot close output")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d frames from %s, %d samples\n", args[0], flags.frames, start, len(samples))
	return nil
}
