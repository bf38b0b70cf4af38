package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ysh86/LTCtools/wavfile"
)

var flags = struct {
	samples      int
	microseconds int64
	force        bool
}{}

var rootCmd = &cobra.Command{
	Use:          "padwav <in.wav> <out.wav>",
	Short:        "padwav - insert silence at the start of a WAV file",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&flags.samples, "samples", "n", 0, "number of samples to insert")
	rootCmd.Flags().Int64VarP(&flags.microseconds, "microseconds", "m", 0, "length of the silence in microseconds")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "overwrite the output file")
	rootCmd.MarkFlagsMutuallyExclusive("samples", "microseconds")
	rootCmd.MarkFlagsOneRequired("samples", "microseconds")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	n := flags.samples
	if flags.microseconds != 0 {
		rate, err := wavfile.SampleRate(args[0])
		if err != nil {
			return err
		}
		n = wavfile.MicrosecondsToSamples(flags.microseconds, rate)
	}
	if n < 0 {
		return errors.Errorf("invalid length: %d samples", n)
	}

	if err := wavfile.Pad(args[0], args[1], n, flags.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples of silence inserted\n", args[1], n)
	return nil
}
