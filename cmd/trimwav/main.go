package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ysh86/LTCtools/wavfile"
)

var flags = struct {
	samples int
	force   bool
}{}

var rootCmd = &cobra.Command{
	Use:          "trimwav <in.wav> <out.wav>",
	Short:        "trimwav - remove samples from the start of a WAV file",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&flags.samples, "samples", "n", 0, "number of samples to remove")
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "overwrite the output file")
	rootCmd.MarkFlagRequired("samples")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := wavfile.Trim(args[0], args[1], flags.samples, flags.force); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d samples removed\n", args[1], flags.samples)
	return nil
}
