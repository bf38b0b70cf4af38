package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ysh86/LTCtools/wavfile"
)

var flags = struct {
	force bool
}{}

var rootCmd = &cobra.Command{
	Use:   "riffmerge <meta.wav> <audio.wav> <out.wav>",
	Short: "riffmerge - combine the metadata of one WAV file with the audio of another",
	Long: `riffmerge writes a WAV file with the bext, iXML and PAD chunks of the first file
and the fmt and data chunks of the second file.`,
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wavfile.Merge(args[0], args[1], args[2], flags.force)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flags.force, "force", false, "overwrite the output file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
