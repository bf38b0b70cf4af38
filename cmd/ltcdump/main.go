package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ysh86/LTCtools/adc"
	"github.com/ysh86/LTCtools/ltc"
	"github.com/ysh86/LTCtools/report"
)

var flags = struct {
	fps     int
	verbose int
	quiet   bool
	json    bool
	bits    bool
}{}

var rootCmd = &cobra.Command{
	Use:   "ltcdump <file.wav>",
	Short: "ltcdump - decode the linear timecode (LTC) of a 16 bit PCM WAV file",
	Long: `ltcdump decodes the linear timecode of the first channel of a WAV file
and prints the ranges of unbroken timecode.

The frame rate is detected from the signal unless --fps is given.
The decoder can be tuned with LTC_* environment variables, e.g. LTC_BLOCK_SIZE.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	// errors are part of the report
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().IntVarP(&flags.fps, "fps", "f", 0, "frame rate, detected from the signal if 0")
	rootCmd.Flags().CountVarP(&flags.verbose, "verbose", "v", "more messages, repeat for more (-vv)")
	rootCmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only warnings and errors")
	rootCmd.Flags().BoolVarP(&flags.json, "json", "j", false, "write the report as JSON")
	rootCmd.Flags().BoolVarP(&flags.bits, "bits", "b", false, "the input is a text dump of bits instead of audio")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	collector := report.NewCollector()
	verbosity := 1 + flags.verbose
	if flags.quiet {
		verbosity = 0
	}
	logger := newLogger(cmd.ErrOrStderr(), logLevel(verbosity), flags.json)
	logger.AddHook(collector)

	result, err := decode(args[0], logger)

	r := report.Build(result, err, collector)
	out := cmd.OutOrStdout()
	var writeErr error
	if flags.json {
		writeErr = r.WriteJSON(out)
	} else {
		writeErr = r.WriteText(out)
	}
	if writeErr != nil {
		return writeErr
	}
	return err
}

func newLogger(w io.Writer, level logrus.Level, json bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetOutput(w)
	if json {
		logger.SetOutput(io.Discard)
	}
	logger.SetLevel(level)
	return logger
}

// logLevel maps a verbosity to a log level: 0 warnings, 1 information, 2 debug, 3 or more trace.
func logLevel(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.WarnLevel
	case verbosity == 1:
		return logrus.InfoLevel
	case verbosity == 2:
		return logrus.DebugLevel
	}
	return logrus.TraceLevel
}

func decode(filename string, log logrus.Ext1FieldLogger) (*ltc.Result, error) {
	cfg, err := ltc.LoadConfig()
	if err != nil {
		return nil, ltc.NewError(ltc.ResourceError, err)
	}
	if flags.fps > 0 {
		cfg.FPS = flags.fps
	}

	if flags.bits {
		return decodeBits(filename, cfg, log)
	}

	src, err := adc.OpenWav(filename)
	if errors.Is(err, adc.ErrUnsupportedFormat) {
		return nil, ltc.NewError(ltc.FormatError, err)
	}
	if err != nil {
		return nil, ltc.NewError(ltc.InputError, err)
	}
	defer src.Close()

	format := src.Format()
	log.Infof("%s: %d channel(s), %d bits, %v", filename, format.NumChannels, format.BitsPerSample, src.Duration())
	return ltc.NewDecoder(cfg, log).Run(src)
}

func decodeBits(filename string, cfg ltc.Config, log logrus.Ext1FieldLogger) (*ltc.Result, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, ltc.NewError(ltc.InputError, errors.Wrap(err, "cannot open input"))
	}
	defer f.Close()

	bits, err := adc.ReadTextBits(f)
	if err != nil {
		return nil, ltc.NewError(ltc.InputError, err)
	}
	log.Infof("%s: %d bits", filename, len(bits))
	return ltc.DecodeBits(bits, cfg, log)
}
