// Command dmq is the CLI driver for the dmq queue engine: the external
// collaborator described in spec.md §6.3. It selects one of three modes
// against a shared base path — a consumer (-r), a producer (-w), or an
// inspector (-p) — mirroring the original dmq.c main()'s -r/-w/-p switch.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/dmq-project/dmq"
)

var flags struct {
	base    string
	mode    string
	nowait  bool
	verbose bool

	// writer-only
	count int
	delay int64

	// reader-only
	report int
}

var rootCmd = &cobra.Command{
	Use:   "dmq",
	Short: "Durable file-backed producer/consumer queue",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.base, "base", "b", "q", "base path for the queue's 0/1/map files")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug-level logging")

	readCmd.Flags().BoolVar(&flags.nowait, "nowait", false, "use non-blocking receive and exit once the queue is empty")
	readCmd.Flags().IntVar(&flags.report, "report-every", 100000, "log a progress line every N records (0 disables)")

	writeCmd.Flags().StringVarP(&flags.mode, "mode", "m", "newlines", "framing mode on first create: nulls|newlines|frames|raw")
	writeCmd.Flags().IntVarP(&flags.count, "count", "n", 0, "number of records to send (0 means unbounded)")
	writeCmd.Flags().Int64Var(&flags.delay, "delay-ms", 0, "sleep between sends, in milliseconds")

	rootCmd.AddCommand(readCmd, writeCmd, inspectCmd, cleanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds a zap sugared logger the way
// sakateka-yanet2/common/go/logging.Init does: console encoding, color
// when stderr is a terminal, debug level under -v.
func newLogger() (*zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zap.InfoLevel
	if flags.verbose {
		level = zap.DebugLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}

func parseMode(s string) (dmq.Mode, error) {
	switch s {
	case "nulls":
		return dmq.ModeNulls, nil
	case "newlines", "":
		return dmq.ModeNewlines, nil
	case "frames":
		return dmq.ModeFrames, nil
	case "raw":
		return dmq.ModeRaw, nil
	default:
		return dmq.ModeUnspecified, fmt.Errorf("unknown framing mode %q", s)
	}
}
