package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/whelk-sh/whelk/internal/shell"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0-dev"

var (
	verbosity int

	rootCmd = &cobra.Command{
		Use:   "whelk",
		Short: "Shell integration for whelk environments",
		Long: `whelk wires package environments into your shell. It installs a
managed block into your startup files, emits activation code for nine
shell dialects, and can drop you straight into an activated subshell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.AddCommand(shellCmd)
}

// setupLogging configures the global zerolog logger. Everything goes
// to stderr; stdout is reserved for emitted shell source, which the
// calling shell evals.
func setupLogging(verbosity int) {
	if verbosity < 2 && os.Getenv(shell.EnvDebug) != "" {
		verbosity = 2
	}
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).With().Timestamp().Logger()
}
