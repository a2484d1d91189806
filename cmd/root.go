// Package cmd implements the command-line interface for parcelwatch.
// It provides commands for tracking packages, refreshing their delivery
// status, listing them, and generating a syndication feed.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
)

var exitFunc = os.Exit

var (
	verboseFlag   bool
	configFlag    string
	datastoreFlag string
)

var rootCmd = &cobra.Command{
	Use:   "parcelwatch",
	Short: "Track shipments across carriers",
	Long:  `Track packages across multiple carriers, refresh their delivery status, and publish the results as a list or feed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures zerolog with a console writer on stderr.
//
// The default level is warn so normal command output stays clean;
// --verbose lowers it to debug.
func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// Execute runs the root command and exits with appropriate code:
//   - 0: Success
//   - 1: Partial failure (some packages failed to refresh)
//   - 2: Fatal failure (datastore error, complete refresh failure)
//   - 3: Configuration or argument error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		code := errors.GetExitCode(err)

		if pse, ok := errors.IsPartialSuccess(err); ok {
			log.Debug().Int("succeeded", pse.Succeeded).Int("failed", pse.Failed).
				Msgf("exit code %d: partial success", code)
		} else {
			log.Debug().Err(err).Msgf("exit code %d", code)
		}

		exitFunc(code)
	}
}

// ExecuteTest runs the root command for testing (returns error instead of
// exiting).
//
// Unlike Execute(), this function returns the error directly without
// calling os.Exit, making it suitable for use in test suites.
//
// Returns:
//   - error: Command execution error, or nil on success
func ExecuteTest() error {
	return rootCmd.Execute()
}

// warnf prints a non-fatal warning to the command's error stream.
func warnf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Warning: "+format+"\n", args...)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file path (default: ~/.parcelwatch.yml)")
	rootCmd.PersistentFlags().StringVar(&datastoreFlag, "datastore", "", "Datastore file path (overrides PARCELWATCH_STORE and config)")

	// Commands ordered by workflow: mutate → refresh → project.
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(genfeedCmd)
	rootCmd.AddCommand(dumpCmd)
}
