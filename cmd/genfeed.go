package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/feed"
)

var (
	genfeedOutfileFlag string
	genfeedFormatFlag  string
)

var genfeedCmd = &cobra.Command{
	Use:   "genfeed",
	Short: "Generate a syndication feed of tracked packages",
	Long:  `Render the tracked packages as an RSS or Atom feed, one entry per package summarizing its latest event and status, newest first. Writes to --outfile or standard output.`,
	RunE:  runGenfeed,
}

func init() {
	genfeedCmd.Flags().StringVarP(&genfeedOutfileFlag, "outfile", "o", "", "Write the feed to this file instead of stdout")
	genfeedCmd.Flags().StringVarP(&genfeedFormatFlag, "format", "f", "rss", "Feed format: rss or atom")
}

// runGenfeed executes the genfeed command.
//
// This is a pure projection over the loaded collection: it never writes
// the datastore.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on invalid format, datastore failure, or
//     output I/O failure
func runGenfeed(cmd *cobra.Command, args []string) error {
	if genfeedFormatFlag != "rss" && genfeedFormatFlag != "atom" {
		return errors.NewExitErrorf(errors.ExitConfigError, "invalid feed format %q (want rss or atom)", genfeedFormatFlag)
	}

	cfg, _, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	doc := feed.Build(pkgs, cfg.Feed.Title, cfg.Feed.Link, nowFunc())

	var w io.Writer = cmd.OutOrStdout()
	if genfeedOutfileFlag != "" {
		f, err := os.Create(genfeedOutfileFlag)
		if err != nil {
			return errors.NewExitError(errors.ExitFailure, fmt.Errorf("cannot write feed: %w", err))
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if genfeedFormatFlag == "atom" {
		err = doc.WriteAtom(w)
	} else {
		err = doc.WriteRss(w)
	}
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, fmt.Errorf("cannot render feed: %w", err))
	}
	return nil
}
