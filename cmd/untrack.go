package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/model"
)

var untrackCmd = &cobra.Command{
	Use:     "untrack <tracking-number>",
	Aliases: []string{"remove", "delete"},
	Short:   "Stop tracking a package",
	Long:    `Remove a package and its entire event history from the datastore. There is no tombstone; the record is gone.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runUntrack,
}

// runUntrack executes the untrack command.
//
// The package is located by id and removed from the collection. An
// unknown id is an error, not a silent no-op.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is the tracking number
//
// Returns:
//   - error: Returns error when the id is not tracked or on datastore failure
func runUntrack(cmd *cobra.Command, args []string) error {
	id := args[0]

	_, path, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	remaining, removed := model.Remove(pkgs, id)
	if !removed {
		return errors.NewExitErrorf(errors.ExitFailure, "no tracked package with id %q", id)
	}

	if err := saveCollection(path, remaining); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Untracked %s\n", id)
	return nil
}
