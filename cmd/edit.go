package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/model"
)

var editTitleFlag string

var editCmd = &cobra.Command{
	Use:   "edit <tracking-number>",
	Short: "Edit a tracked package's title",
	Long:  `Change the display title of a tracked package. The title is the only user-editable field; everything else is owned by the refresh engine.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editTitleFlag, "title", "t", "", "New display title")
	_ = editCmd.MarkFlagRequired("title")
}

// runEdit executes the edit command.
//
// The package is located by id and its title replaced. An unknown id is
// an error, not a silent no-op.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is the tracking number
//
// Returns:
//   - error: Returns error when the id is not tracked or on datastore failure
func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]

	_, path, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	pkg, found := model.Find(pkgs, id)
	if !found {
		return errors.NewExitErrorf(errors.ExitFailure, "no tracked package with id %q", id)
	}

	pkg.Title = editTitleFlag

	if err := saveCollection(path, pkgs); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", id, pkg.Title)
	return nil
}
