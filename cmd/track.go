package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/model"
)

var (
	trackTitleFlag   string
	trackCarrierFlag string
)

var trackCmd = &cobra.Command{
	Use:     "track <tracking-number>",
	Aliases: []string{"add"},
	Short:   "Start tracking a package",
	Long:    `Add a package to the datastore. The carrier is detected from the tracking number format on the first refresh unless declared with --carrier.`,
	Args:    cobra.ExactArgs(1),
	RunE:    runTrack,
}

func init() {
	trackCmd.Flags().StringVarP(&trackTitleFlag, "title", "t", "", "Display title (default: the tracking number)")
	trackCmd.Flags().StringVarP(&trackCarrierFlag, "carrier", "c", "", "Carrier: ups, usps, fedex, dhl (default: detect)")
}

// runTrack executes the track command.
//
// Tracking an id that is already present is an idempotent no-op: the
// command warns and leaves the existing record, including its events,
// untouched. The run is not aborted and exits successfully.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: args[0] is the tracking number
//
// Returns:
//   - error: Returns error on invalid carrier or datastore failure
func runTrack(cmd *cobra.Command, args []string) error {
	id := args[0]

	carrierName, err := model.ParseCarrier(trackCarrierFlag)
	if err != nil {
		return errors.NewExitError(errors.ExitConfigError, err)
	}

	_, path, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	if _, exists := model.Find(pkgs, id); exists {
		warnf(cmd, "package %s is already tracked; leaving it unchanged", id)
		return nil
	}

	pkg := model.NewPackage(id, trackTitleFlag, carrierName, nowFunc())
	pkgs = append(pkgs, pkg)

	if err := saveCollection(path, pkgs); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s)\n", pkg.ID, pkg.Title)
	return nil
}
