package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
)

var dumpCmd = &cobra.Command{
	Use:    "dump",
	Short:  "Print the raw datastore document (debug)",
	Long:   `Print the persisted JSON document exactly as stored, after validating that it loads. Useful for debugging; never modifies the datastore.`,
	Hidden: true,
	RunE:   runDump,
}

// runDump executes the dump command.
//
// The collection is loaded first so a corrupt store fails loudly instead
// of being dumped as-is, then the file content is echoed verbatim.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on config or datastore failure
func runDump(cmd *cobra.Command, args []string) error {
	_, path, _, err := loadCollection()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewExitError(errors.ExitFailure, err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
