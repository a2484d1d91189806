package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/feed"
	"github.com/parcelwatch/parcelwatch/pkg/model"
	"github.com/parcelwatch/parcelwatch/pkg/output"
)

var listAllFlag bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show tracked packages and their status",
	Long:    `List tracked packages. Delivered and halted packages disappear from the list once their last event is older than the configured cutoff; use --all to show everything.`,
	RunE:    runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAllFlag, "all", "a", false, "Include old delivered and halted packages")
}

// runList executes the list command.
//
// This is a pure projection over the loaded collection: it never writes
// the datastore.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: Returns error on config or datastore failure
func runList(cmd *cobra.Command, args []string) error {
	cfg, _, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	visible := feed.Visible(pkgs, listAllFlag, cfg.List.HideAfter.Std(), nowFunc())
	out := cmd.OutOrStdout()

	if len(visible) == 0 {
		if len(pkgs) > 0 {
			fmt.Fprintf(out, "No packages to show (%d hidden; use --all)\n", len(pkgs))
		} else {
			fmt.Fprintln(out, "No packages tracked yet. Add one with: parcelwatch track <tracking-number>")
		}
		return nil
	}

	table := output.NewTable().
		AddColumn("ID").
		AddColumn("CARRIER").
		AddColumn("STATUS").
		AddColumn("LAST EVENT").
		AddColumn("WHEN").
		AddColumn("TITLE")

	rows := make([][]string, 0, len(visible))
	for _, p := range visible {
		row := listRow(p)
		table.UpdateWidths(row...)
		rows = append(rows, row)
	}

	fmt.Fprintln(out, table.HeaderRow())
	fmt.Fprintln(out, table.SeparatorRow())
	for _, row := range rows {
		fmt.Fprintln(out, table.FormatRow(row...))
	}

	if hidden := len(pkgs) - len(visible); hidden > 0 {
		fmt.Fprintf(out, "\nTotal packages: %d (%d hidden; use --all)\n", len(visible), hidden)
	} else {
		fmt.Fprintf(out, "\nTotal packages: %d\n", len(visible))
	}
	return nil
}

// listRow formats the display values for a single package.
//
// Parameters:
//   - p: Package to format
//
// Returns:
//   - []string: Column values in table order
func listRow(p *model.Package) []string {
	lastDesc := "-"
	lastWhen := "-"
	if last, ok := p.LatestEvent(); ok {
		lastDesc = last.Description
		lastWhen = last.Timestamp.Format("2006-01-02 15:04")
	}
	return []string{p.ID, string(p.Carrier), string(p.Status), lastDesc, lastWhen, p.Title}
}
