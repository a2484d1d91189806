package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/parcelwatch/parcelwatch/pkg/carrier"
	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/output"
	"github.com/parcelwatch/parcelwatch/pkg/refresh"
)

var updateAllFlag bool

// newRegistryFunc builds the carrier registry; tests substitute a
// registry of fakes.
var newRegistryFunc = func() *carrier.Registry {
	return carrier.NewRegistry(&http.Client{})
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh delivery status from the carriers",
	Long:  `Fetch the latest tracking events for every package that is not yet delivered or halted, advance each package's status, and commit the results in a single datastore write. Per-package fetch failures never abort the run.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVarP(&updateAllFlag, "all", "a", false, "Also refresh delivered and halted packages")
}

// runUpdate executes the update command.
//
// The collection is loaded once, refreshed by the engine, and saved once
// after all per-package results are collected, so successes commit even
// when other packages fail. The summary distinguishes updated, unchanged,
// terminal, transient, and needs-attention packages.
//
// Parameters:
//   - cmd: Cobra command instance
//   - args: Unused
//
// Returns:
//   - error: PartialSuccessError on mixed results, ExitError when every
//     eligible package failed or on datastore failure
func runUpdate(cmd *cobra.Command, args []string) error {
	cfg, path, pkgs, err := loadCollection()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(pkgs) == 0 {
		fmt.Fprintln(out, "No packages tracked yet. Add one with: parcelwatch track <tracking-number>")
		return nil
	}

	engine := &refresh.Engine{
		Registry:        newRegistryFunc(),
		Concurrency:     cfg.Refresh.Concurrency,
		Timeout:         cfg.Refresh.Timeout.Std(),
		MaxTries:        cfg.Refresh.MaxTries,
		StaleAfter:      cfg.Refresh.StaleAfter.Std(),
		IncludeTerminal: updateAllFlag,
		Now:             nowFunc,
	}

	report := engine.RefreshAll(cmd.Context(), pkgs)

	// One write per invocation, after all results are in. Failed
	// packages are untouched in memory, so committing the whole
	// collection persists only the successful refreshes.
	if err := saveCollection(path, pkgs); err != nil {
		return err
	}

	printReport(cmd, report)
	return reportError(report)
}

// printReport prints the per-package result table and the summary line.
//
// Parameters:
//   - cmd: Cobra command instance for output streams
//   - report: Engine report to display
func printReport(cmd *cobra.Command, report *refresh.Report) {
	out := cmd.OutOrStdout()

	table := output.NewTable().
		AddColumn("ID").
		AddColumn("STATUS").
		AddColumn("RESULT").
		AddColumn("DETAIL")

	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		detail := ""
		switch {
		case res.Err != nil:
			detail = res.Err.Error()
		case res.Added > 0:
			detail = fmt.Sprintf("+%d events", res.Added)
		}
		row := []string{res.ID, string(res.Status), res.Outcome.Label(), detail}
		table.UpdateWidths(row...)
		rows = append(rows, row)
	}

	fmt.Fprintln(out, table.HeaderRow())
	fmt.Fprintln(out, table.SeparatorRow())
	for _, row := range rows {
		fmt.Fprintln(out, table.FormatRow(row...))
	}

	fmt.Fprintf(out, "\nSummary: %d updated, %d unchanged, %d terminal, %d skipped, %d need attention\n",
		report.Count(refresh.OutcomeUpdated),
		report.Count(refresh.OutcomeUnchanged),
		report.Count(refresh.OutcomeTerminal),
		report.Count(refresh.OutcomeTransient),
		report.Count(refresh.OutcomeAttention),
	)
}

// reportError converts a refresh report into the command's error value.
//
// No failures returns nil. Mixed success returns a PartialSuccessError
// (exit 1). Every eligible package failing returns ExitFailure.
//
// Parameters:
//   - report: Engine report to classify
//
// Returns:
//   - error: nil, *errors.PartialSuccessError, or *errors.ExitError
func reportError(report *refresh.Report) error {
	failed := report.Count(refresh.OutcomeTransient) + report.Count(refresh.OutcomeAttention)
	if failed == 0 {
		return nil
	}

	succeeded := report.Count(refresh.OutcomeUpdated) + report.Count(refresh.OutcomeUnchanged)
	if succeeded == 0 {
		return errors.NewExitErrorf(errors.ExitFailure, "all %d eligible packages failed to refresh", failed)
	}
	return errors.NewPartialSuccessError(succeeded, failed, report.Errors())
}
