package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/parcelwatch/pkg/carrier"
	"github.com/parcelwatch/parcelwatch/pkg/model"
	"github.com/parcelwatch/parcelwatch/pkg/store"
)

// cmdTestNow is the fixed clock commands run on in tests.
var cmdTestNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

// testConfigYAML keeps refresh tests fast and deterministic: a single
// fetch attempt and a staleness window no fixture falls into.
const testConfigYAML = `refresh:
  concurrency: 2
  timeout: 2s
  max_tries: 1
  stale_after: 2160h
`

// resetCommandFlags resets all command flag variables to their default
// values for test isolation.
func resetCommandFlags() {
	// Clear cobra's per-run parse state so required-flag validation is
	// not satisfied by a flag set in an earlier test.
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })

	verboseFlag = false
	configFlag = ""
	datastoreFlag = ""
	trackTitleFlag = ""
	trackCarrierFlag = ""
	editTitleFlag = ""
	updateAllFlag = false
	listAllFlag = false
	genfeedOutfileFlag = ""
	genfeedFormatFlag = "rss"
}

// runCommand executes the CLI with the given arguments and captures its
// output. Flag variables are reset before and after the run.
func runCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetCommandFlags()

	// A nil slice would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}

	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetCommandFlags()
	}()

	err = ExecuteTest()
	return outBuf.String(), errBuf.String(), err
}

// setupEnv isolates a test from the real user environment: fresh HOME,
// no datastore override, fixed clock.
func setupEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(store.EnvStorePath, "")

	oldNow := nowFunc
	nowFunc = func() time.Time { return cmdTestNow }
	t.Cleanup(func() { nowFunc = oldNow })
}

// writeTestConfig writes the fast-refresh test config and returns its
// path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0o644))
	return path
}

// seedStore persists the given packages to a fresh datastore and returns
// its path.
func seedStore(t *testing.T, pkgs ...*model.Package) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.json")
	require.NoError(t, store.Save(path, pkgs))
	return path
}

// readStore loads the datastore back for assertions.
func readStore(t *testing.T, path string) []*model.Package {
	t.Helper()
	pkgs, err := store.Load(path)
	require.NoError(t, err)
	return pkgs
}

// withRegistry substitutes the carrier registry for the update command.
func withRegistry(t *testing.T, adapters ...carrier.Adapter) {
	t.Helper()
	old := newRegistryFunc
	newRegistryFunc = func() *carrier.Registry {
		return carrier.NewRegistryWith(adapters...)
	}
	t.Cleanup(func() { newRegistryFunc = old })
}
