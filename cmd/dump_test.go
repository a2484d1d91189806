package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/testutil"
)

// TestDumpCommand tests the behavior of the dump command.
//
// It verifies:
//   - The persisted document is echoed verbatim
func TestDumpCommand(t *testing.T) {
	setupEnv(t)

	path := seedStore(t, testutil.NewPackage("42").WithTitle("the answer").Build())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	stdout, _, err := runCommand(t, "dump", "--datastore", path)
	require.NoError(t, err)
	assert.Equal(t, string(raw), stdout)
}

// TestDumpCorruptStore tests dumping an unusable datastore.
//
// It verifies:
//   - A corrupt store fails loudly instead of being echoed as-is
func TestDumpCorruptStore(t *testing.T) {
	setupEnv(t)

	path := seedStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	stdout, _, err := runCommand(t, "dump", "--datastore", path)
	require.Error(t, err)
	assert.Equal(t, errors.ExitFailure, errors.GetExitCode(err))
	assert.Empty(t, stdout)
}
