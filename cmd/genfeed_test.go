package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/parcelwatch/pkg/errors"
	"github.com/parcelwatch/parcelwatch/pkg/model"
	"github.com/parcelwatch/parcelwatch/pkg/testutil"
)

// TestGenfeedCommand tests the behavior of the genfeed command.
//
// It verifies:
//   - The default output is an RSS document with one item per package
//   - Entries carry the package title, status, and latest event
//   - The atom format renders an Atom document
func TestGenfeedCommand(t *testing.T) {
	setupEnv(t)

	path := seedStore(t,
		testutil.NewPackage("1Z999AA10123456784").
			WithTitle("Kaffeebecher").
			WithStatus(model.StatusInTransit).
			WithEvent(cmdTestNow.Add(-time.Hour), "Out for delivery", "OUT_FOR_DELIVERY").
			Build(),
		testutil.NewPackage("waiting").Build(),
	)

	t.Run("rss by default", func(t *testing.T) {
		stdout, _, err := runCommand(t, "genfeed", "--datastore", path)
		require.NoError(t, err)

		assert.Contains(t, stdout, "<rss")
		assert.Contains(t, stdout, "Kaffeebecher [in_transit]")
		assert.Contains(t, stdout, "Out for delivery")
		assert.Contains(t, stdout, "no tracking events yet")
	})

	t.Run("atom format", func(t *testing.T) {
		stdout, _, err := runCommand(t, "genfeed", "--format", "atom", "--datastore", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "<feed")
		assert.Contains(t, stdout, "Kaffeebecher [in_transit]")
	})
}

// TestGenfeedOutfile tests writing the feed to a file.
//
// It verifies:
//   - The document lands in the named file instead of stdout
func TestGenfeedOutfile(t *testing.T) {
	setupEnv(t)

	path := seedStore(t, testutil.NewPackage("42").Build())
	outfile := filepath.Join(t.TempDir(), "feed.xml")

	stdout, _, err := runCommand(t, "genfeed", "--outfile", outfile, "--datastore", path)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "<rss")

	data, err := os.ReadFile(outfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<rss")
}

// TestGenfeedInvalidFormat tests format validation.
//
// It verifies:
//   - An unknown format is a configuration error, raised before the
//     datastore is touched
func TestGenfeedInvalidFormat(t *testing.T) {
	setupEnv(t)

	_, _, err := runCommand(t, "genfeed", "--format", "jsonfeed")
	require.Error(t, err)
	assert.Equal(t, errors.ExitConfigError, errors.GetExitCode(err))
	assert.Contains(t, err.Error(), `invalid feed format "jsonfeed"`)
}

// TestGenfeedNeverWritesStore tests that feed generation is read-only.
//
// It verifies:
//   - The datastore file is byte-for-byte unchanged after genfeed
func TestGenfeedNeverWritesStore(t *testing.T) {
	setupEnv(t)

	path := seedStore(t, testutil.NewPackage("42").Build())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, _, err = runCommand(t, "genfeed", "--datastore", path)
	require.NoError(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}
