package cmd

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/parcelwatch/pkg/model"
	"github.com/parcelwatch/parcelwatch/pkg/testutil"
)

// TestListCommand tests the behavior of the list command.
//
// It verifies:
//   - Visible packages render as table rows with their latest event
//   - Old terminal packages are hidden and counted in the footer
//   - The all flag shows everything
func TestListCommand(t *testing.T) {
	setupEnv(t)

	path := seedStore(t,
		testutil.NewPackage("1Z999AA10123456784").
			WithTitle("Kaffeebecher").
			WithCarrier(model.CarrierUPS).
			WithStatus(model.StatusInTransit).
			WithEvent(cmdTestNow.Add(-2*time.Hour), "Out for delivery", "OUT_FOR_DELIVERY").
			Build(),
		testutil.NewPackage("old-delivered").
			WithStatus(model.StatusDelivered).
			WithEvent(cmdTestNow.Add(-30*24*time.Hour), "Delivered", "DELIVERED").
			Build(),
	)

	t.Run("default view", func(t *testing.T) {
		stdout, _, err := runCommand(t, "list", "--datastore", path)
		require.NoError(t, err)

		assert.Contains(t, stdout, "ID")
		assert.Contains(t, stdout, "1Z999AA10123456784")
		assert.Contains(t, stdout, "in_transit")
		assert.Contains(t, stdout, "Out for delivery")
		assert.Contains(t, stdout, "Kaffeebecher")
		assert.NotContains(t, stdout, "old-delivered")
		assert.Contains(t, stdout, "Total packages: 1 (1 hidden; use --all)")
	})

	t.Run("all view", func(t *testing.T) {
		stdout, _, err := runCommand(t, "list", "--all", "--datastore", path)
		require.NoError(t, err)

		assert.Contains(t, stdout, "old-delivered")
		assert.Contains(t, stdout, "Total packages: 2")
		assert.NotContains(t, stdout, "hidden")
	})

	t.Run("never writes the datastore", func(t *testing.T) {
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		_, _, err = runCommand(t, "list", "--datastore", path)
		require.NoError(t, err)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})
}

// TestListEmptyStates tests the list command's empty messages.
//
// It verifies:
//   - An empty store suggests the track command
//   - A store where everything is hidden says so
func TestListEmptyStates(t *testing.T) {
	setupEnv(t)

	t.Run("nothing tracked", func(t *testing.T) {
		path := seedStore(t)
		stdout, _, err := runCommand(t, "list", "--datastore", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No packages tracked yet")
		assert.Contains(t, stdout, "parcelwatch track")
	})

	t.Run("everything hidden", func(t *testing.T) {
		path := seedStore(t, testutil.NewPackage("gone").
			WithStatus(model.StatusHalted).
			WithEvent(cmdTestNow.Add(-60*24*time.Hour), "Returned", "RETURNED").
			Build())

		stdout, _, err := runCommand(t, "list", "--datastore", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No packages to show (1 hidden; use --all)")
	})
}

// TestListEventlessRow tests rendering of packages with no events yet.
//
// It verifies:
//   - The last-event columns show placeholders instead of blanks
func TestListEventlessRow(t *testing.T) {
	setupEnv(t)

	path := seedStore(t, testutil.NewPackage("waiting").Build())
	stdout, _, err := runCommand(t, "list", "--datastore", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "waiting")
	assert.Contains(t, stdout, "-")
	assert.Contains(t, stdout, "new")
}
