package carrier

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// TestDetect tests the behavior of Registry.Detect.
//
// It verifies:
//   - The UPS "1Z" format detects as UPS
//   - USPS, FedEx, and DHL formats detect as their carriers
//   - Unmatchable ids report no adapter
func TestDetect(t *testing.T) {
	reg := NewRegistry(&http.Client{})

	tests := []struct {
		id   string
		want model.Carrier
		ok   bool
	}{
		{"1Z999AA10123456784", model.CarrierUPS, true},
		{"9205590221123456789012", model.CarrierUSPS, true},
		{"123456789012", model.CarrierFedEx, true},
		{"123456789012345", model.CarrierFedEx, true},
		{"1234567890", model.CarrierDHL, true},
		{"JD0123456789012345", model.CarrierDHL, true},
		{"not-a-tracking-number", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a, ok := reg.Detect(tt.id)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, a.Name())
			}
		})
	}
}

// TestDetectOrder tests the determinism of detection ordering.
//
// It verifies:
//   - When several adapters match, the first in registration order wins
func TestDetectOrder(t *testing.T) {
	matchAll := func(string) bool { return true }
	first := &staticAdapter{name: model.CarrierUPS, match: matchAll}
	second := &staticAdapter{name: model.CarrierDHL, match: matchAll}
	reg := NewRegistryWith(first, second)

	a, ok := reg.Detect("anything")
	require.True(t, ok)
	assert.Equal(t, model.CarrierUPS, a.Name())
}

// TestResolve tests the behavior of Registry.Resolve.
//
// It verifies:
//   - A declared carrier resolves by name without detection
//   - An unknown carrier resolves by format detection
//   - Resolve never mutates the package record
//   - An undetectable id yields a NoAdapterError
func TestResolve(t *testing.T) {
	reg := NewRegistry(&http.Client{})

	t.Run("declared carrier", func(t *testing.T) {
		p := model.NewPackage("whatever-format", "", model.CarrierDHL, testNow)
		a, err := reg.Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, model.CarrierDHL, a.Name())
	})

	t.Run("detection without mutation", func(t *testing.T) {
		p := model.NewPackage("1Z999AA10123456784", "", model.CarrierUnknown, testNow)
		a, err := reg.Resolve(p)
		require.NoError(t, err)
		assert.Equal(t, model.CarrierUPS, a.Name())
		assert.Equal(t, model.CarrierUnknown, p.Carrier)
	})

	t.Run("no adapter found", func(t *testing.T) {
		p := model.NewPackage("???", "", model.CarrierUnknown, testNow)
		_, err := reg.Resolve(p)
		require.Error(t, err)
		var nae *NoAdapterError
		assert.ErrorAs(t, err, &nae)
		assert.Equal(t, "???", nae.ID)
	})
}

// staticAdapter is a minimal adapter for registry ordering tests.
type staticAdapter struct {
	name  model.Carrier
	match func(string) bool
}

func (s *staticAdapter) Name() model.Carrier  { return s.name }
func (s *staticAdapter) Match(id string) bool { return s.match(id) }
func (s *staticAdapter) Fetch(_ context.Context, _ string) ([]model.Event, error) {
	return nil, nil
}
