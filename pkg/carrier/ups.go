package carrier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// upsIDPattern matches UPS tracking numbers: "1Z" followed by a 6-character
// shipper account, a 2-digit service code, and an 8-digit identifier.
var upsIDPattern = regexp.MustCompile(`^1Z[0-9A-Z]{16}$`)

// defaultUPSBaseURL is the tracking endpoint queried by the UPS adapter.
const defaultUPSBaseURL = "https://onlinetools.ups.com/track/v1/details"

// UPS fetches tracking history from the UPS tracking API.
type UPS struct {
	client  Doer
	baseURL string
}

// NewUPS creates a UPS adapter using the given HTTP client.
//
// Parameters:
//   - client: HTTP client for tracking requests
//
// Returns:
//   - *UPS: Adapter pointed at the production endpoint
func NewUPS(client Doer) *UPS {
	return &UPS{client: client, baseURL: defaultUPSBaseURL}
}

// Name returns model.CarrierUPS.
func (u *UPS) Name() model.Carrier { return model.CarrierUPS }

// Match reports whether the tracking ID has the UPS "1Z" format.
func (u *UPS) Match(trackingID string) bool {
	return upsIDPattern.MatchString(trackingID)
}

// upsResponse mirrors the subset of the UPS tracking payload the adapter
// consumes. Activities arrive newest-first.
type upsResponse struct {
	TrackResponse struct {
		Shipment []struct {
			Activity []struct {
				Timestamp string `json:"timestamp"`
				Location  string `json:"location"`
				Status    struct {
					Code        string `json:"code"`
					Description string `json:"description"`
				} `json:"status"`
			} `json:"activity"`
		} `json:"shipment"`
	} `json:"trackResponse"`
}

// Fetch retrieves and normalizes UPS tracking activity for a tracking ID.
//
// An empty shipment list means UPS has no information yet and yields an
// empty event slice, not an error.
//
// Parameters:
//   - ctx: Context carrying the per-fetch deadline
//   - trackingID: UPS tracking number
//
// Returns:
//   - []model.Event: Normalized history, time ascending
//   - error: *FetchError on failure
func (u *UPS) Fetch(ctx context.Context, trackingID string) ([]model.Event, error) {
	reqURL := fmt.Sprintf("%s/%s", u.baseURL, url.PathEscape(trackingID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransient, Carrier: model.CarrierUPS, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	var body upsResponse
	if err := getJSON(u.client, req, model.CarrierUPS, &body); err != nil {
		return nil, err
	}

	events := []model.Event{}
	for _, shp := range body.TrackResponse.Shipment {
		// Newest-first from UPS; walk backwards for ascending order.
		for i := len(shp.Activity) - 1; i >= 0; i-- {
			act := shp.Activity[i]
			ts, err := time.Parse(time.RFC3339, act.Timestamp)
			if err != nil {
				return nil, &FetchError{Kind: FetchParse, Carrier: model.CarrierUPS, Err: err}
			}
			events = append(events, model.Event{
				Timestamp:   ts,
				Location:    act.Location,
				Description: act.Status.Description,
				RawStatus:   act.Status.Code,
			})
		}
	}
	return events, nil
}
