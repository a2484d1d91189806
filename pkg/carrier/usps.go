package carrier

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// uspsIDPattern matches USPS IMpb tracking numbers, which begin with a
// 92-95 channel application identifier followed by 20 to 24 digits.
var uspsIDPattern = regexp.MustCompile(`^9[2345][0-9]{20,24}$`)

// defaultUSPSBaseURL is the tracking endpoint queried by the USPS adapter.
const defaultUSPSBaseURL = "https://api.usps.com/tracking/v3/tracking"

// USPS fetches tracking history from the USPS tracking API.
type USPS struct {
	client  Doer
	baseURL string
}

// NewUSPS creates a USPS adapter using the given HTTP client.
func NewUSPS(client Doer) *USPS {
	return &USPS{client: client, baseURL: defaultUSPSBaseURL}
}

// Name returns model.CarrierUSPS.
func (u *USPS) Name() model.Carrier { return model.CarrierUSPS }

// Match reports whether the tracking ID has the USPS IMpb format.
func (u *USPS) Match(trackingID string) bool {
	return uspsIDPattern.MatchString(trackingID)
}

// uspsResponse mirrors the subset of the USPS tracking payload the
// adapter consumes. Summaries arrive newest-first.
type uspsResponse struct {
	TrackingEvents []struct {
		EventTimestamp string `json:"eventTimestamp"`
		EventCity      string `json:"eventCity"`
		EventState     string `json:"eventState"`
		EventCode      string `json:"eventCode"`
		EventText      string `json:"eventText"`
	} `json:"trackingEvents"`
}

// Fetch retrieves and normalizes USPS tracking events for a tracking ID.
//
// Parameters:
//   - ctx: Context carrying the per-fetch deadline
//   - trackingID: USPS tracking number
//
// Returns:
//   - []model.Event: Normalized history, time ascending
//   - error: *FetchError on failure
func (u *USPS) Fetch(ctx context.Context, trackingID string) ([]model.Event, error) {
	reqURL := u.baseURL + "/" + url.PathEscape(trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransient, Carrier: model.CarrierUSPS, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	var body uspsResponse
	if err := getJSON(u.client, req, model.CarrierUSPS, &body); err != nil {
		return nil, err
	}

	events := []model.Event{}
	for i := len(body.TrackingEvents) - 1; i >= 0; i-- {
		ev := body.TrackingEvents[i]
		ts, err := time.Parse(time.RFC3339, ev.EventTimestamp)
		if err != nil {
			return nil, &FetchError{Kind: FetchParse, Carrier: model.CarrierUSPS, Err: err}
		}
		loc := ev.EventCity
		if ev.EventState != "" {
			if loc != "" {
				loc += ", "
			}
			loc += ev.EventState
		}
		events = append(events, model.Event{
			Timestamp:   ts,
			Location:    loc,
			Description: ev.EventText,
			RawStatus:   ev.EventCode,
		})
	}
	return events, nil
}
