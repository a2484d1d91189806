package carrier

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// fedexIDPattern matches FedEx tracking numbers, which are 12 or 15
// digits for express and ground shipments.
var fedexIDPattern = regexp.MustCompile(`^([0-9]{12}|[0-9]{15})$`)

// defaultFedExBaseURL is the tracking endpoint queried by the FedEx adapter.
const defaultFedExBaseURL = "https://apis.fedex.com/track/v1/trackingnumbers"

// FedEx fetches tracking history from the FedEx tracking API.
type FedEx struct {
	client  Doer
	baseURL string
}

// NewFedEx creates a FedEx adapter using the given HTTP client.
func NewFedEx(client Doer) *FedEx {
	return &FedEx{client: client, baseURL: defaultFedExBaseURL}
}

// Name returns model.CarrierFedEx.
func (f *FedEx) Name() model.Carrier { return model.CarrierFedEx }

// Match reports whether the tracking ID has a FedEx digit-count format.
func (f *FedEx) Match(trackingID string) bool {
	return fedexIDPattern.MatchString(trackingID)
}

// fedexResponse mirrors the subset of the FedEx tracking payload the
// adapter consumes. Scan events arrive newest-first.
type fedexResponse struct {
	TrackResults []struct {
		ScanEvents []struct {
			Date             string `json:"date"`
			EventDescription string `json:"eventDescription"`
			EventType        string `json:"eventType"`
			ScanLocation     string `json:"scanLocation"`
		} `json:"scanEvents"`
	} `json:"trackResults"`
}

// Fetch retrieves and normalizes FedEx scan events for a tracking ID.
//
// Parameters:
//   - ctx: Context carrying the per-fetch deadline
//   - trackingID: FedEx tracking number
//
// Returns:
//   - []model.Event: Normalized history, time ascending
//   - error: *FetchError on failure
func (f *FedEx) Fetch(ctx context.Context, trackingID string) ([]model.Event, error) {
	reqURL := f.baseURL + "?trackingNumber=" + url.QueryEscape(trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransient, Carrier: model.CarrierFedEx, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	var body fedexResponse
	if err := getJSON(f.client, req, model.CarrierFedEx, &body); err != nil {
		return nil, err
	}

	events := []model.Event{}
	for _, res := range body.TrackResults {
		for i := len(res.ScanEvents) - 1; i >= 0; i-- {
			ev := res.ScanEvents[i]
			ts, err := time.Parse(time.RFC3339, ev.Date)
			if err != nil {
				return nil, &FetchError{Kind: FetchParse, Carrier: model.CarrierFedEx, Err: err}
			}
			events = append(events, model.Event{
				Timestamp:   ts,
				Location:    ev.ScanLocation,
				Description: ev.EventDescription,
				RawStatus:   ev.EventType,
			})
		}
	}
	return events, nil
}
