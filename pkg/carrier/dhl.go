package carrier

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// dhlIDPattern matches DHL waybill numbers (10 digits) and DHL eCommerce
// "JD" identifiers.
var dhlIDPattern = regexp.MustCompile(`^([0-9]{10}|JD[0-9]{16,18})$`)

// defaultDHLBaseURL is the tracking endpoint queried by the DHL adapter.
const defaultDHLBaseURL = "https://api-eu.dhl.com/track/shipments"

// DHL fetches tracking history from the DHL unified tracking API.
type DHL struct {
	client  Doer
	baseURL string
}

// NewDHL creates a DHL adapter using the given HTTP client.
func NewDHL(client Doer) *DHL {
	return &DHL{client: client, baseURL: defaultDHLBaseURL}
}

// Name returns model.CarrierDHL.
func (d *DHL) Name() model.Carrier { return model.CarrierDHL }

// Match reports whether the tracking ID has a DHL waybill or JD format.
func (d *DHL) Match(trackingID string) bool {
	return dhlIDPattern.MatchString(trackingID)
}

// dhlResponse mirrors the subset of the DHL unified tracking payload the
// adapter consumes. Events arrive newest-first.
type dhlResponse struct {
	Shipments []struct {
		Events []struct {
			Timestamp   string `json:"timestamp"`
			StatusCode  string `json:"statusCode"`
			Description string `json:"description"`
			Location    struct {
				Address struct {
					AddressLocality string `json:"addressLocality"`
				} `json:"address"`
			} `json:"location"`
		} `json:"events"`
	} `json:"shipments"`
}

// Fetch retrieves and normalizes DHL shipment events for a tracking ID.
//
// Parameters:
//   - ctx: Context carrying the per-fetch deadline
//   - trackingID: DHL tracking number
//
// Returns:
//   - []model.Event: Normalized history, time ascending
//   - error: *FetchError on failure
func (d *DHL) Fetch(ctx context.Context, trackingID string) ([]model.Event, error) {
	reqURL := d.baseURL + "?trackingNumber=" + url.QueryEscape(trackingID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: FetchTransient, Carrier: model.CarrierDHL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	var body dhlResponse
	if err := getJSON(d.client, req, model.CarrierDHL, &body); err != nil {
		return nil, err
	}

	events := []model.Event{}
	for _, shp := range body.Shipments {
		for i := len(shp.Events) - 1; i >= 0; i-- {
			ev := shp.Events[i]
			ts, err := time.Parse(time.RFC3339, ev.Timestamp)
			if err != nil {
				return nil, &FetchError{Kind: FetchParse, Carrier: model.CarrierDHL, Err: err}
			}
			events = append(events, model.Event{
				Timestamp:   ts,
				Location:    ev.Location.Address.AddressLocality,
				Description: ev.Description,
				RawStatus:   ev.StatusCode,
			})
		}
	}
	return events, nil
}
