package carrier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/parcelwatch/parcelwatch/pkg/model"
)

// maxResponseBytes caps carrier response bodies to keep a misbehaving
// endpoint from exhausting memory.
const maxResponseBytes = 4 << 20

// Doer is the minimal HTTP client surface adapters depend on. It is
// satisfied by *http.Client and by test doubles.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// getJSON issues a GET request and decodes the JSON response body into v,
// classifying failures into the FetchError taxonomy.
//
// Classification:
//   - request construction or network failure: FetchTransient
//   - HTTP 404: FetchNotFound
//   - HTTP 429 or any 5xx: FetchTransient
//   - other non-200 statuses: FetchParse (unexpected carrier behavior)
//   - JSON decode failure: FetchParse
//
// Parameters:
//   - c: HTTP client to issue the request with
//   - req: Prepared GET request (context already attached)
//   - name: Carrier attributed on any FetchError
//   - v: Destination for the decoded JSON body
//
// Returns:
//   - error: nil on success, otherwise a *FetchError
func getJSON(c Doer, req *http.Request, name model.Carrier, v interface{}) error {
	resp, err := c.Do(req)
	if err != nil {
		return &FetchError{Kind: FetchTransient, Carrier: name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decode.
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Kind: FetchNotFound, Carrier: name, Err: errors.New("tracking number not recognized")}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return &FetchError{Kind: FetchTransient, Carrier: name, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	default:
		return &FetchError{Kind: FetchParse, Carrier: name, Err: fmt.Errorf("unexpected HTTP %d", resp.StatusCode)}
	}

	body := io.LimitReader(resp.Body, maxResponseBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return &FetchError{Kind: FetchParse, Carrier: name, Err: err}
	}
	return nil
}
