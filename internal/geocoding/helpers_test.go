package geocoding_test

import (
	"bytes"
	"io"
	"net/http"
	"sync"
	"time"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func respond(status int, body string) *mockHTTPClient {
	return &mockHTTPClient{
		doFunc: func(_ *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
			}, nil
		},
	}
}

type observation struct {
	service string
	err     error
}

// recordingObserver collects ObserveRequest calls.
type recordingObserver struct {
	mu    sync.Mutex
	calls []observation
}

func (ro *recordingObserver) ObserveRequest(service string, _ time.Duration, err error) {
	ro.mu.Lock()
	defer ro.mu.Unlock()
	ro.calls = append(ro.calls, observation{service: service, err: err})
}

const geographiesJSON = `{
	"States": [{"STATE": "17", "BASENAME": "Illinois", "NAME": "Illinois"}],
	"Incorporated Places": [{"NAME": "Springfield city", "BASENAME": "Springfield"}],
	"2020 Census Blocks": [{
		"BLOCK": "1012",
		"CENTLAT": "+39.8017366",
		"CENTLON": "-089.6436457",
		"AREALAND": 20417
	}],
	"Census Tracts": [{"BASENAME": "5", "TRACT": "000500"}]
}`

const addressMatchJSON = `{
	"matchedAddress": "100 MAIN ST, SPRINGFIELD, IL, 62701",
	"coordinates": {"x": -89.6436, "y": 39.8017},
	"tigerLine": {"side": "L", "tigerLineId": "112135428"},
	"addressComponents": {
		"fromAddress": "100",
		"toAddress": "198",
		"preQualifier": "",
		"preDirection": "",
		"preType": "",
		"streetName": "MAIN",
		"suffixType": "ST",
		"suffixDirection": "",
		"suffixQualifier": "",
		"city": "SPRINGFIELD",
		"state": "IL",
		"zip": "62701"
	},
	"geographies": ` + geographiesJSON + `
}`

const oneLineResponseJSON = `{"result": {"input": {}, "addressMatches": [` + addressMatchJSON + `]}}`

const coordinatesResponseJSON = `{"result": {"input": {}, "geographies": ` + geographiesJSON + `}}`
