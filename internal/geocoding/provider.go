package geocoding

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/tidwall/gjson"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestObserver receives the outcome of every outbound service call.
type RequestObserver interface {
	ObserveRequest(service string, duration time.Duration, err error)
}

// AddressGeocoder resolves addresses and points to census geographies.
type AddressGeocoder interface {
	GeocodeAddress(ctx context.Context, query AddressQuery) (*Match, error)
	GeocodeCoordinates(ctx context.Context, lat, lng float64) (gjson.Result, error)
}

// BatchSubmitter uploads one staged chunk file to the batch service and
// returns its rows keyed by row index.
type BatchSubmitter interface {
	SubmitBatch(ctx context.Context, filename string, file io.Reader) ([]models.BatchResult, error)
}

// ReverseGeocoder resolves a point to a formatted address.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64, apiKey string) (string, error)
}

// Service labels reported to the RequestObserver.
const (
	ServiceCensusAddress     = "census_address"
	ServiceCensusCoordinates = "census_coordinates"
	ServiceCensusBatch       = "census_batch"
	ServiceGoogleReverse     = "google_reverse"
)

type noopObserver struct{}

func (noopObserver) ObserveRequest(string, time.Duration, error) {}
