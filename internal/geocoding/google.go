package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"googlemaps.github.io/maps"
)

// GoogleBaseURL is the Google Maps API root. The geocoding path is appended by maps.Client.
const GoogleBaseURL = "https://maps.googleapis.com"

// GoogleAPIClient is the part of maps.Client used for reverse lookups.
type GoogleAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleReverseGeocoder resolves points to formatted addresses using the
// Google Maps geocoding API. The API key is supplied per call.
type GoogleReverseGeocoder struct {
	client   *http.Client    // HTTP client handed to maps.Client
	baseURL  string          // Base URL for the Maps API
	observer RequestObserver // Observer for request outcomes
	log      *slog.Logger    // Logger for logging operations
}

// doerTransport sends maps.Client requests through an HTTPClient.
type doerTransport struct {
	client HTTPClient
}

func (dt doerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return dt.client.Do(req)
}

// NewGoogleReverseGeocoder creates a reverse geocoder. An empty baseURL
// selects the public endpoint.
func NewGoogleReverseGeocoder(
	client HTTPClient,
	baseURL string,
	observer RequestObserver,
	log *slog.Logger,
) *GoogleReverseGeocoder {
	if baseURL == "" {
		baseURL = GoogleBaseURL
	}
	if observer == nil {
		observer = noopObserver{}
	}

	httpClient, ok := client.(*http.Client)
	if !ok {
		httpClient = &http.Client{Transport: doerTransport{client: client}}
	}

	return &GoogleReverseGeocoder{client: httpClient, baseURL: baseURL, observer: observer, log: log}
}

// ReverseGeocode returns the formatted address of the first result for the
// given point. A non-OK status yields ErrAddressNotFound.
func (gr *GoogleReverseGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64, apiKey string) (string, error) {
	start := time.Now()
	address, err := gr.reverseGeocode(ctx, lat, lng, apiKey)
	gr.observer.ObserveRequest(ServiceGoogleReverse, time.Since(start), err)

	return address, err
}

func (gr *GoogleReverseGeocoder) newAPIClient(apiKey string) (GoogleAPIClient, error) {
	client, err := maps.NewClient(
		maps.WithAPIKey(apiKey),
		maps.WithBaseURL(gr.baseURL),
		maps.WithHTTPClient(gr.client),
	)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (gr *GoogleReverseGeocoder) reverseGeocode(ctx context.Context, lat, lng float64, apiKey string) (string, error) {
	gr.log.DebugContext(ctx, "Reverse geocoding using Google Maps", "lat", lat, "lng", lng)

	client, err := gr.newAPIClient(apiKey)
	if err != nil {
		return "", newError(KindInvalidInput, err, "failed to create Google Maps client")
	}

	results, err := client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", gr.classify(ctx, err)
	}

	if len(results) == 0 {
		gr.log.WarnContext(ctx, "Google Maps returned no address", "lat", lat, "lng", lng)
		return "", ErrAddressNotFound
	}

	return results[0].FormattedAddress, nil
}

// classify maps maps.Client failures onto error kinds. Anything that is not
// a transport or decode failure is a non-OK status reported by the service.
func (gr *GoogleReverseGeocoder) classify(ctx context.Context, err error) error {
	var (
		urlErr    *url.Error
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &urlErr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return newError(KindTransport, err, "failed to execute reverse geocoding request")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		gr.log.ErrorContext(ctx, "Failed to parse Google Maps response", "error", err)
		return newError(KindDecode, err, "failed to decode google response")
	default:
		gr.log.WarnContext(ctx, "Google Maps returned no address", "error", err)
		return ErrAddressNotFound
	}
}
