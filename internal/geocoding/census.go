package geocoding

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/tidwall/gjson"
)

// Census geocoder defaults.
const (
	CensusBaseURL    = "https://geocoding.geo.census.gov/geocoder"
	DefaultBenchmark = "Public_AR_Current"
	DefaultVintage   = "Current_Current"
)

const (
	censusOneLinePath     = "/geographies/onelineaddress"
	censusCoordinatesPath = "/geographies/coordinates"
	censusBatchPath       = "/geographies/addressbatch"
)

// CensusConfig holds the census endpoint settings.
type CensusConfig struct {
	BaseURL   string // BaseURL is the geocoder root, without a trailing slash.
	Benchmark string // Benchmark selects the address range snapshot.
	Vintage   string // Vintage selects the geography snapshot.
}

// CensusClient talks to the US Census geocoder.
type CensusClient struct {
	client    HTTPClient
	baseURL   string
	benchmark string
	vintage   string
	observer  RequestObserver
	log       *slog.Logger
}

// AddressQuery is a single-address lookup. Street, City and State take
// precedence over Full when all three are set.
type AddressQuery struct {
	Full   string
	Street string
	City   string
	State  string
}

// OneLine returns the address as sent to the one-line endpoint.
func (q AddressQuery) OneLine() (string, error) {
	if q.Street != "" && q.City != "" && q.State != "" {
		return q.Street + ", " + q.City + ", " + q.State, nil
	}
	if strings.TrimSpace(q.Full) == "" {
		return "", newError(KindInvalidInput, nil, "address or street, city and state are required")
	}

	return q.Full, nil
}

// Match is one candidate returned by the census address lookup.
type Match struct {
	raw gjson.Result
}

// NewMatch wraps a raw census address match.
func NewMatch(raw gjson.Result) *Match {
	return &Match{raw: raw}
}

// Raw returns the match as returned by the service.
func (m *Match) Raw() gjson.Result {
	return m.raw
}

// MatchedAddress returns the canonical address string.
func (m *Match) MatchedAddress() string {
	return child(m.raw, "matchedAddress").String()
}

// Coordinates returns the interpolated point of the match.
func (m *Match) Coordinates() models.Coordinates {
	coords := child(m.raw, "coordinates")
	return models.Coordinates{
		Longitude: child(coords, "x").Float(),
		Latitude:  child(coords, "y").Float(),
	}
}

// Address flattens the match into AddressComponents.
func (m *Match) Address() (*models.AddressComponents, error) {
	return BuildAddress(m.raw)
}

// Geography flattens the geographies attached to the match.
func (m *Match) Geography() (*models.GeographyRecord, error) {
	return BuildGeography(child(m.raw, "geographies"))
}

// NewCensusClient creates a census client. Empty config values fall back to
// the public endpoint and current benchmark and vintage.
func NewCensusClient(client HTTPClient, cfg CensusConfig, observer RequestObserver, log *slog.Logger) *CensusClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = CensusBaseURL
	}
	if cfg.Benchmark == "" {
		cfg.Benchmark = DefaultBenchmark
	}
	if cfg.Vintage == "" {
		cfg.Vintage = DefaultVintage
	}
	if observer == nil {
		observer = noopObserver{}
	}

	return &CensusClient{
		client:    client,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		benchmark: cfg.Benchmark,
		vintage:   cfg.Vintage,
		observer:  observer,
		log:       log,
	}
}

// GeocodeAddress resolves one address and returns its first match.
// It returns ErrNoMatch when the service finds no candidate.
func (cc *CensusClient) GeocodeAddress(ctx context.Context, query AddressQuery) (*Match, error) {
	address, err := query.OneLine()
	if err != nil {
		return nil, err
	}

	cc.log.DebugContext(ctx, "Geocoding address using census geocoder", "address", address)

	rawQuery := encodeOrdered(
		"address", address,
		"benchmark", cc.benchmark,
		"vintage", cc.vintage,
		"format", "json",
	)
	body, err := cc.get(ctx, ServiceCensusAddress, censusOneLinePath, rawQuery)
	if err != nil {
		return nil, err
	}

	matches := body.Get("result.addressMatches")
	if !matches.Exists() {
		return nil, newError(KindMissingField, nil, "missing field %q", "result.addressMatches")
	}

	candidates := matches.Array()
	if len(candidates) == 0 {
		cc.log.DebugContext(ctx, "Census geocoder found no match", "address", address)
		return nil, ErrNoMatch
	}

	return NewMatch(candidates[0]), nil
}

// GeocodeCoordinates resolves a point and returns the raw geographies object.
// The service expects x (longitude) before y (latitude).
func (cc *CensusClient) GeocodeCoordinates(ctx context.Context, lat, lng float64) (gjson.Result, error) {
	cc.log.DebugContext(ctx, "Geocoding coordinates using census geocoder", "lat", lat, "lng", lng)

	rawQuery := encodeOrdered(
		"x", formatFloat(lng),
		"y", formatFloat(lat),
		"benchmark", cc.benchmark,
		"vintage", cc.vintage,
		"format", "json",
	)
	body, err := cc.get(ctx, ServiceCensusCoordinates, censusCoordinatesPath, rawQuery)
	if err != nil {
		return gjson.Result{}, err
	}

	geographies := body.Get("result.geographies")
	if !geographies.Exists() {
		return gjson.Result{}, newError(KindMissingField, nil, "missing field %q", "result.geographies")
	}

	return geographies, nil
}

func (cc *CensusClient) get(ctx context.Context, service, path, rawQuery string) (gjson.Result, error) {
	start := time.Now()
	body, err := cc.doGet(ctx, path, rawQuery)
	cc.observer.ObserveRequest(service, time.Since(start), err)

	return body, err
}

func (cc *CensusClient) doGet(ctx context.Context, path, rawQuery string) (gjson.Result, error) {
	reqURL := cc.baseURL + path + "?" + rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, newError(KindInvalidInput, err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cc.client.Do(req)
	if err != nil {
		return gjson.Result{}, newError(KindTransport, err, "failed to execute census request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, newError(KindTransport, err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		cc.log.ErrorContext(ctx, "Census API error", "status", resp.StatusCode, "body", string(body))
		return gjson.Result{}, newError(KindServiceStatus, nil,
			"census API returned status %d: %s", resp.StatusCode, censusErrorMessage(body))
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, newError(KindDecode, nil, "failed to decode census response")
	}

	return gjson.ParseBytes(body), nil
}

// censusErrorMessage pulls the first message out of {"errors": [...]} bodies.
func censusErrorMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "errors.0"); msg.Exists() {
		return msg.String()
	}

	return strings.TrimSpace(string(body))
}

// encodeOrdered encodes key/value pairs keeping the given order, which
// url.Values.Encode does not.
func encodeOrdered(pairs ...string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(pairs[i]))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(pairs[i+1]))
	}

	return sb.String()
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
