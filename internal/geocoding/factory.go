package geocoding

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultTimeout is used when ClientConfig.Timeout is not set.
const DefaultTimeout = 30 * time.Second

// ClientConfig holds configuration for creating the geocoding clients.
type ClientConfig struct {
	Census        CensusConfig    // Census endpoint settings
	GoogleBaseURL string          // Google geocoding endpoint (empty for the public one)
	Timeout       time.Duration   // Timeout of a single HTTP request
	HTTPClient    HTTPClient      // Optional transport override, mostly for tests
	Observer      RequestObserver // Observer for request outcomes (metrics)
	Logger        *slog.Logger    // Logger for the clients
}

// Clients bundles the clients built from a single configuration.
type Clients struct {
	Census  *CensusClient
	Reverse *GoogleReverseGeocoder
}

// ErrNilLogger is returned when the configuration carries no logger.
var ErrNilLogger = errors.New("logger is required")

// NewClients creates the census and Google clients from the configuration.
// Both share one HTTP client.
//
// Returns an error if a base URL is not an absolute http(s) URL.
func NewClients(config ClientConfig) (*Clients, error) {
	if config.Logger == nil {
		return nil, ErrNilLogger
	}

	if config.Census.BaseURL != "" {
		if err := validateBaseURL(config.Census.BaseURL); err != nil {
			return nil, eris.Wrap(err, "invalid census base URL")
		}
	}
	if config.GoogleBaseURL != "" {
		if err := validateBaseURL(config.GoogleBaseURL); err != nil {
			return nil, eris.Wrap(err, "invalid google base URL")
		}
	}

	client := config.HTTPClient
	if client == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
			config.Logger.Warn("HTTP timeout not set, set a default value", "value", timeout)
		}
		client = &http.Client{Timeout: timeout}
	}

	return &Clients{
		Census:  NewCensusClient(client, config.Census, config.Observer, config.Logger),
		Reverse: NewGoogleReverseGeocoder(client, config.GoogleBaseURL, config.Observer, config.Logger),
	}, nil
}

func validateBaseURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return eris.Wrapf(err, "parse %q", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return eris.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return eris.New("missing host")
	}

	return nil
}
