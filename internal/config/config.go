package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the geocoder.
//
// Fields:
// - Env: The current environment (local, development, production).
// - Port: The port for the monitoring server, 0 disables it.
// - Census: Census geocoder endpoint, benchmark and vintage.
// - Google: Google geocoding endpoint and API key.
// - HTTP: Settings of the outbound HTTP client.
// - Batch: Chunking, staging and join settings of batch runs.
type Config struct {
	Env    string       `mapstructure:"env"`    // Env is the current environment: local, development, production.
	Port   int          `mapstructure:"port"`   // Port is the monitoring server port.
	Census CensusConfig `mapstructure:"census"` // Census holds the census geocoder settings.
	Google GoogleConfig `mapstructure:"google"` // Google holds the reverse geocoding settings.
	HTTP   HTTPConfig   `mapstructure:"http"`   // HTTP holds the outbound client settings.
	Batch  BatchConfig  `mapstructure:"batch"`  // Batch holds the batch run settings.
}

// CensusConfig holds the census geocoder settings.
type CensusConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Benchmark string `mapstructure:"benchmark"`
	Vintage   string `mapstructure:"vintage"`
}

// GoogleConfig holds the Google geocoding settings.
type GoogleConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// HTTPConfig holds the outbound HTTP client settings.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// BatchConfig holds the batch run settings.
type BatchConfig struct {
	ChunkSize     int    `mapstructure:"chunk_size"`     // Rows per batch call.
	StagingDir    string `mapstructure:"staging_dir"`    // Directory for staged chunk files.
	KeepUnmatched bool   `mapstructure:"keep_unmatched"` // Keep unmatched rows in the output.

	Columns models.ColumnRoles `mapstructure:"columns"` // Input columns carrying the address parts.
}

// Load reads configuration from an optional YAML file and MERIDIAN_* environment
// variables. An empty configFile looks for meridian.yaml in the working directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("meridian")
		v.AddConfigPath(".")
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix("MERIDIAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "production")
	v.SetDefault("port", 0)
	v.SetDefault("census.base_url", geocoding.CensusBaseURL)
	v.SetDefault("census.benchmark", geocoding.DefaultBenchmark)
	v.SetDefault("census.vintage", geocoding.DefaultVintage)
	v.SetDefault("google.base_url", geocoding.GoogleBaseURL)
	v.SetDefault("google.api_key", "")
	v.SetDefault("http.timeout", geocoding.DefaultTimeout)
	v.SetDefault("batch.chunk_size", 500)
	v.SetDefault("batch.staging_dir", os.TempDir())
	v.SetDefault("batch.keep_unmatched", false)
	v.SetDefault("batch.columns.street", "street")
	v.SetDefault("batch.columns.city", "city")
	v.SetDefault("batch.columns.state", "state")
	v.SetDefault("batch.columns.zip", "zip")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// MustLoad loads the configuration and panics on invalid values.
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if cfg.Port < 0 {
		panic("failed to parse port for monitoring server from configuration")
	}
	if cfg.HTTP.Timeout <= 0 {
		panic("http timeout must be a positive duration")
	}
	if cfg.Batch.ChunkSize <= 0 {
		panic("failed to parse batch chunk size from configuration, must be a positive integer")
	}

	return cfg
}
