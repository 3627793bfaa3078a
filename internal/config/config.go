package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	// Remote service endpoints.
	CDSBaseURL string
	ADSBaseURL string
	EEBaseURL  string

	// Root directory for downloaded artifacts.
	OutputDir string

	// Optional integrations; empty disables them.
	ManifestTable string
	S3Bucket      string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithOutputDir allows setting the artifact root directory
func WithOutputDir(dir string) Option {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		HTTPTimeout: 10 * time.Minute,
		MaxRetries:  3,
		CDSBaseURL:  "https://cds.climate.copernicus.eu/api/v2",
		ADSBaseURL:  "https://ads.atmosphere.copernicus.eu/api/v2",
		EEBaseURL:   "https://earthengine.googleapis.com/v1",
		OutputDir:   "data",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	cfg := New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Minute)),
		WithOutputDir(getEnvOrDefault("OUTPUT_DIR", "data")),
	)
	cfg.CDSBaseURL = getEnvOrDefault("CDS_API_URL", cfg.CDSBaseURL)
	cfg.ADSBaseURL = getEnvOrDefault("ADS_API_URL", cfg.ADSBaseURL)
	cfg.EEBaseURL = getEnvOrDefault("EE_API_URL", cfg.EEBaseURL)
	cfg.ManifestTable = os.Getenv("MANIFEST_TABLE")
	cfg.S3Bucket = os.Getenv("ARTIFACT_BUCKET")
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
