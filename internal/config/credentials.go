package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Credentials holds the service URL and API key read from a Copernicus rc
// file (~/.cdsapirc for the Climate Data Store, ~/.adsapirc for the
// Atmosphere Data Store).
type Credentials struct {
	URL string `yaml:"url"`
	Key string `yaml:"key"`
}

// UID returns the user-id half of a "uid:secret" API key, or the whole key
// when it has no uid prefix.
func (c Credentials) UID() string {
	uid, _, found := strings.Cut(c.Key, ":")
	if !found {
		return c.Key
	}
	return uid
}

// Secret returns the secret half of a "uid:secret" API key.
func (c Credentials) Secret() string {
	_, secret, found := strings.Cut(c.Key, ":")
	if !found {
		return c.Key
	}
	return secret
}

// LoadCredentials reads an rc file containing url and key fields.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", path, err)
	}

	if creds.URL == "" || creds.Key == "" {
		return nil, fmt.Errorf("credentials file %s missing url or key", path)
	}

	return &creds, nil
}

// DefaultCDSCredentialsPath returns the conventional location of the CDS rc
// file, honoring the CDSAPI_RC override.
func DefaultCDSCredentialsPath() string {
	return rcPath("CDSAPI_RC", ".cdsapirc")
}

// DefaultADSCredentialsPath returns the conventional location of the ADS rc
// file, honoring the ADSAPI_RC override.
func DefaultADSCredentialsPath() string {
	return rcPath("ADSAPI_RC", ".adsapirc")
}

func rcPath(envKey, name string) string {
	if p := os.Getenv(envKey); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}
