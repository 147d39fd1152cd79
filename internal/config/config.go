// Package config loads and saves the plus-cli configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIBase  = "https://artisan.plus/api/v1"
	defaultAuthPath = "/accounts/users/authenticate"

	defaultConnectTimeoutSeconds = 4
	defaultReadTimeoutSeconds    = 10

	// POST bodies above this many serialized bytes are gzip-compressed.
	defaultCompressionThreshold = 500

	// Grace window (in days) during which an expired subscription still
	// authenticates.
	defaultExpiredSubscriptionMaxDays = 30
)

// Config represents the plus-cli configuration.
type Config struct {
	// Account is the artisan.plus account email. Empty means no account
	// is configured and authenticated calls are not possible.
	Account string `yaml:"account,omitempty"`

	// Locale is sent as Accept-Language when set (e.g. "de_AT").
	Locale string `yaml:"locale,omitempty"`

	// APIBase is the service base URL. Overridable for testing.
	APIBase string `yaml:"api_base,omitempty"`

	// AuthURL overrides the authentication endpoint. Defaults to
	// APIBase + the standard authenticate path.
	AuthURL string `yaml:"auth_url,omitempty"`

	// VerifyTLS controls TLS certificate verification. Nil means true.
	VerifyTLS *bool `yaml:"verify_tls,omitempty"`

	// ConnectTimeoutSeconds and ReadTimeoutSeconds are the two-phase
	// request timeouts applied to every outbound call.
	ConnectTimeoutSeconds int `yaml:"connect_timeout,omitempty"`
	ReadTimeoutSeconds    int `yaml:"read_timeout,omitempty"`

	// CompressPosts enables gzip compression of large POST bodies.
	// Nil means true.
	CompressPosts *bool `yaml:"compress_posts,omitempty"`

	// CompressionThreshold is the serialized size in bytes above which
	// POST bodies are compressed.
	CompressionThreshold int `yaml:"compression_threshold,omitempty"`

	// ExpiredSubscriptionMaxDays is how many days past paidUntil an
	// account may be before authentication is rejected.
	ExpiredSubscriptionMaxDays int `yaml:"expired_subscription_max_days,omitempty"`
}

// configPathFunc is the function used to get the default config path.
// It can be overridden for testing.
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns ~/.config/plus-cli/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "plus-cli", "config.yaml"), nil
}

// DefaultConfigPath returns the effective config file path.
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Default returns a config with all defaults applied and no account.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.APIBase == "" {
		c.APIBase = defaultAPIBase
	}
	if c.ConnectTimeoutSeconds <= 0 {
		c.ConnectTimeoutSeconds = defaultConnectTimeoutSeconds
	}
	if c.ReadTimeoutSeconds <= 0 {
		c.ReadTimeoutSeconds = defaultReadTimeoutSeconds
	}
	if c.CompressionThreshold <= 0 {
		c.CompressionThreshold = defaultCompressionThreshold
	}
	if c.ExpiredSubscriptionMaxDays <= 0 {
		c.ExpiredSubscriptionMaxDays = defaultExpiredSubscriptionMaxDays
	}
}

// Load loads config from the default path, returning defaults if not found.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save saves config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path.
func (c *Config) SaveToPath(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// AuthEndpoint returns the effective authentication URL.
func (c *Config) AuthEndpoint() string {
	if c.AuthURL != "" {
		return c.AuthURL
	}
	return c.APIBase + defaultAuthPath
}

// TLSVerification reports whether TLS certificates should be verified.
func (c *Config) TLSVerification() bool {
	return c.VerifyTLS == nil || *c.VerifyTLS
}

// CompressionEnabled reports whether large POST bodies are compressed.
func (c *Config) CompressionEnabled() bool {
	return c.CompressPosts == nil || *c.CompressPosts
}

// ConnectTimeout returns the connection phase timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// ReadTimeout returns the full request timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}
