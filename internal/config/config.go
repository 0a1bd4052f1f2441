// Package config loads phishdash configuration via viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultMaxEmails is used when fetch.max_emails is unset or invalid.
const DefaultMaxEmails = 10

// Config wraps the viper instance backing all settings.
type Config struct {
	v *viper.Viper
}

// New reads configuration from phishdash.yaml (working directory,
// ~/.config/phishdash, or /etc/phishdash) with PHISHDASH_* environment
// overrides. A missing config file falls back to defaults.
func New(explicitPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvPrefix("PHISHDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigName("phishdash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/phishdash")
		v.AddConfigPath("/etc/phishdash/")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || explicitPath != "" {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper wraps an existing viper instance (tests).
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper returns a viper instance carrying only the defaults.
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	// Gmail client defaults
	v.SetDefault("gmail.client_id", "")
	v.SetDefault("gmail.api_key", "")
	v.SetDefault("gmail.scopes", "")
	v.SetDefault("gmail.credentials", "credentials.json")
	v.SetDefault("gmail.token", "token.json")

	// Fetch defaults
	v.SetDefault("fetch.max_emails", DefaultMaxEmails)
	v.SetDefault("fetch.max_in_flight", 0) // unbounded

	// Classifier defaults
	v.SetDefault("classifier.url", "http://127.0.0.1:5000/api/inference")

	// Risk defaults
	v.SetDefault("risk.trusted_domains", []string{})

	// View defaults
	v.SetDefault("view.page_size", 5)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// ClientID returns the OAuth client identifier.
func (c *Config) ClientID() string { return c.v.GetString("gmail.client_id") }

// APIKey returns the provider API key.
func (c *Config) APIKey() string { return c.v.GetString("gmail.api_key") }

// Scopes returns the OAuth scope strings, split on whitespace. Empty means
// the built-in defaults apply.
func (c *Config) Scopes() []string {
	raw := strings.TrimSpace(c.v.GetString("gmail.scopes"))
	if raw == "" {
		return nil
	}
	return strings.Fields(raw)
}

// CredentialsPath returns the credentials.json location.
func (c *Config) CredentialsPath() string { return c.v.GetString("gmail.credentials") }

// TokenPath returns the token.json location.
func (c *Config) TokenPath() string { return c.v.GetString("gmail.token") }

// MaxEmails returns the fetch batch cap; non-positive values fall back to
// the default.
func (c *Config) MaxEmails() int {
	n := c.v.GetInt("fetch.max_emails")
	if n <= 0 {
		return DefaultMaxEmails
	}
	return n
}

// MaxInFlight returns the fan-out concurrency cap; 0 means unbounded.
func (c *Config) MaxInFlight() int {
	n := c.v.GetInt("fetch.max_in_flight")
	if n < 0 {
		return 0
	}
	return n
}

// ClassifierURL returns the inference endpoint.
func (c *Config) ClassifierURL() string { return c.v.GetString("classifier.url") }

// TrustedDomains returns sender domains exempt from first-time-sender
// flagging.
func (c *Config) TrustedDomains() []string { return c.v.GetStringSlice("risk.trusted_domains") }

// PageSize returns the dashboard page size.
func (c *Config) PageSize() int {
	n := c.v.GetInt("view.page_size")
	if n < 1 {
		return 5
	}
	return n
}

// LogLevel returns the logging level name.
func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }

// LogFormat returns "json" or "console".
func (c *Config) LogFormat() string { return c.v.GetString("logging.format") }
