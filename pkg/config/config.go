package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/resmon/internal/models"
)

const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Config holds all runtime configuration
type Config struct {
	// API settings
	BaseURL     string
	AccessToken string
	Scope       models.Scope
	Resources   []models.ResourceKey

	// TLS settings
	NoSSLVerify bool
	CertFile    string

	// Fetch settings
	Timeout     time.Duration
	Retries     int
	RateLimit   int
	Concurrency int

	// Output settings
	OutputDir         string
	Format            string
	ExcludeTimeframes []string
	MetricsFile       string

	// Operational flags
	Verbose bool
	DryRun  bool
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Scope:       models.ScopeGlobal,
		Resources:   models.DefaultResources(),
		NoSSLVerify: false,
		Timeout:     0, // rely on the HTTP client defaults
		Retries:     0,
		RateLimit:   0,
		Concurrency: 1,
		OutputDir:   "./reports",
		Format:      FormatHTML,
		Verbose:     false,
		DryRun:      false,
	}
}

// Validate checks the resolved configuration before any network activity.
func (c *Config) Validate() error {
	missing := &MissingCredentialsError{
		BaseURL:     strings.TrimSpace(c.BaseURL) == "",
		AccessToken: strings.TrimSpace(c.AccessToken) == "",
	}
	if missing.BaseURL || missing.AccessToken {
		return missing
	}

	u, err := url.Parse(c.APIBaseURL())
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base URL %q: expected http(s)://host[:port]", c.BaseURL)
	}

	if _, err := models.ParseScope(string(c.Scope)); err != nil {
		return err
	}
	if len(c.Resources) == 0 {
		return fmt.Errorf("at least one resource is required")
	}
	for _, key := range c.Resources {
		if !key.Valid() {
			return fmt.Errorf("invalid resource %q", key)
		}
	}

	switch c.Format {
	case FormatHTML, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (expected html or json)", c.Format)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.Concurrency)
	}
	if c.Retries < 0 {
		return fmt.Errorf("invalid retries %d: must be >= 0", c.Retries)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit %d: must be >= 0", c.RateLimit)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must be >= 0", c.Timeout)
	}

	return nil
}

// APIBaseURL returns the base URL without trailing slashes.
func (c *Config) APIBaseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
}

// Host returns host[:port] of the base URL, or "unknown".
func (c *Config) Host() string {
	u, err := url.Parse(c.APIBaseURL())
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Host
}

// TLSConfig builds the client TLS settings.
//
// A certificate file always wins and becomes the only trust root, even when
// verification is disabled. Otherwise NoSSLVerify turns verification off and
// the default is the system pool.
func (c *Config) TLSConfig() (*tls.Config, error) {
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if certFile := strings.TrimSpace(c.CertFile); certFile != "" {
		pem, err := os.ReadFile(certFile)
		if err != nil {
			return nil, fmt.Errorf("read certificate file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("certificate file %q contains no PEM certificates", certFile)
		}
		tlsCfg.RootCAs = pool
		return tlsCfg, nil
	}

	if c.NoSSLVerify {
		tlsCfg.InsecureSkipVerify = true
	}
	return tlsCfg, nil
}

// MaskSecret hides all but a short prefix of a credential.
func MaskSecret(secret string) string {
	if len(secret) > 8 {
		return secret[:4] + "...***"
	}
	return "***"
}
