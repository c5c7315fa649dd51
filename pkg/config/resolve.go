package config

import (
	"fmt"

	"github.com/ppiankov/resmon/internal/models"
)

// Setting keys shared by the config file, the environment and flag tracking.
const (
	KeyBaseURL           = "base_url"
	KeyAccessToken       = "access_token"
	KeyCertFile          = "cert_file"
	KeyNoSSLVerify       = "no_ssl_verify"
	KeyScope             = "scope"
	KeyResources         = "resources"
	KeyOutputDir         = "output_dir"
	KeyFormat            = "format"
	KeyTimeout           = "timeout"
	KeyExcludeTimeframes = "exclude_timeframes"
)

// Explicit records settings given on the command line. Lower precedence
// sources never overwrite them.
type Explicit map[string]bool

// ApplyFile fills settings from a config file that were not set explicitly.
func (c *Config) ApplyFile(fc *FileConfig, explicit Explicit) error {
	if fc == nil {
		return nil
	}

	if !explicit[KeyBaseURL] && fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if !explicit[KeyAccessToken] && fc.AccessToken != "" {
		c.AccessToken = fc.AccessToken
	}
	if !explicit[KeyCertFile] && fc.CertFile != "" {
		c.CertFile = fc.CertFile
	}
	if !explicit[KeyNoSSLVerify] && fc.NoSSLVerify != nil {
		c.NoSSLVerify = *fc.NoSSLVerify
	}
	if !explicit[KeyScope] && fc.Scope != "" {
		scope, err := models.ParseScope(fc.Scope)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Scope = scope
	}
	if !explicit[KeyResources] && len(fc.Resources) > 0 {
		keys, err := models.ParseResourceKeys(fc.Resources)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Resources = keys
	}
	if !explicit[KeyOutputDir] && fc.OutputDir != "" {
		c.OutputDir = fc.OutputDir
	}
	if !explicit[KeyFormat] && fc.Format != "" {
		c.Format = fc.Format
	}
	if !explicit[KeyTimeout] && fc.Timeout != "" {
		timeout, err := ParseDuration(fc.Timeout)
		if err != nil {
			return fmt.Errorf("config file: invalid timeout %q: %w", fc.Timeout, err)
		}
		c.Timeout = timeout
	}
	if !explicit[KeyExcludeTimeframes] && len(fc.ExcludeTimeframes) > 0 {
		c.ExcludeTimeframes = fc.ExcludeTimeframes
	}

	return nil
}

// ApplyEnv fills settings from the environment that were not set explicitly.
// It runs after ApplyFile so the environment beats the config file.
func (c *Config) ApplyEnv(env EnvConfig, explicit Explicit) error {
	if !explicit[KeyBaseURL] && env.BaseURL != "" {
		c.BaseURL = env.BaseURL
	}
	if !explicit[KeyAccessToken] && env.AccessToken != "" {
		c.AccessToken = env.AccessToken
	}
	if !explicit[KeyCertFile] && env.CertFile != "" {
		c.CertFile = env.CertFile
	}
	if !explicit[KeyScope] && env.Scope != "" {
		scope, err := models.ParseScope(env.Scope)
		if err != nil {
			return fmt.Errorf("environment: %w", err)
		}
		c.Scope = scope
	}
	return nil
}
