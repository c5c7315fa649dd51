package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. RESMON_BASE_URL.
const EnvPrefix = "resmon"

// EnvConfig holds values read from RESMON_* environment variables.
type EnvConfig struct {
	BaseURL     string
	AccessToken string
	CertFile    string
	Scope       string
}

// LoadEnv reads the RESMON_* environment.
func LoadEnv() EnvConfig {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range []string{KeyBaseURL, KeyAccessToken, KeyCertFile, KeyScope} {
		// BindEnv only fails when called without a key
		_ = v.BindEnv(key)
	}

	return EnvConfig{
		BaseURL:     strings.TrimSpace(v.GetString(KeyBaseURL)),
		AccessToken: strings.TrimSpace(v.GetString(KeyAccessToken)),
		CertFile:    strings.TrimSpace(v.GetString(KeyCertFile)),
		Scope:       strings.TrimSpace(v.GetString(KeyScope)),
	}
}
