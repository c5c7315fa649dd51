package config

import "strings"

// MissingCredentialsError is returned when neither flags, environment nor a
// config file supply the API base URL and access token.
type MissingCredentialsError struct {
	BaseURL     bool
	AccessToken bool
}

func (e *MissingCredentialsError) Error() string {
	var missing []string
	if e.BaseURL {
		missing = append(missing, "base URL")
	}
	if e.AccessToken {
		missing = append(missing, "access token")
	}
	return strings.Join(missing, " and ") + " not set: use --base-url/--access-token, RESMON_BASE_URL/RESMON_ACCESS_TOKEN or a .resmon.yaml file"
}
