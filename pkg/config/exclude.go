package config

import (
	"path"
	"strings"
)

// Normalize trims config patterns and removes empty values.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	c.AccessToken = strings.TrimSpace(c.AccessToken)
	c.CertFile = strings.TrimSpace(c.CertFile)
	c.ExcludeTimeframes = normalizePatterns(c.ExcludeTimeframes)
}

// IsTimeframeExcluded reports whether a timeframe label matches an exclude pattern.
func (c *Config) IsTimeframeExcluded(label string) bool {
	if c == nil || len(c.ExcludeTimeframes) == 0 {
		return false
	}

	value := normalizePattern(label)
	if value == "" {
		return false
	}

	for _, pattern := range c.ExcludeTimeframes {
		if patternMatches(pattern, value) {
			return true
		}
	}
	return false
}

func normalizePatterns(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, pattern := range values {
		p := normalizePattern(pattern)
		if p == "" {
			continue
		}
		normalized = append(normalized, p)
	}
	return normalized
}

func normalizePattern(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func patternMatches(pattern, value string) bool {
	normalizedPattern := normalizePattern(pattern)
	normalizedValue := normalizePattern(value)
	if normalizedPattern == "" || normalizedValue == "" {
		return false
	}

	// Invalid glob patterns are treated as exact matches.
	matched, err := path.Match(normalizedPattern, normalizedValue)
	if err == nil {
		return matched
	}
	return normalizedPattern == normalizedValue
}
