package models

import (
	"fmt"
	"strings"
)

// ResourceKey identifies a metric exposed by the resource usage endpoint
type ResourceKey string

const (
	ResourceCPU                ResourceKey = "cpu"
	ResourceMemory             ResourceKey = "mem"
	ResourceDisk               ResourceKey = "disk"
	ResourceSession            ResourceKey = "session"
	ResourceSession6           ResourceKey = "session6"
	ResourceSetupRate          ResourceKey = "setuprate"
	ResourceSetupRate6         ResourceKey = "setuprate6"
	ResourceDiskLogRate        ResourceKey = "disk_lograte"
	ResourceFAZLogRate         ResourceKey = "faz_lograte"
	ResourceFortiCloudLogRate  ResourceKey = "forticloud_lograte"
	ResourceGTPTunnel          ResourceKey = "gtp_tunnel"
	ResourceGTPTunnelSetupRate ResourceKey = "gtp_tunnel_setup_rate"
)

// KnownResources lists every key the endpoint accepts, in display order.
var KnownResources = []ResourceKey{
	ResourceCPU,
	ResourceMemory,
	ResourceDisk,
	ResourceSession,
	ResourceSession6,
	ResourceSetupRate,
	ResourceSetupRate6,
	ResourceDiskLogRate,
	ResourceFAZLogRate,
	ResourceFortiCloudLogRate,
	ResourceGTPTunnel,
	ResourceGTPTunnelSetupRate,
}

// DefaultResources returns the keys reported when none are requested.
// GTP counters are only populated on carrier builds, so they are opt-in.
func DefaultResources() []ResourceKey {
	defaults := make([]ResourceKey, 0, len(KnownResources))
	for _, key := range KnownResources {
		if key == ResourceGTPTunnel || key == ResourceGTPTunnelSetupRate {
			continue
		}
		defaults = append(defaults, key)
	}
	return defaults
}

// ParseResourceKey validates a user supplied resource name.
func ParseResourceKey(value string) (ResourceKey, error) {
	key := ResourceKey(strings.ToLower(strings.TrimSpace(value)))
	if !key.Valid() {
		return "", fmt.Errorf("invalid resource %q (expected one of: %s)", value, strings.Join(ResourceNames(KnownResources), ", "))
	}
	return key, nil
}

// ParseResourceKeys validates and de-duplicates keys, keeping first occurrence order.
func ParseResourceKeys(values []string) ([]ResourceKey, error) {
	keys := make([]ResourceKey, 0, len(values))
	seen := make(map[ResourceKey]bool, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		key, err := ParseResourceKey(value)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}

// ResourceNames converts keys back to plain strings.
func ResourceNames(keys []ResourceKey) []string {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = string(key)
	}
	return names
}

// Valid reports whether k is a known resource key.
func (k ResourceKey) Valid() bool {
	for _, known := range KnownResources {
		if k == known {
			return true
		}
	}
	return false
}

// DisplayName is the label used for report sections and chart titles.
func (k ResourceKey) DisplayName() string {
	return strings.ToUpper(string(k))
}

// IsPercentage reports whether the metric is bounded to 0-100.
func (k ResourceKey) IsPercentage() bool {
	return k == ResourceCPU || k == ResourceMemory
}

// Scope selects VDOM or global counters on multi-VDOM appliances
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeVDOM   Scope = "vdom"
)

// ParseScope validates a scope value.
func ParseScope(value string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(value))) {
	case ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeVDOM:
		return ScopeVDOM, nil
	default:
		return "", fmt.Errorf("invalid scope %q (expected vdom or global)", value)
	}
}
