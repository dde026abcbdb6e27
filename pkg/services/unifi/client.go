package unifi

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNoData marks an endpoint that answered but had nothing to return.
// Callers distinguish it from transport or controller failures.
var ErrNoData = errors.New("unifi: endpoint returned no data")

// ErrNotConnected marks a controller that is unreachable altogether.
var ErrNotConnected = errors.New("unifi: controller not connected")

// ControllerClient is the read-only controller surface the audit consumes.
// Every method may return ErrNoData ("answered empty") or a real error;
// the collector treats the two differently.
type ControllerClient interface {
	// Ping verifies basic reachability before a run starts.
	Ping(ctx context.Context) error

	GetDevicesRawJSON(ctx context.Context) (json.RawMessage, error)
	GetClients(ctx context.Context) ([]Client, error)
	GetClientHistory(ctx context.Context, window time.Duration) ([]Client, error)

	GetFirewallPoliciesRaw(ctx context.Context) ([]V2FirewallPolicy, error)
	GetLegacyFirewallRulesRaw(ctx context.Context) ([]LegacyFirewallRule, error)
	GetCombinedTrafficFirewallRulesRaw(ctx context.Context) ([]LegacyFirewallRule, error)
	GetFirewallGroups(ctx context.Context) ([]FirewallGroup, error)
	GetFirewallZones(ctx context.Context) ([]FirewallZoneConf, error)

	GetNatRulesRaw(ctx context.Context) ([]NatRuleConf, error)
	GetPortForwardRules(ctx context.Context) ([]PortForwardConf, error)
	GetUpnpEnabled(ctx context.Context) (bool, []UpnpMapping, error)

	GetNetworkConfigs(ctx context.Context) ([]NetworkConf, error)
	GetPortProfiles(ctx context.Context) ([]PortProfileConf, error)
	GetProtectCameras(ctx context.Context) ([]ProtectCamera, error)
	GetSettingsRaw(ctx context.Context) (*SiteSettings, error)
}

// FingerprintService resolves device identity from the opaque fingerprint
// device ID the controller attaches to clients. Implementations cache and
// refresh on a 24h cycle.
type FingerprintService interface {
	LookupDeviceName(devID int) (string, bool)
	LookupDeviceType(devID int) (string, bool)
	LookupVendor(devID int) (string, bool)
	// LastFetchFailed reports whether the most recent refresh of the
	// fingerprint database failed; the audit surfaces this as a
	// degraded-coverage finding.
	LastFetchFailed() bool
}

// SettingsStore is a per-site string key/value lookup for audit option
// overrides, e.g. "site:{id}:audit:allowPrintersOnMainNetwork".
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
}
