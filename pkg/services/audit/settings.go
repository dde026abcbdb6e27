// Package audit contains the policy evaluators, the scoring engine, the
// presentation catalog, the dismissal ledger and the run orchestration.
package audit

import (
	"time"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// Settings contains the configurable thresholds for the evaluators.
type Settings struct {
	// BroadRulePortCount is how many literal ports an allow rule may carry
	// before it counts as overly broad when one side is unscoped.
	BroadRulePortCount int
	// PrivilegedPortMax is the upper bound (exclusive) of the privileged
	// port range for exposure checks.
	PrivilegedPortMax int
	// ConfidenceThreshold gates Critical vs Informational severity for
	// device placement findings.
	ConfidenceThreshold int
	// CloudControlPort, NTPPort and BackupControlPort are the
	// management-plane ports the firewall must keep reachable.
	CloudControlPort  int
	NTPPort           int
	BackupControlPort int
	// HistoryWindow is how far back the offline-client history fetch looks.
	HistoryWindow time.Duration
}

// DefaultSettings returns the stock thresholds.
func DefaultSettings() Settings {
	return Settings{
		BroadRulePortCount:  100,
		PrivilegedPortMax:   1024,
		ConfidenceThreshold: 70,
		CloudControlPort:    443,
		NTPPort:             123,
		BackupControlPort:   8883,
		HistoryWindow:       30 * 24 * time.Hour,
	}
}

// Input is the evidence bundle after normalization and classification.
// Evaluators are pure functions of Input, Settings and AuditOptions; they
// share no mutable state and may run in any order.
type Input struct {
	Rules      []domain.FirewallRule
	Generation domain.APIGeneration

	Networks       []domain.NetworkInfo
	Clients        []domain.ClientInfo
	OfflineClients []domain.ClientInfo
	Switches       []domain.SwitchInfo

	NatRules     []domain.NatRule
	PortForwards []domain.PortForward

	UpnpKnown    bool
	UpnpEnabled  bool
	UpnpMappings []upnpMapping

	SettingsKnown  bool
	DoHState       string
	DoHServers     []string
	WanDNSServers  []string
	Wpa3Enabled    bool
	GuestIsolation bool

	Now time.Time
}

// upnpMapping mirrors the gateway lease table without dragging the raw
// controller types into every evaluator signature.
type upnpMapping struct {
	ExternalPort int
	InternalPort int
	InternalIP   string
	Description  string
}
