package api

import "time"

type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityRecommended   Severity = "recommended"
	SeverityInformational Severity = "informational"
)

type AuditIssue struct {
	Type               string         `json:"type"`
	Severity           Severity       `json:"severity"`
	Category           string         `json:"category"`
	Title              string         `json:"title"`
	Message            string         `json:"message"`
	Recommendation     string         `json:"recommendation"`
	ScoreImpact        int            `json:"score_impact"`
	DeviceName         string         `json:"device_name,omitempty"`
	DeviceMAC          string         `json:"device_mac,omitempty"`
	Port               int            `json:"port,omitempty"`
	CurrentNetwork     string         `json:"current_network,omitempty"`
	CurrentVlan        int            `json:"current_vlan,omitempty"`
	RecommendedNetwork string         `json:"recommended_network,omitempty"`
	RecommendedVlan    int            `json:"recommended_vlan,omitempty"`
	IsWireless         bool           `json:"is_wireless,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

type HardeningMeasure struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Present     bool   `json:"present"`
}

type AuditStatistics struct {
	Ports    int `json:"ports"`
	Networks int `json:"networks"`
	Switches int `json:"switches"`
}

type Network struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	VlanID  int    `json:"vlan_id"`
	Purpose string `json:"purpose"`
	Subnet  string `json:"subnet"`
}

type DNSSecurity struct {
	DoHEnabled         bool     `json:"doh_enabled"`
	DoHProvider        string   `json:"doh_provider,omitempty"`
	WanDNSServers      []string `json:"wan_dns_servers,omitempty"`
	EncryptedDNSBlock  bool     `json:"encrypted_dns_block"`
	RedirectedNetworks []string `json:"redirected_networks,omitempty"`
	ThirdPartyResolver string   `json:"third_party_resolver,omitempty"`
}

type AuditResult struct {
	AuditID           string             `json:"audit_id"`
	SiteID            string             `json:"site_id"`
	Score             int                `json:"score"`
	SeverityCounts    map[string]int     `json:"severity_counts"`
	Issues            []AuditIssue       `json:"issues"`
	Statistics        AuditStatistics    `json:"statistics"`
	HardeningMeasures []HardeningMeasure `json:"hardening_measures"`
	Networks          []Network          `json:"networks"`
	DNSSecurity       *DNSSecurity       `json:"dns_security,omitempty"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

type AuditSummary struct {
	Score         int          `json:"score"`
	CriticalCount int          `json:"critical_count"`
	WarningCount  int          `json:"warning_count"`
	LastAuditTime time.Time    `json:"last_audit_time"`
	RecentIssues  []AuditIssue `json:"recent_issues"`
}

// DismissRequest identifies a finding by the fields its dismissal key is
// derived from.
type DismissRequest struct {
	Type       string   `json:"type"`
	Severity   Severity `json:"severity"`
	DeviceName string   `json:"device_name,omitempty"`
	Port       int      `json:"port,omitempty"`
}
