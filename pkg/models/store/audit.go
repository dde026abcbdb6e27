package store

import "time"

// AuditRecord is one persisted audit run: flat summary columns for fast
// listing plus the full JSON snapshot.
type AuditRecord struct {
	ID              string
	SiteID          string
	CreatedAt       time.Time
	ComplianceScore int
	TotalChecks     int
	PassedChecks    int
	FailedChecks    int
	WarningChecks   int
	FindingsJSON    string
	SnapshotJSON    string
}

// Snapshot is the persisted result body. Field matching on read is
// case-insensitive (encoding/json semantics), which keeps old snapshots
// readable when key casing changes.
type Snapshot struct {
	UnfilteredScore   int                 `json:"unfilteredScore"`
	Statistics        SnapshotStatistics  `json:"statistics"`
	HardeningMeasures []SnapshotMeasure   `json:"hardeningMeasures"`
	Networks          []SnapshotNetwork   `json:"networks"`
	Switches          []SnapshotSwitch    `json:"switches"`
	WirelessClients   []SnapshotClient    `json:"wirelessClients"`
	OfflineClients    []SnapshotClient    `json:"offlineClients"`
	DNSSecurity       *SnapshotDNS        `json:"dnsSecurity,omitempty"`
}

type SnapshotStatistics struct {
	Ports    int `json:"ports"`
	Networks int `json:"networks"`
	Switches int `json:"switches"`
}

type SnapshotMeasure struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Present     bool   `json:"present"`
}

type SnapshotNetwork struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	VlanID  int    `json:"vlanId"`
	Purpose string `json:"purpose"`
	Subnet  string `json:"subnet"`
}

type SnapshotSwitch struct {
	MAC   string `json:"mac"`
	Name  string `json:"name"`
	Model string `json:"model"`
	Ports int    `json:"ports"`
}

type SnapshotClient struct {
	MAC      string `json:"mac"`
	Name     string `json:"name"`
	IP       string `json:"ip"`
	VlanID   int    `json:"vlanId"`
	Category string `json:"category"`
}

type SnapshotDNS struct {
	DoHEnabled         bool     `json:"dohEnabled"`
	DoHProvider        string   `json:"dohProvider"`
	WanDNSServers      []string `json:"wanDnsServers"`
	EncryptedDNSBlock  bool     `json:"encryptedDnsBlock"`
	RedirectedNetworks []string `json:"redirectedNetworks"`
	ThirdPartyResolver string   `json:"thirdPartyResolver"`
}

// SnapshotFinding is the persisted finding shape inside FindingsJSON.
type SnapshotFinding struct {
	Type               string         `json:"type"`
	Severity           string         `json:"severity"`
	Message            string         `json:"message"`
	RecommendedAction  string         `json:"recommendedAction"`
	ScoreImpact        int            `json:"scoreImpact"`
	DeviceName         string         `json:"deviceName,omitempty"`
	DeviceMAC          string         `json:"deviceMac,omitempty"`
	Port               int            `json:"port,omitempty"`
	CurrentNetwork     string         `json:"currentNetwork,omitempty"`
	CurrentVlan        int            `json:"currentVlan,omitempty"`
	RecommendedNetwork string         `json:"recommendedNetwork,omitempty"`
	RecommendedVlan    int            `json:"recommendedVlan,omitempty"`
	IsWireless         bool           `json:"isWireless,omitempty"`
	ClientMAC          string         `json:"clientMac,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
}

// DismissedIssue is one suppressed finding key, site-scoped.
type DismissedIssue struct {
	SiteID      string
	IssueKey    string
	DismissedAt time.Time
}
