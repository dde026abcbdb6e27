package domain

import "time"

type Severity string

const (
	SeverityCritical      Severity = "critical"
	SeverityRecommended   Severity = "recommended"
	SeverityInformational Severity = "informational"
)

// IssueType identifies a detectable condition. Values are stable across
// releases because dismissal keys and persisted snapshots reference them.
type IssueType string

const (
	// Firewall rule hygiene
	IssueFirewallAnyAny               IssueType = "fw_any_any"
	IssueFirewallBroadRule            IssueType = "fw_broad_rule"
	IssueFirewallOrphanedRule         IssueType = "fw_orphaned_rule"
	IssueFirewallShadowedAllow        IssueType = "fw_shadowed_allow"
	IssueFirewallShadowedDeny         IssueType = "fw_shadowed_deny"
	IssueFirewallDuplicateRule        IssueType = "fw_duplicate_rule"
	IssueFirewallNoRules              IssueType = "fw_no_rules"
	IssueFirewallMissingCloudAllow    IssueType = "fw_missing_cloud_allow"
	IssueFirewallMissingNTPAllow      IssueType = "fw_missing_ntp_allow"
	IssueFirewallMissingBackupAllow   IssueType = "fw_missing_backup_allow"
	IssueFirewallDisabledDefaultBlock IssueType = "fw_disabled_default_block"

	// VLAN / segmentation
	IssueVlanRoutingEnabled       IssueType = "vlan_routing_enabled"
	IssueVlanDhcpGuardMissing     IssueType = "vlan_dhcp_guard_missing"
	IssueVlanIsolationMissing     IssueType = "vlan_isolation_missing"
	IssueVlanInternetOnIsolated   IssueType = "vlan_internet_on_isolated"
	IssueVlanMissingIoTNetwork    IssueType = "vlan_missing_iot_network"
	IssueVlanMissingCameraNetwork IssueType = "vlan_missing_camera_network"
	IssueVlanMissingGuestNetwork  IssueType = "vlan_missing_guest_network"
	IssueVlanMissingMgmtNetwork   IssueType = "vlan_missing_mgmt_network"
	IssueDeviceIoTWrongVlan       IssueType = "device_iot_wrong_vlan"
	IssueDeviceCameraWrongVlan    IssueType = "device_camera_wrong_vlan"
	IssueDevicePrinterWrongVlan   IssueType = "device_printer_wrong_vlan"
	IssueDeviceMediaWrongVlan     IssueType = "device_media_wrong_vlan"
	IssueDeviceTVWrongVlan        IssueType = "device_tv_wrong_vlan"
	IssueDeviceInfraWrongVlan     IssueType = "device_infra_wrong_vlan"
	IssueDeviceUnknownOnMgmt      IssueType = "device_unknown_on_mgmt"

	// DNS leak prevention
	IssueDNSEncryptionDisabled IssueType = "dns_encryption_disabled"
	IssueDNSDoHBlockMissing    IssueType = "dns_doh_block_missing"
	IssueDNSDoTBlockMissing    IssueType = "dns_dot_block_missing"
	IssueDNSDoQBlockMissing    IssueType = "dns_doq_block_missing"
	IssueDNSBypassNotBlocked   IssueType = "dns_bypass_not_blocked"
	IssueDNSWanMismatch        IssueType = "dns_wan_mismatch"
	IssueDNSWanOrder           IssueType = "dns_wan_order"
	IssueDNSRedirectMissing    IssueType = "dns_redirect_missing"
	IssueDNSRedirectPartial    IssueType = "dns_redirect_partial"
	IssueDNSPort53Open         IssueType = "dns_port53_open"
	IssueDNSIspDefault         IssueType = "dns_isp_default"
	IssueDNSThirdPartyResolver IssueType = "dns_third_party_resolver"
	IssueDNSResolverMgmtOpen   IssueType = "dns_resolver_mgmt_open"

	// Port security
	IssuePortUnused            IssueType = "port_unused"
	IssuePortUnusedNamed       IssueType = "port_unused_named"
	IssuePortNoMacRestriction  IssueType = "port_no_mac_restriction"
	IssuePortCameraNoIsolation IssueType = "port_camera_no_isolation"

	// UPnP / exposure
	IssueUpnpEnabledNonHome    IssueType = "upnp_enabled_non_home"
	IssueUpnpPrivilegedPort    IssueType = "upnp_privileged_port"
	IssueForwardPrivilegedPort IssueType = "forward_privileged_port"

	// Synthetic
	IssueControllerNotConnected IssueType = "controller_not_connected"
	IssueAuditFailed            IssueType = "audit_failed"
	IssueFingerprintUnavailable IssueType = "fingerprint_unavailable"
)

// AuditIssue is one detected violation. Issues are regenerated from scratch
// on every run and never mutated in place.
type AuditIssue struct {
	Type               IssueType
	Severity           Severity
	Message            string
	RecommendedAction  string
	ScoreImpact        int
	DeviceName         string
	DeviceMAC          string
	Port               int
	CurrentNetwork     string
	CurrentVlan        int
	RecommendedNetwork string
	RecommendedVlan    int
	IsWireless         bool
	ClientMAC          string
	Metadata           map[string]any
}

// HardeningMeasure is a named best practice detected as present. Measures
// contribute to the score bonus independent of findings.
type HardeningMeasure struct {
	Name        string
	Description string
	Present     bool
}

type AuditStatistics struct {
	PortsChecked    int
	NetworksChecked int
	SwitchesChecked int
}

// DNSSecurityState summarizes the DNS posture derived during evaluation.
type DNSSecurityState struct {
	DoHEnabled         bool
	DoHProvider        string
	WanDNSServers      []string
	EncryptedDNSBlock  bool
	RedirectedNetworks []string
	ThirdPartyResolver string
}

type AuditResult struct {
	AuditID           string
	SiteID            string
	Score             int
	UnfilteredScore   int
	SeverityCounts    map[Severity]int
	Issues            []AuditIssue
	Statistics        AuditStatistics
	HardeningMeasures []HardeningMeasure
	Networks          []NetworkInfo
	Switches          []SwitchInfo
	WirelessClients   []ClientInfo
	OfflineClients    []ClientInfo
	DNSSecurity       *DNSSecurityState
	GeneratedAt       time.Time
}

// AuditSummary is the condensed view used for listings.
type AuditSummary struct {
	Score         int
	CriticalCount int
	WarningCount  int
	LastAuditTime time.Time
	RecentIssues  []AuditIssue
}
