package audit

import (
	"fmt"
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// catalogEntry is the presentation record for one issue type. The table is
// data, not logic: adding a type means adding a row, and anything missing
// falls back to General instead of erroring.
type catalogEntry struct {
	Category       domain.AuditCategory
	Title          string
	Recommendation string
	Impact         int
}

var issueCatalog = map[domain.IssueType]catalogEntry{
	domain.IssueFirewallAnyAny: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Any-to-Any Allow Rule",
		Recommendation: "Replace the blanket allow with zone-scoped rules that permit only the traffic each segment needs.",
		Impact:         20,
	},
	domain.IssueFirewallBroadRule: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Overly Broad Firewall Rule",
		Recommendation: "Narrow the rule to specific zones, addresses or ports.",
		Impact:         8,
	},
	domain.IssueFirewallOrphanedRule: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Rule References Deleted Object",
		Recommendation: "Delete the rule or repoint it at an existing group.",
		Impact:         5,
	},
	domain.IssueFirewallShadowedAllow: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Allow Rule Unreachable",
		Recommendation: "Move the allow rule above the broader deny or remove it.",
		Impact:         6,
	},
	domain.IssueFirewallShadowedDeny: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Deny Rule Unreachable",
		Recommendation: "Move the deny rule above the broader allow, otherwise it never blocks anything.",
		Impact:         12,
	},
	domain.IssueFirewallDuplicateRule: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Duplicate Firewall Rule",
		Recommendation: "Remove the redundant rule to keep the ruleset auditable.",
		Impact:         2,
	},
	domain.IssueFirewallNoRules: {
		Category:       domain.CategoryFirewallRules,
		Title:          "No Firewall Rules Configured",
		Recommendation: "Define zone policies that isolate IoT, camera and guest segments.",
		Impact:         10,
	},
	domain.IssueFirewallMissingCloudAllow: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Cloud Management Traffic Blocked",
		Recommendation: "Add an allow for HTTPS from the gateway before the broad deny so cloud control keeps working.",
		Impact:         8,
	},
	domain.IssueFirewallMissingNTPAllow: {
		Category:       domain.CategoryFirewallRules,
		Title:          "NTP Traffic Blocked",
		Recommendation: "Allow UDP 123 outbound before the broad deny; certificate validation breaks without time sync.",
		Impact:         6,
	},
	domain.IssueFirewallMissingBackupAllow: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Cellular Backup Traffic Blocked",
		Recommendation: "Allow the backup uplink's control channel before the broad deny.",
		Impact:         4,
	},
	domain.IssueFirewallDisabledDefaultBlock: {
		Category:       domain.CategoryFirewallRules,
		Title:          "Default Block Rule Disabled",
		Recommendation: "Re-enable the final catch-all block rule.",
		Impact:         10,
	},

	domain.IssueVlanRoutingEnabled: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Inter-VLAN Routing on Camera Network",
		Recommendation: "Enable network isolation so cameras cannot reach other segments.",
		Impact:         15,
	},
	domain.IssueVlanDhcpGuardMissing: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "DHCP Enabled on Management Network",
		Recommendation: "Use static addressing on the management segment.",
		Impact:         4,
	},
	domain.IssueVlanIsolationMissing: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Network Isolation Missing",
		Recommendation: "Enable isolation or add a deny rule blocking traffic from this segment to other VLANs.",
		Impact:         10,
	},
	domain.IssueVlanInternetOnIsolated: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Internet Access on Restricted Network",
		Recommendation: "Disable internet access for this segment; it should only talk locally.",
		Impact:         8,
	},
	domain.IssueVlanMissingIoTNetwork: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "No Dedicated IoT Network",
		Recommendation: "Create an IoT VLAN and move smart devices onto it.",
		Impact:         10,
	},
	domain.IssueVlanMissingCameraNetwork: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "No Dedicated Camera Network",
		Recommendation: "Create an isolated camera VLAN for surveillance devices.",
		Impact:         10,
	},
	domain.IssueVlanMissingGuestNetwork: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "No Guest Network",
		Recommendation: "Create a guest network so visitor devices never join the main LAN.",
		Impact:         3,
	},
	domain.IssueVlanMissingMgmtNetwork: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "No Management Network",
		Recommendation: "Put controller and switch management interfaces on their own VLAN.",
		Impact:         3,
	},
	domain.IssueDeviceIoTWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "IoT Device on Wrong VLAN",
		Recommendation: "Move the device to the IoT network.",
		Impact:         6,
	},
	domain.IssueDeviceCameraWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Camera on Wrong VLAN",
		Recommendation: "Move the camera to the dedicated camera network.",
		Impact:         12,
	},
	domain.IssueDevicePrinterWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Printer on Wrong VLAN",
		Recommendation: "Move the printer to the IoT network.",
		Impact:         4,
	},
	domain.IssueDeviceMediaWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Media Player on Wrong VLAN",
		Recommendation: "Move the media player to the IoT network.",
		Impact:         4,
	},
	domain.IssueDeviceTVWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Smart TV on Wrong VLAN",
		Recommendation: "Move the TV to the IoT network.",
		Impact:         4,
	},
	domain.IssueDeviceInfraWrongVlan: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Infrastructure Device on Wrong VLAN",
		Recommendation: "Move the device to the management network.",
		Impact:         6,
	},
	domain.IssueDeviceUnknownOnMgmt: {
		Category:       domain.CategoryVlanSecurity,
		Title:          "Unknown Device on Management Network",
		Recommendation: "Identify the device; only infrastructure belongs on the management VLAN.",
		Impact:         8,
	},

	domain.IssueDNSEncryptionDisabled: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "Encrypted DNS Not Configured",
		Recommendation: "Enable DNS-over-HTTPS on the gateway so upstream queries are encrypted.",
		Impact:         8,
	},
	domain.IssueDNSDoHBlockMissing: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DoH Bypass Not Blocked",
		Recommendation: "Block known DNS-over-HTTPS providers so clients cannot bypass the enforced resolver.",
		Impact:         6,
	},
	domain.IssueDNSDoTBlockMissing: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DNS-over-TLS Not Blocked",
		Recommendation: "Block outbound TCP 853 for client segments.",
		Impact:         5,
	},
	domain.IssueDNSDoQBlockMissing: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DNS-over-QUIC Not Blocked",
		Recommendation: "Block outbound UDP 853 and 8853 for client segments.",
		Impact:         3,
	},
	domain.IssueDNSBypassNotBlocked: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DNS Bypass Applications Not Blocked",
		Recommendation: "Enable application-based blocking for encrypted-DNS apps.",
		Impact:         4,
	},
	domain.IssueDNSWanMismatch: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "WAN DNS Does Not Match DoH Provider",
		Recommendation: "Point the WAN DNS servers at the same provider the DoH configuration uses.",
		Impact:         5,
	},
	domain.IssueDNSWanOrder: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "WAN DNS Server Order Incorrect",
		Recommendation: "List the DoH provider's primary resolver first.",
		Impact:         2,
	},
	domain.IssueDNSRedirectMissing: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DNS Redirection Not Configured",
		Recommendation: "Add DNAT rules redirecting client DNS to the enforced resolver.",
		Impact:         8,
	},
	domain.IssueDNSRedirectPartial: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "DNS Redirection Covers Only Some Networks",
		Recommendation: "Extend the DNAT redirect to every client network.",
		Impact:         5,
	},
	domain.IssueDNSPort53Open: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "Outbound Port 53 Unrestricted",
		Recommendation: "Block or redirect direct outbound DNS so clients must use the local resolver.",
		Impact:         6,
	},
	domain.IssueDNSIspDefault: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "ISP Default DNS In Use",
		Recommendation: "Configure an independent resolver instead of the ISP default.",
		Impact:         4,
	},
	domain.IssueDNSThirdPartyResolver: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "Self-Hosted DNS Resolver Detected",
		Recommendation: "Ensure the resolver's management interface is restricted to the management network.",
		Impact:         1,
	},
	domain.IssueDNSResolverMgmtOpen: {
		Category:       domain.CategoryDNSSecurity,
		Title:          "Resolver Management Interface Exposed",
		Recommendation: "Remove the port forward for the resolver's management port or restrict it to a VPN.",
		Impact:         12,
	},

	domain.IssuePortUnused: {
		Category:       domain.CategoryPortSecurity,
		Title:          "Enabled Port Unused",
		Recommendation: "Disable switch ports that have seen no traffic; live jacks are an easy entry point.",
		Impact:         3,
	},
	domain.IssuePortUnusedNamed: {
		Category:       domain.CategoryPortSecurity,
		Title:          "Named Port Long Unused",
		Recommendation: "Confirm the labelled port is still needed, otherwise disable it.",
		Impact:         1,
	},
	domain.IssuePortNoMacRestriction: {
		Category:       domain.CategoryPortSecurity,
		Title:          "Sensitive Port Without MAC Restriction",
		Recommendation: "Pin the port to the connected device's MAC address.",
		Impact:         5,
	},
	domain.IssuePortCameraNoIsolation: {
		Category:       domain.CategoryPortSecurity,
		Title:          "Camera Port Without Isolation",
		Recommendation: "Enable port isolation so a compromised camera cannot reach peer devices.",
		Impact:         10,
	},

	domain.IssueUpnpEnabledNonHome: {
		Category:       domain.CategoryUpnpSecurity,
		Title:          "UPnP Enabled",
		Recommendation: "Disable UPnP; devices on restricted segments must not open WAN ports on their own.",
		Impact:         10,
	},
	domain.IssueUpnpPrivilegedPort: {
		Category:       domain.CategoryUpnpSecurity,
		Title:          "UPnP Mapping to Privileged Port",
		Recommendation: "Remove the mapping and forward a high port instead if the service is really needed.",
		Impact:         15,
	},
	domain.IssueForwardPrivilegedPort: {
		Category:       domain.CategoryUpnpSecurity,
		Title:          "Port Forward to Privileged Port",
		Recommendation: "Expose the service on a high external port or move it behind a VPN.",
		Impact:         12,
	},

	domain.IssueControllerNotConnected: {
		Category:       domain.CategoryGeneral,
		Title:          "Controller Not Connected",
		Recommendation: "Verify the controller address and credentials, then re-run the audit.",
		Impact:         100,
	},
	domain.IssueAuditFailed: {
		Category:       domain.CategoryGeneral,
		Title:          "Audit Failed",
		Recommendation: "Inspect the engine logs and re-run the audit.",
		Impact:         100,
	},
	domain.IssueFingerprintUnavailable: {
		Category:       domain.CategoryGeneral,
		Title:          "Device Fingerprint Data Unavailable",
		Recommendation: "Device classification ran with reduced coverage; check fingerprint service connectivity.",
		Impact:         5,
	},
}

// CategoryOf maps an issue type to its display category, General when the
// type is unknown.
func CategoryOf(t domain.IssueType) domain.AuditCategory {
	if e, ok := issueCatalog[t]; ok && e.Category != "" {
		return e.Category
	}
	return domain.CategoryGeneral
}

// TitleOf returns the catalog title, falling back to the raw type value.
func TitleOf(t domain.IssueType) string {
	if e, ok := issueCatalog[t]; ok && e.Title != "" {
		return e.Title
	}
	return string(t)
}

// RecommendationOf returns the default recommended action for a type.
func RecommendationOf(t domain.IssueType) string {
	if e, ok := issueCatalog[t]; ok {
		return e.Recommendation
	}
	return ""
}

// impactOf returns the catalog score impact, scaled down for findings
// emitted at Informational severity.
func impactOf(t domain.IssueType, sev domain.Severity) int {
	e, ok := issueCatalog[t]
	if !ok {
		return 1
	}
	if sev == domain.SeverityInformational && e.Impact > 2 {
		return 2
	}
	return e.Impact
}

// DisplayText renders the user-facing title for a finding. Placement
// findings emitted at Informational severity get hedged wording because a
// low-confidence classification must read as a suggestion, not a fact.
func DisplayText(t domain.IssueType, sev domain.Severity, deviceName string) string {
	title := DisplayTitle(t, sev)
	if deviceName == "" {
		return title
	}
	return fmt.Sprintf("%s: %s", title, deviceName)
}

// DisplayTitle is the severity-adjusted title. It also anchors the stable
// finding identity, so it must be a pure function of type and severity.
func DisplayTitle(t domain.IssueType, sev domain.Severity) string {
	title := TitleOf(t)
	if sev == domain.SeverityInformational && isPlacementType(t) {
		subject, rest, found := strings.Cut(title, " on ")
		if found {
			title = subject + " Possibly on " + rest
		}
	}
	return title
}

func isPlacementType(t domain.IssueType) bool {
	switch t {
	case domain.IssueDeviceIoTWrongVlan, domain.IssueDeviceCameraWrongVlan,
		domain.IssueDevicePrinterWrongVlan, domain.IssueDeviceMediaWrongVlan,
		domain.IssueDeviceTVWrongVlan, domain.IssueDeviceInfraWrongVlan:
		return true
	}
	return false
}

// newIssue builds a finding with the catalog recommendation and the score
// impact fixed at emission time.
func newIssue(t domain.IssueType, sev domain.Severity, message string) domain.AuditIssue {
	return domain.AuditIssue{
		Type:              t,
		Severity:          sev,
		Message:           message,
		RecommendedAction: RecommendationOf(t),
		ScoreImpact:       impactOf(t, sev),
	}
}
