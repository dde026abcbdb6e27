package domain

// AuditCategory is the caller-facing grouping of findings.
type AuditCategory string

const (
	CategoryFirewallRules AuditCategory = "Firewall Rules"
	CategoryVlanSecurity  AuditCategory = "VLAN Security"
	CategoryPortSecurity  AuditCategory = "Port Security"
	CategoryDNSSecurity   AuditCategory = "DNS Security"
	CategoryUpnpSecurity  AuditCategory = "UPnP Security"
	CategoryGeneral       AuditCategory = "General"
)

// AuditOptions is pure caller input. The engine never mutates it.
type AuditOptions struct {
	IncludeFirewall bool
	IncludeVlan     bool
	IncludePorts    bool
	IncludeDNS      bool

	AllowTVsOnMainNetwork      bool
	AllowPrintersOnMainNetwork bool
	AllowMediaOnMainNetwork    bool

	UnusedPortDays        int
	NamedUnusedPortDays   int
	DnatExcludedVlanIDs   []int
	ThirdPartyDNSMgmtPort int
}

// DefaultAuditOptions enables every category with the stock thresholds.
func DefaultAuditOptions() AuditOptions {
	return AuditOptions{
		IncludeFirewall:       true,
		IncludeVlan:           true,
		IncludePorts:          true,
		IncludeDNS:            true,
		UnusedPortDays:        30,
		NamedUnusedPortDays:   90,
		ThirdPartyDNSMgmtPort: 443,
	}
}

// CategoryEnabled reports whether findings in the category should be
// surfaced and counted. UPnP and General findings are always kept.
func (o AuditOptions) CategoryEnabled(c AuditCategory) bool {
	switch c {
	case CategoryFirewallRules:
		return o.IncludeFirewall
	case CategoryVlanSecurity:
		return o.IncludeVlan
	case CategoryPortSecurity:
		return o.IncludePorts
	case CategoryDNSSecurity:
		return o.IncludeDNS
	default:
		return true
	}
}
