// Package unifi declares the controller-facing interfaces the audit engine
// consumes, the raw payload shapes those endpoints return, and the HTTP
// client that talks to a controller.
package unifi

import "time"

// V2FirewallPolicy is one zone-based policy from the v2 firewall API.
type V2FirewallPolicy struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Action   string `json:"action"` // ALLOW / BLOCK / REJECT
	Enabled  bool   `json:"enabled"`
	Index    int    `json:"index"`
	Protocol string `json:"protocol"`
	Source   V2PolicyEndpoint `json:"source"`
	Destination V2PolicyEndpoint `json:"destination"`
}

// V2PolicyEndpoint describes one side of a v2 policy.
type V2PolicyEndpoint struct {
	ZoneID           string   `json:"zone_id"`
	NetworkIDs       []string `json:"network_ids"`
	IPs              []string `json:"ips"`
	Port             string   `json:"port"`
	PortGroupID      string   `json:"port_group_id"`
	MatchOppositePorts bool   `json:"match_opposite_ports"`
	AppIDs           []int    `json:"app_ids"`
}

// LegacyFirewallRule is one rule from the v1 ruleset API.
type LegacyFirewallRule struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Ruleset          string   `json:"ruleset"` // e.g. LAN_IN, GUEST_OUT
	RuleIndex        int      `json:"rule_index"`
	Action           string   `json:"action"` // accept / drop / reject
	Enabled          bool     `json:"enabled"`
	Protocol         string   `json:"protocol"`
	SrcFirewallGroupIDs []string `json:"src_firewallgroup_ids"`
	DstFirewallGroupIDs []string `json:"dst_firewallgroup_ids"`
	SrcAddress       string   `json:"src_address"`
	DstAddress       string   `json:"dst_address"`
	DstPort          string   `json:"dst_port"`
	AppIDs           []int    `json:"app_ids"`
}

// FirewallGroup is a named port or address list referenced by rules.
type FirewallGroup struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Type    string   `json:"group_type"` // port-group / address-group
	Members []string `json:"group_members"`
}

// NetworkConf is the controller's network configuration record.
type NetworkConf struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	Purpose        string `json:"purpose"` // corporate / guest / wan / vlan-only
	VlanID         int    `json:"vlan"`
	Subnet         string `json:"ip_subnet"`
	DhcpEnabled    bool   `json:"dhcpd_enabled"`
	InternetAccess bool   `json:"internet_access_enabled"`
	NetworkIsolation bool `json:"network_isolation_enabled"`
	FirewallZoneID string `json:"firewall_zone_id"`
}

// FirewallZoneConf is a v2 firewall zone record.
type FirewallZoneConf struct {
	ID         string   `json:"_id"`
	Name       string   `json:"name"`
	NetworkIDs []string `json:"network_ids"`
}

// NatRuleConf is a raw NAT rule from the controller.
type NatRuleConf struct {
	ID            string `json:"_id"`
	Description   string `json:"description"`
	Enabled       bool   `json:"enabled"`
	Type          string `json:"type"` // DNAT / SNAT / MASQUERADE
	DestPort      string `json:"dst_port"`
	RedirectIP    string `json:"redirect_ip"`
	RedirectPort  string `json:"redirect_port"`
	OutInterface  string `json:"out_interface"`
	NetworkID     string `json:"network_id"`
	Protocol      string `json:"protocol"`
}

// PortForwardConf is a static port-forward entry.
type PortForwardConf struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	DstPort  string `json:"dst_port"`
	Fwd      string `json:"fwd"`
	FwdPort  string `json:"fwd_port"`
	Protocol string `json:"proto"`
}

// PortProfileConf is a switch port profile.
type PortProfileConf struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	Isolation     bool   `json:"isolation"`
	MacTableBased bool   `json:"port_security_enabled"`
	NativeNetID   string `json:"native_networkconf_id"`
}

// Client is a client record as returned by the controller, possibly from
// the history endpoint for offline clients.
type Client struct {
	MAC             string    `json:"mac"`
	Name            string    `json:"name"`
	Hostname        string    `json:"hostname"`
	IP              string    `json:"ip"`
	NetworkID       string    `json:"network_id"`
	VlanID          int       `json:"vlan"`
	IsWired         bool      `json:"is_wired"`
	DevIDOverride   int       `json:"dev_id_override"`
	FingerprintDevID int      `json:"dev_id"`
	LastSeen        time.Time `json:"-"`
	LastSeenUnix    int64     `json:"last_seen"`
}

// Device is a UniFi network device (switch, AP, gateway) in the subset the
// audit needs; the full payload arrives as raw JSON.
type Device struct {
	MAC      string       `json:"mac"`
	Name     string       `json:"name"`
	Model    string       `json:"model"`
	Type     string       `json:"type"` // usw / uap / ugw / udm
	PortTable []DevicePort `json:"port_table"`
}

// DevicePort is one entry of a device's port table.
type DevicePort struct {
	PortIdx       int    `json:"port_idx"`
	Name          string `json:"name"`
	Enable        bool   `json:"enable"`
	Up            bool   `json:"up"`
	PortProfileID string `json:"portconf_id"`
	Isolation     bool   `json:"isolation"`
	MacRestricted bool   `json:"port_security_enabled"`
	LastActivity  int64  `json:"last_connection"`
	NativeVlan    int    `json:"native_networkconf_vlan"`
	MacTable      []struct {
		MAC string `json:"mac"`
	} `json:"mac_table"`
}

// ProtectCamera is a camera adopted by UniFi Protect. Presence in this list
// is authoritative for device classification.
type ProtectCamera struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// SiteSettings is the subset of the settings payload the audit inspects.
type SiteSettings struct {
	UpnpEnabled    bool     `json:"upnp_enabled"`
	UpnpNatPmp     bool     `json:"upnp_nat_pmp_enabled"`
	DoHState       string   `json:"doh_state"` // off / auto / manual / custom
	DoHServers     []string `json:"doh_servers"`
	WanDNSServers  []string `json:"wan_dns"`
	WpaMode        string   `json:"wpa_mode"`
	Wpa3Support    bool     `json:"wpa3_support"`
	GuestIsolation bool     `json:"guest_isolation"`
}

// UpnpMapping is one active UPnP/NAT-PMP lease on the gateway.
type UpnpMapping struct {
	ExternalPort int    `json:"external_port"`
	InternalPort int    `json:"internal_port"`
	InternalIP   string `json:"internal_ip"`
	Protocol     string `json:"protocol"`
	Description  string `json:"description"`
}
