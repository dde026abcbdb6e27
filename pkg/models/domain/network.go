package domain

// NetworkPurpose classifies what a network segment is for.
type NetworkPurpose string

const (
	PurposeCorporate NetworkPurpose = "corporate"
	PurposeIoT       NetworkPurpose = "iot"
	PurposeCamera    NetworkPurpose = "camera-security"
	PurposeGuest     NetworkPurpose = "guest"
	PurposeMgmt      NetworkPurpose = "management"
	PurposeHome      NetworkPurpose = "home"
	PurposeUnknown   NetworkPurpose = "unknown"
)

// NetworkInfo is the canonical per-run view of a configured network.
// Immutable for the lifetime of an audit run.
type NetworkInfo struct {
	ID                    string
	Name                  string
	VlanID                int
	Purpose               NetworkPurpose
	Subnet                string
	DhcpEnabled           bool
	InternetAccessEnabled bool
	NetworkIsolation      bool
	FirewallZoneID        string
}

// IsIsolationExpected reports whether the segment's purpose calls for
// blocking lateral traffic to other VLANs.
func (n NetworkInfo) IsIsolationExpected() bool {
	switch n.Purpose {
	case PurposeIoT, PurposeCamera, PurposeGuest, PurposeMgmt:
		return true
	}
	return false
}

// FirewallZone is a v2 zone definition resolved against networks.
type FirewallZone struct {
	ID         string
	Name       string
	NetworkIDs []string
}
