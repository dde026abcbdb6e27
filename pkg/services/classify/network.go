// Package classify assigns purposes to networks and categories to devices.
// Everything here is recomputed per run from controller evidence; nothing
// is persisted.
package classify

import (
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// Networks builds the canonical per-run network list with purposes
// assigned from the controller purpose field, the network name, the VLAN
// ID and the DHCP/internet flags.
func Networks(confs []unifi.NetworkConf, zones []unifi.FirewallZoneConf) []domain.NetworkInfo {
	zoneByNetwork := make(map[string]string)
	for _, z := range zones {
		for _, id := range z.NetworkIDs {
			zoneByNetwork[id] = z.ID
		}
	}

	out := make([]domain.NetworkInfo, 0, len(confs))
	for _, c := range confs {
		if strings.EqualFold(c.Purpose, "wan") {
			continue
		}
		zoneID := c.FirewallZoneID
		if zoneID == "" {
			zoneID = zoneByNetwork[c.ID]
		}
		out = append(out, domain.NetworkInfo{
			ID:                    c.ID,
			Name:                  c.Name,
			VlanID:                c.VlanID,
			Purpose:               networkPurpose(c),
			Subnet:                c.Subnet,
			DhcpEnabled:           c.DhcpEnabled,
			InternetAccessEnabled: c.InternetAccess,
			NetworkIsolation:      c.NetworkIsolation,
			FirewallZoneID:        zoneID,
		})
	}
	return out
}

func networkPurpose(c unifi.NetworkConf) domain.NetworkPurpose {
	if strings.EqualFold(c.Purpose, "guest") {
		return domain.PurposeGuest
	}

	name := strings.ToLower(c.Name)
	switch {
	case containsAny(name, "iot", "smart", "appliance"):
		return domain.PurposeIoT
	case containsAny(name, "camera", "cctv", "protect", "surveillance", "nvr"):
		return domain.PurposeCamera
	case containsAny(name, "guest", "visitor"):
		return domain.PurposeGuest
	case containsAny(name, "mgmt", "management", "admin", "infra"):
		return domain.PurposeMgmt
	}

	// The untagged default segment is the home/main network; everything
	// else configured as corporate stays corporate.
	if c.VlanID == 0 || c.VlanID == 1 {
		return domain.PurposeHome
	}
	if strings.EqualFold(c.Purpose, "corporate") {
		return domain.PurposeCorporate
	}
	return domain.PurposeUnknown
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FindByPurpose returns the first network with the given purpose.
func FindByPurpose(networks []domain.NetworkInfo, p domain.NetworkPurpose) (domain.NetworkInfo, bool) {
	for _, n := range networks {
		if n.Purpose == p {
			return n, true
		}
	}
	return domain.NetworkInfo{}, false
}
