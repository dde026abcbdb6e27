package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

func TestNetworks_PurposeAssignment(t *testing.T) {
	tests := []struct {
		name string
		conf unifi.NetworkConf
		want domain.NetworkPurpose
	}{
		{name: "controller guest purpose wins over name",
			conf: unifi.NetworkConf{Name: "IoT Things", Purpose: "guest", VlanID: 99},
			want: domain.PurposeGuest},
		{name: "iot by name",
			conf: unifi.NetworkConf{Name: "Smart Appliances", Purpose: "corporate", VlanID: 20},
			want: domain.PurposeIoT},
		{name: "cameras by name",
			conf: unifi.NetworkConf{Name: "CCTV", Purpose: "corporate", VlanID: 30},
			want: domain.PurposeCamera},
		{name: "guest by name",
			conf: unifi.NetworkConf{Name: "Visitor WiFi", Purpose: "corporate", VlanID: 40},
			want: domain.PurposeGuest},
		{name: "management by name",
			conf: unifi.NetworkConf{Name: "Mgmt", Purpose: "corporate", VlanID: 99},
			want: domain.PurposeMgmt},
		{name: "untagged default is home",
			conf: unifi.NetworkConf{Name: "Default", Purpose: "corporate", VlanID: 0},
			want: domain.PurposeHome},
		{name: "vlan 1 is home",
			conf: unifi.NetworkConf{Name: "LAN", Purpose: "corporate", VlanID: 1},
			want: domain.PurposeHome},
		{name: "tagged corporate stays corporate",
			conf: unifi.NetworkConf{Name: "Servers", Purpose: "corporate", VlanID: 50},
			want: domain.PurposeCorporate},
		{name: "tagged vlan-only with opaque name",
			conf: unifi.NetworkConf{Name: "VL60", Purpose: "vlan-only", VlanID: 60},
			want: domain.PurposeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			networks := Networks([]unifi.NetworkConf{tt.conf}, nil)
			require.Len(t, networks, 1)
			assert.Equal(t, tt.want, networks[0].Purpose)
		})
	}
}

func TestNetworks_SkipsWan(t *testing.T) {
	networks := Networks([]unifi.NetworkConf{
		{ID: "net-wan", Name: "WAN", Purpose: "wan"},
		{ID: "net-lan", Name: "LAN", Purpose: "corporate", VlanID: 1},
	}, nil)

	require.Len(t, networks, 1)
	assert.Equal(t, "net-lan", networks[0].ID)
}

func TestNetworks_ZoneResolution(t *testing.T) {
	zones := []unifi.FirewallZoneConf{
		{ID: "zone-iot", Name: "IoT", NetworkIDs: []string{"net-iot"}},
	}
	networks := Networks([]unifi.NetworkConf{
		{ID: "net-iot", Name: "IoT", VlanID: 20},
		{ID: "net-cams", Name: "Cameras", VlanID: 30, FirewallZoneID: "zone-cams"},
	}, zones)

	require.Len(t, networks, 2)
	// Zone membership fills in when the network record itself has no zone.
	assert.Equal(t, "zone-iot", networks[0].FirewallZoneID)
	// An explicit zone on the record is left alone.
	assert.Equal(t, "zone-cams", networks[1].FirewallZoneID)
}

func TestFindByPurpose(t *testing.T) {
	networks := []domain.NetworkInfo{
		{ID: "net-main", Purpose: domain.PurposeHome},
		{ID: "net-iot", Purpose: domain.PurposeIoT},
	}

	found, ok := FindByPurpose(networks, domain.PurposeIoT)
	require.True(t, ok)
	assert.Equal(t, "net-iot", found.ID)

	_, ok = FindByPurpose(networks, domain.PurposeCamera)
	assert.False(t, ok)
}
