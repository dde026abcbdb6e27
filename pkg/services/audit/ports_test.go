package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

func TestPortSecurity_NoSwitches(t *testing.T) {
	issues := EvaluatePortSecurity(Input{}, DefaultSettings(), domain.DefaultAuditOptions())
	assert.Empty(t, issues)
}

func TestPortSecurity_UnusedPorts(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	in := Input{
		Now: now,
		Switches: []domain.SwitchInfo{{
			MAC:  "f0:9f:c2:00:00:01",
			Name: "office-switch",
			Ports: []domain.SwitchPort{
				{Index: 1, Enabled: true, Up: false, LastActivity: now.AddDate(0, 0, -45)},
				{Index: 2, Enabled: true, Up: false, LastActivity: now.AddDate(0, 0, -10)},
				{Index: 3, Enabled: false, Up: false},
				{Index: 4, Name: "NAS", Enabled: true, Up: false, LastActivity: now.AddDate(0, 0, -45)},
				{Index: 5, Name: "Printer", Enabled: true, Up: false, LastActivity: now.AddDate(0, 0, -100)},
				{Index: 6, Enabled: true, Up: false}, // no activity ever
				{Index: 7, Name: "Spare AP", Enabled: true, Up: false}, // named, no activity ever
			},
		}},
	}
	issues := EvaluatePortSecurity(in, DefaultSettings(), domain.DefaultAuditOptions())

	unused := map[int]domain.IssueType{}
	for _, i := range issues {
		unused[i.Port] = i.Type
	}
	assert.Equal(t, domain.IssuePortUnused, unused[1])
	assert.NotContains(t, unused, 2) // within the grace period
	assert.NotContains(t, unused, 3) // disabled ports are ignored
	assert.NotContains(t, unused, 4) // named ports get the longer grace period
	assert.Equal(t, domain.IssuePortUnusedNamed, unused[5])
	assert.Equal(t, domain.IssuePortUnused, unused[6])
	assert.Equal(t, domain.IssuePortUnusedNamed, unused[7])
}

func TestPortSecurity_CameraPorts(t *testing.T) {
	in := Input{
		Now: time.Now(),
		Networks: []domain.NetworkInfo{
			network("cams", "Cameras", 30, domain.PurposeCamera, nil),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "front-door", "cams", domain.CategoryCamera, 100),
		},
		Switches: []domain.SwitchInfo{{
			MAC:  "f0:9f:c2:00:00:01",
			Name: "garage-switch",
			Ports: []domain.SwitchPort{
				// Camera attached, no isolation, no MAC restriction.
				{Index: 1, Enabled: true, Up: true, ConnectedMACs: []string{"aa:bb:cc:00:00:01"}},
				// Camera VLAN native, properly locked down.
				{Index: 2, Enabled: true, Up: true, NativeVlanID: 30, MacRestricted: true, Isolation: true},
				// Ordinary access port.
				{Index: 3, Enabled: true, Up: true},
			},
		}},
	}
	issues := EvaluatePortSecurity(in, DefaultSettings(), domain.DefaultAuditOptions())

	byPort := map[int][]domain.IssueType{}
	for _, i := range issues {
		byPort[i.Port] = append(byPort[i.Port], i.Type)
	}
	require.Contains(t, byPort, 1)
	assert.Contains(t, byPort[1], domain.IssuePortNoMacRestriction)
	assert.Contains(t, byPort[1], domain.IssuePortCameraNoIsolation)
	assert.NotContains(t, byPort, 2)
	assert.NotContains(t, byPort, 3)
}

func TestExposure_UpnpFlatNetworkTolerated(t *testing.T) {
	in := Input{
		UpnpKnown:   true,
		UpnpEnabled: true,
		Networks: []domain.NetworkInfo{
			network("main", "Main", 1, domain.PurposeHome, nil),
		},
	}
	issues := EvaluateExposure(in, DefaultSettings())
	assert.NotContains(t, issueTypes(issues), domain.IssueUpnpEnabledNonHome)
}

func TestExposure_UpnpWithSegments(t *testing.T) {
	in := Input{
		UpnpKnown:   true,
		UpnpEnabled: true,
		Networks: []domain.NetworkInfo{
			network("main", "Main", 1, domain.PurposeHome, nil),
			network("iot", "IoT", 20, domain.PurposeIoT, nil),
		},
		UpnpMappings: []upnpMapping{
			{ExternalPort: 443, InternalPort: 8443, InternalIP: "192.168.1.50", Description: "nvr"},
			{ExternalPort: 25565, InternalPort: 25565, InternalIP: "192.168.1.60"},
		},
	}
	issues := EvaluateExposure(in, DefaultSettings())

	types := issueTypes(issues)
	assert.Contains(t, types, domain.IssueUpnpEnabledNonHome)

	privileged := 0
	for _, i := range issues {
		if i.Type == domain.IssueUpnpPrivilegedPort {
			privileged++
			assert.Equal(t, domain.SeverityCritical, i.Severity)
			assert.Equal(t, 443, i.Port)
			assert.Equal(t, "nvr", i.DeviceName)
		}
	}
	assert.Equal(t, 1, privileged)
}

func TestExposure_PrivilegedPortForward(t *testing.T) {
	in := Input{
		PortForwards: []domain.PortForward{
			{ID: "f1", Name: "ssh", Enabled: true, DestPort: 22, ForwardIP: "192.168.1.10", ForwardPort: 22},
			{ID: "f2", Name: "game", Enabled: true, DestPort: 25565, ForwardIP: "192.168.1.11", ForwardPort: 25565},
			{ID: "f3", Name: "old-ssh", Enabled: false, DestPort: 22, ForwardIP: "192.168.1.12", ForwardPort: 22},
		},
	}
	issues := EvaluateExposure(in, DefaultSettings())
	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueForwardPrivilegedPort, issues[0].Type)
	assert.Equal(t, "ssh", issues[0].DeviceName)
	assert.Equal(t, 22, issues[0].Port)
}
