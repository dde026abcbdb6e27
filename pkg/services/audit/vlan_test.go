package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

func network(id, name string, vlan int, purpose domain.NetworkPurpose, mutate func(*domain.NetworkInfo)) domain.NetworkInfo {
	n := domain.NetworkInfo{ID: id, Name: name, VlanID: vlan, Purpose: purpose}
	if mutate != nil {
		mutate(&n)
	}
	return n
}

func client(mac, name, networkID string, cat domain.DeviceCategory, confidence int) domain.ClientInfo {
	return domain.ClientInfo{
		MAC:       mac,
		Name:      name,
		NetworkID: networkID,
		IsWired:   true,
		Detection: domain.DeviceDetectionResult{
			Category:        cat,
			ConfidenceScore: confidence,
		},
	}
}

func TestNetworkSegmentation_IsolationMissing(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "IoT", 20, domain.PurposeIoT, nil),
			network("n2", "Cameras", 30, domain.PurposeCamera, nil),
			network("n3", "Guest", 40, domain.PurposeGuest, nil),
			network("n4", "Mgmt", 99, domain.PurposeMgmt, nil),
			network("n5", "Main", 1, domain.PurposeHome, nil),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())

	byNetwork := make(map[string]domain.Severity)
	for _, i := range issues {
		if i.Type == domain.IssueVlanIsolationMissing {
			byNetwork[i.CurrentNetwork] = i.Severity
		}
	}
	assert.Equal(t, domain.SeverityRecommended, byNetwork["IoT"])
	assert.Equal(t, domain.SeverityCritical, byNetwork["Cameras"])
	assert.Equal(t, domain.SeverityRecommended, byNetwork["Guest"])
	assert.Equal(t, domain.SeverityCritical, byNetwork["Mgmt"])
	assert.NotContains(t, byNetwork, "Main")
}

func TestNetworkSegmentation_ZoneDenyCountsAsIsolation(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "IoT", 20, domain.PurposeIoT, func(n *domain.NetworkInfo) {
				n.FirewallZoneID = "zone-iot"
			}),
		},
		Rules: []domain.FirewallRule{
			{RuleID: "deny-iot", Action: domain.ActionDeny, Enabled: true, SourceZones: []string{"zone-iot"}},
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.NotContains(t, issueTypes(issues), domain.IssueVlanIsolationMissing)
}

func TestNetworkSegmentation_CameraRouting(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "Cameras", 30, domain.PurposeCamera, func(n *domain.NetworkInfo) {
				n.InternetAccessEnabled = true
			}),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.Contains(t, types, domain.IssueVlanRoutingEnabled)
	assert.Contains(t, types, domain.IssueVlanInternetOnIsolated)
}

func TestNetworkSegmentation_MgmtDhcpGuard(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "Mgmt", 99, domain.PurposeMgmt, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
				n.DhcpEnabled = true
			}),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.Contains(t, issueTypes(issues), domain.IssueVlanDhcpGuardMissing)
}

func TestNetworkSegmentation_MissingNetworks(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "Main", 1, domain.PurposeHome, nil),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "plug", "n1", domain.CategoryIoT, 85),
			client("aa:bb:cc:00:00:02", "cam", "n1", domain.CategoryCamera, 100),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.Contains(t, types, domain.IssueVlanMissingIoTNetwork)
	assert.Contains(t, types, domain.IssueVlanMissingCameraNetwork)
	assert.Contains(t, types, domain.IssueVlanMissingGuestNetwork)
	assert.Contains(t, types, domain.IssueVlanMissingMgmtNetwork)
}

func TestNetworkSegmentation_MissingIoTNetworkNeedsDevices(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("n1", "Main", 1, domain.PurposeHome, nil),
			network("n2", "Guest", 40, domain.PurposeGuest, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
			network("n3", "Mgmt", 99, domain.PurposeMgmt, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueVlanMissingIoTNetwork)
	assert.NotContains(t, types, domain.IssueVlanMissingCameraNetwork)
}

func TestDevicePlacement_CameraConfidenceSplit(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("main", "Main", 1, domain.PurposeHome, nil),
			network("cams", "Cameras", 30, domain.PurposeCamera, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "front-door", "main", domain.CategoryCamera, 95),
			client("aa:bb:cc:00:00:02", "maybe-cam", "main", domain.CategoryCamera, 40),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())

	bySeverity := make(map[string]domain.AuditIssue)
	for _, i := range issues {
		if i.Type == domain.IssueDeviceCameraWrongVlan {
			bySeverity[i.DeviceName] = i
		}
	}
	require.Len(t, bySeverity, 2)

	confident := bySeverity["front-door"]
	assert.Equal(t, domain.SeverityCritical, confident.Severity)
	assert.Contains(t, confident.Message, `"front-door" is on the wrong network`)
	assert.Equal(t, "Cameras", confident.RecommendedNetwork)
	assert.Equal(t, 30, confident.RecommendedVlan)

	hedged := bySeverity["maybe-cam"]
	assert.Equal(t, domain.SeverityInformational, hedged.Severity)
	assert.Contains(t, hedged.Message, "is possibly on")
}

func TestDevicePlacement_DeviceOnItsNetwork(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("cams", "Cameras", 30, domain.PurposeCamera, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "front-door", "cams", domain.CategoryCamera, 100),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.NotContains(t, issueTypes(issues), domain.IssueDeviceCameraWrongVlan)
}

func TestDevicePlacement_AllowTVsOnMain(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("main", "Main", 1, domain.PurposeHome, nil),
			network("iot", "IoT", 20, domain.PurposeIoT, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "living-room-tv", "main", domain.CategoryTV, 90),
		},
	}

	opts := domain.DefaultAuditOptions()
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), opts)
	found := false
	for _, i := range issues {
		if i.Type == domain.IssueDeviceTVWrongVlan {
			found = true
			assert.Equal(t, domain.SeverityCritical, i.Severity)
		}
	}
	require.True(t, found)

	opts.AllowTVsOnMainNetwork = true
	issues = EvaluateNetworkSegmentation(in, DefaultSettings(), opts)
	for _, i := range issues {
		if i.Type == domain.IssueDeviceTVWrongVlan {
			assert.Equal(t, domain.SeverityInformational, i.Severity)
		}
	}
}

func TestDevicePlacement_UnknownOnMgmt(t *testing.T) {
	in := Input{
		Networks: []domain.NetworkInfo{
			network("mgmt", "Mgmt", 99, domain.PurposeMgmt, func(n *domain.NetworkInfo) {
				n.NetworkIsolation = true
			}),
		},
		Clients: []domain.ClientInfo{
			client("aa:bb:cc:00:00:01", "mystery-box", "mgmt", domain.CategoryUnknown, 0),
		},
	}
	issues := EvaluateNetworkSegmentation(in, DefaultSettings(), domain.DefaultAuditOptions())
	require.Contains(t, issueTypes(issues), domain.IssueDeviceUnknownOnMgmt)
}
