package audit

import (
	"fmt"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// EvaluateNetworkSegmentation checks network-level isolation posture and
// device-to-VLAN placement.
func EvaluateNetworkSegmentation(in Input, s Settings, opts domain.AuditOptions) []domain.AuditIssue {
	var issues []domain.AuditIssue

	issues = append(issues, checkNetworkIsolation(in)...)
	issues = append(issues, checkMissingNetworks(in)...)
	issues = append(issues, checkDevicePlacement(in, s, opts)...)

	sortIssues(issues)
	return issues
}

func checkNetworkIsolation(in Input) []domain.AuditIssue {
	var issues []domain.AuditIssue
	for _, n := range in.Networks {
		if !n.IsIsolationExpected() {
			continue
		}

		if !n.NetworkIsolation && !hasZoneDeny(in.Rules, n.FirewallZoneID) {
			sev := domain.SeverityRecommended
			if n.Purpose == domain.PurposeCamera || n.Purpose == domain.PurposeMgmt {
				sev = domain.SeverityCritical
			}
			issue := newIssue(domain.IssueVlanIsolationMissing, sev,
				fmt.Sprintf("Network %q (%s) is not isolated from other VLANs.", n.Name, n.Purpose))
			issue.CurrentNetwork = n.Name
			issue.CurrentVlan = n.VlanID
			issues = append(issues, issue)
		}

		if n.Purpose == domain.PurposeCamera && !n.NetworkIsolation && n.InternetAccessEnabled {
			issue := newIssue(domain.IssueVlanRoutingEnabled, domain.SeverityCritical,
				fmt.Sprintf("Camera network %q can route to other segments and the internet.", n.Name))
			issue.CurrentNetwork = n.Name
			issue.CurrentVlan = n.VlanID
			issues = append(issues, issue)
		}

		if (n.Purpose == domain.PurposeCamera || n.Purpose == domain.PurposeMgmt) && n.InternetAccessEnabled {
			issue := newIssue(domain.IssueVlanInternetOnIsolated, domain.SeverityRecommended,
				fmt.Sprintf("Network %q (%s) has internet access enabled.", n.Name, n.Purpose))
			issue.CurrentNetwork = n.Name
			issue.CurrentVlan = n.VlanID
			issues = append(issues, issue)
		}

		if n.Purpose == domain.PurposeMgmt && n.DhcpEnabled {
			issue := newIssue(domain.IssueVlanDhcpGuardMissing, domain.SeverityRecommended,
				fmt.Sprintf("Management network %q hands out DHCP leases.", n.Name))
			issue.CurrentNetwork = n.Name
			issue.CurrentVlan = n.VlanID
			issues = append(issues, issue)
		}
	}
	return issues
}

// hasZoneDeny reports whether any enabled deny rule is sourced from the
// network's firewall zone. Works for both real and synthetic zone IDs; an
// empty zone never matches.
func hasZoneDeny(rules []domain.FirewallRule, zoneID string) bool {
	if zoneID == "" {
		return false
	}
	for _, r := range rules {
		if !r.Enabled || r.Action != domain.ActionDeny {
			continue
		}
		for _, z := range r.SourceZones {
			if z == zoneID {
				return true
			}
		}
	}
	return false
}

func checkMissingNetworks(in Input) []domain.AuditIssue {
	var issues []domain.AuditIssue

	hasPurpose := make(map[domain.NetworkPurpose]bool)
	for _, n := range in.Networks {
		hasPurpose[n.Purpose] = true
	}

	var hasIoTDevices, hasCameras bool
	for _, c := range in.Clients {
		switch {
		case c.Detection.IsSurveillance():
			hasCameras = true
		case c.Detection.IsIoT():
			hasIoTDevices = true
		}
	}

	if hasIoTDevices && !hasPurpose[domain.PurposeIoT] {
		issues = append(issues, newIssue(domain.IssueVlanMissingIoTNetwork, domain.SeverityRecommended,
			"Smart devices are present but no dedicated IoT network exists."))
	}
	if hasCameras && !hasPurpose[domain.PurposeCamera] {
		issues = append(issues, newIssue(domain.IssueVlanMissingCameraNetwork, domain.SeverityRecommended,
			"Cameras are present but no dedicated camera network exists."))
	}
	if !hasPurpose[domain.PurposeGuest] {
		issues = append(issues, newIssue(domain.IssueVlanMissingGuestNetwork, domain.SeverityInformational,
			"No guest network is configured."))
	}
	if !hasPurpose[domain.PurposeMgmt] {
		issues = append(issues, newIssue(domain.IssueVlanMissingMgmtNetwork, domain.SeverityInformational,
			"No management network is configured."))
	}
	return issues
}

// placementTarget maps a device category to the purpose of the network it
// belongs on, or false when the category has no dedicated segment.
func placementTarget(cat domain.DeviceCategory) (domain.NetworkPurpose, domain.IssueType, bool) {
	switch cat {
	case domain.CategoryCamera:
		return domain.PurposeCamera, domain.IssueDeviceCameraWrongVlan, true
	case domain.CategoryIoT:
		return domain.PurposeIoT, domain.IssueDeviceIoTWrongVlan, true
	case domain.CategoryPrinter:
		return domain.PurposeIoT, domain.IssueDevicePrinterWrongVlan, true
	case domain.CategoryMediaPlayer:
		return domain.PurposeIoT, domain.IssueDeviceMediaWrongVlan, true
	case domain.CategoryTV:
		return domain.PurposeIoT, domain.IssueDeviceTVWrongVlan, true
	case domain.CategoryInfrastructure:
		return domain.PurposeMgmt, domain.IssueDeviceInfraWrongVlan, true
	}
	return "", "", false
}

func allowedOnMain(cat domain.DeviceCategory, opts domain.AuditOptions) bool {
	switch cat {
	case domain.CategoryTV:
		return opts.AllowTVsOnMainNetwork
	case domain.CategoryPrinter:
		return opts.AllowPrintersOnMainNetwork
	case domain.CategoryMediaPlayer:
		return opts.AllowMediaOnMainNetwork
	}
	return false
}

func checkDevicePlacement(in Input, s Settings, opts domain.AuditOptions) []domain.AuditIssue {
	networkByID := make(map[string]domain.NetworkInfo, len(in.Networks))
	byPurpose := make(map[domain.NetworkPurpose]domain.NetworkInfo)
	for _, n := range in.Networks {
		networkByID[n.ID] = n
		if _, ok := byPurpose[n.Purpose]; !ok {
			byPurpose[n.Purpose] = n
		}
	}

	var issues []domain.AuditIssue
	for _, c := range in.Clients {
		current, known := networkByID[c.NetworkID]

		if known && current.Purpose == domain.PurposeMgmt && c.Detection.Category == domain.CategoryUnknown {
			issue := newIssue(domain.IssueDeviceUnknownOnMgmt, domain.SeverityRecommended,
				fmt.Sprintf("Unidentified device %q is on the management network.", c.DisplayName()))
			issue.DeviceName = c.DisplayName()
			issue.DeviceMAC = c.MAC
			issue.ClientMAC = c.MAC
			issue.IsWireless = !c.IsWired
			issue.CurrentNetwork = current.Name
			issue.CurrentVlan = current.VlanID
			issues = append(issues, issue)
			continue
		}

		target, issueType, ok := placementTarget(c.Detection.Category)
		if !ok {
			continue
		}
		dedicated, exists := byPurpose[target]
		if !exists {
			continue // missing-network findings cover this case
		}
		if known && current.Purpose == target {
			continue
		}
		if c.NetworkID == dedicated.ID {
			continue
		}

		sev := domain.SeverityCritical
		hedged := false
		if c.Detection.ConfidenceScore < s.ConfidenceThreshold {
			sev = domain.SeverityInformational
			hedged = true
		}
		if known && current.Purpose == domain.PurposeHome && allowedOnMain(c.Detection.Category, opts) {
			sev = domain.SeverityInformational
		}

		verb := "is on"
		if hedged {
			verb = "is possibly on"
		}
		issue := newIssue(issueType, sev,
			fmt.Sprintf("%s %q %s the wrong network; it belongs on %q (VLAN %d).",
				categoryNoun(c.Detection.Category), c.DisplayName(), verb, dedicated.Name, dedicated.VlanID))
		issue.DeviceName = c.DisplayName()
		issue.DeviceMAC = c.MAC
		issue.ClientMAC = c.MAC
		issue.IsWireless = !c.IsWired
		if known {
			issue.CurrentNetwork = current.Name
			issue.CurrentVlan = current.VlanID
		}
		issue.RecommendedNetwork = dedicated.Name
		issue.RecommendedVlan = dedicated.VlanID
		issue.Metadata = map[string]any{
			"confidence": c.Detection.ConfidenceScore,
			"signal":     c.Detection.Signal,
		}
		issues = append(issues, issue)
	}
	return issues
}

func categoryNoun(cat domain.DeviceCategory) string {
	switch cat {
	case domain.CategoryCamera:
		return "Camera"
	case domain.CategoryIoT:
		return "IoT device"
	case domain.CategoryPrinter:
		return "Printer"
	case domain.CategoryMediaPlayer:
		return "Media player"
	case domain.CategoryTV:
		return "Smart TV"
	case domain.CategoryInfrastructure:
		return "Infrastructure device"
	}
	return "Device"
}
