package audit

import "github.com/lan-tools/net-atlas/pkg/models/domain"

// DetectHardeningMeasures inspects the evidence for named best practices.
// The full catalogue is always returned with Present flags so coverage can
// be computed; measures are independent of findings and never filtered by
// category options.
func DetectHardeningMeasures(in Input) []domain.HardeningMeasure {
	byPurpose := make(map[domain.NetworkPurpose]domain.NetworkInfo)
	isolatedRestricted := 0
	restricted := 0
	for _, n := range in.Networks {
		if _, ok := byPurpose[n.Purpose]; !ok {
			byPurpose[n.Purpose] = n
		}
		if n.IsIsolationExpected() {
			restricted++
			if n.NetworkIsolation || hasZoneDeny(in.Rules, n.FirewallZoneID) {
				isolatedRestricted++
			}
		}
	}

	defaultBlock := false
	if len(in.Rules) > 0 {
		last := in.Rules[len(in.Rules)-1]
		defaultBlock = last.Enabled && last.Action == domain.ActionDeny &&
			openSources(last) && openDests(last) && last.MatchesAllPorts()
	}

	dnsRedirect := false
	for _, n := range in.NatRules {
		if n.Enabled && n.DestPort == 53 {
			dnsRedirect = true
			break
		}
	}

	noPrivilegedForwards := true
	for _, f := range in.PortForwards {
		if f.Enabled && f.DestPort > 0 && f.DestPort < 1024 {
			noPrivilegedForwards = false
			break
		}
	}

	_, hasIoT := byPurpose[domain.PurposeIoT]
	_, hasCamera := byPurpose[domain.PurposeCamera]
	_, hasGuest := byPurpose[domain.PurposeGuest]
	_, hasMgmt := byPurpose[domain.PurposeMgmt]

	return []domain.HardeningMeasure{
		{Name: "WPA3 enabled", Description: "Wireless networks accept WPA3 clients.", Present: in.SettingsKnown && in.Wpa3Enabled},
		{Name: "Guest isolation", Description: "Guest clients cannot reach each other.", Present: in.SettingsKnown && in.GuestIsolation},
		{Name: "Encrypted upstream DNS", Description: "The gateway resolves via DNS-over-HTTPS.", Present: in.SettingsKnown && dohEnabled(in.DoHState)},
		{Name: "UPnP disabled", Description: "Devices cannot open WAN ports automatically.", Present: in.UpnpKnown && !in.UpnpEnabled},
		{Name: "Default block rule", Description: "The ruleset ends in an enabled catch-all block.", Present: defaultBlock},
		{Name: "Dedicated IoT network", Description: "Smart devices have their own VLAN.", Present: hasIoT},
		{Name: "Dedicated camera network", Description: "Surveillance devices have their own VLAN.", Present: hasCamera},
		{Name: "Guest network", Description: "Visitors land on a separate segment.", Present: hasGuest},
		{Name: "Management network", Description: "Infrastructure management is segregated.", Present: hasMgmt},
		{Name: "Restricted segments isolated", Description: "Every restricted segment blocks lateral traffic.", Present: restricted > 0 && isolatedRestricted == restricted},
		{Name: "DNS redirection", Description: "Client DNS is redirected to the enforced resolver.", Present: dnsRedirect},
		{Name: "No privileged port forwards", Description: "No static forward exposes a privileged port.", Present: noPrivilegedForwards},
	}
}
