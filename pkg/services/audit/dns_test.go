package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

func TestDNSProtection_UnprotectedNetwork(t *testing.T) {
	// No DoH, ISP resolvers, no port 53 handling: the three classic
	// findings together.
	in := Input{
		Generation:    domain.GenerationV2,
		SettingsKnown: true,
		DoHState:      "off",
		WanDNSServers: []string{"62.179.104.196"},
		Rules: []domain.FirewallRule{
			{RuleID: "allow-out", Action: domain.ActionAllow, Enabled: true},
		},
	}
	issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())

	types := issueTypes(issues)
	assert.Contains(t, types, domain.IssueDNSEncryptionDisabled)
	assert.Contains(t, types, domain.IssueDNSIspDefault)
	assert.Contains(t, types, domain.IssueDNSPort53Open)

	assert.False(t, state.DoHEnabled)
	assert.Equal(t, []string{"62.179.104.196"}, state.WanDNSServers)
}

func TestDNSProtection_DeliberatePublicResolver(t *testing.T) {
	in := Input{
		Generation:    domain.GenerationNone,
		SettingsKnown: true,
		DoHState:      "off",
		WanDNSServers: []string{"1.1.1.1", "1.0.0.1"},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.Contains(t, types, domain.IssueDNSEncryptionDisabled)
	assert.NotContains(t, types, domain.IssueDNSIspDefault)
}

func TestDNSProtection_WanMismatch(t *testing.T) {
	in := Input{
		Generation:    domain.GenerationNone,
		SettingsKnown: true,
		DoHState:      "manual",
		DoHServers:    []string{"https://dns.quad9.net/dns-query"},
		WanDNSServers: []string{"8.8.8.8", "8.8.4.4"},
	}
	issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.Contains(t, issueTypes(issues), domain.IssueDNSWanMismatch)
	assert.True(t, state.DoHEnabled)
	assert.Equal(t, "dns.quad9.net", state.DoHProvider)
}

func TestDNSProtection_WanOrder(t *testing.T) {
	in := Input{
		Generation:    domain.GenerationNone,
		SettingsKnown: true,
		DoHState:      "manual",
		DoHServers:    []string{"https://dns.quad9.net/dns-query"},
		WanDNSServers: []string{"149.112.112.112", "9.9.9.9"},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueDNSWanMismatch)
	assert.Contains(t, types, domain.IssueDNSWanOrder)
}

func TestDNSProtection_WanMatchesProvider(t *testing.T) {
	in := Input{
		Generation:    domain.GenerationNone,
		SettingsKnown: true,
		DoHState:      "manual",
		DoHServers:    []string{"https://dns.quad9.net/dns-query"},
		WanDNSServers: []string{"9.9.9.9", "149.112.112.112"},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueDNSWanMismatch)
	assert.NotContains(t, types, domain.IssueDNSWanOrder)
}

func TestDNSProtection_EncryptedDNSBlocking(t *testing.T) {
	in := Input{
		Generation: domain.GenerationV2,
		Rules: []domain.FirewallRule{
			{RuleID: "block-dot", Action: domain.ActionDeny, Enabled: true, Ports: []int{853}},
			{RuleID: "block-doh-app", Action: domain.ActionDeny, Enabled: true, AppIDs: []int{4}},
		},
	}
	issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueDNSDoTBlockMissing)
	assert.NotContains(t, types, domain.IssueDNSDoQBlockMissing)
	assert.NotContains(t, types, domain.IssueDNSDoHBlockMissing)
	assert.True(t, state.EncryptedDNSBlock)
}

func TestDNSProtection_EncryptedDNSGaps(t *testing.T) {
	in := Input{
		Generation: domain.GenerationV2,
		Rules: []domain.FirewallRule{
			{RuleID: "block-dot", Action: domain.ActionDeny, Enabled: true, Ports: []int{853}, Protocol: "tcp"},
		},
	}
	issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueDNSDoTBlockMissing)
	assert.Contains(t, types, domain.IssueDNSDoQBlockMissing)
	assert.Contains(t, types, domain.IssueDNSDoHBlockMissing)
	assert.False(t, state.EncryptedDNSBlock)
}

func TestDNSProtection_DoHBlockViaResolverIPs(t *testing.T) {
	in := Input{
		Generation: domain.GenerationV2,
		Rules: []domain.FirewallRule{
			{RuleID: "block-doh-ips", Action: domain.ActionDeny, Enabled: true,
				DestIPs: []string{"1.1.1.1/32"}, Ports: []int{443}},
		},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.NotContains(t, issueTypes(issues), domain.IssueDNSDoHBlockMissing)
}

func TestDNSProtection_AddressOnlyBypassGap(t *testing.T) {
	// Address rules stop the resolvers we know about, but without
	// application blocking an unknown DoH endpoint still gets through.
	in := Input{
		Generation: domain.GenerationV2,
		Rules: []domain.FirewallRule{
			{RuleID: "block-doh-ips", Action: domain.ActionDeny, Enabled: true,
				DestIPs: []string{"1.1.1.1/32"}, Ports: []int{443}},
		},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	types := issueTypes(issues)
	assert.NotContains(t, types, domain.IssueDNSDoHBlockMissing)
	assert.Contains(t, types, domain.IssueDNSBypassNotBlocked)
}

func TestDNSProtection_AppBlockingCoversBypass(t *testing.T) {
	in := Input{
		Generation: domain.GenerationV2,
		Rules: []domain.FirewallRule{
			{RuleID: "block-doh-app", Action: domain.ActionDeny, Enabled: true, AppIDs: []int{4}},
		},
	}
	issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
	assert.NotContains(t, issueTypes(issues), domain.IssueDNSBypassNotBlocked)
}

func TestDNSProtection_DnatCoverage(t *testing.T) {
	networks := []domain.NetworkInfo{
		network("main", "Main", 1, domain.PurposeHome, nil),
		network("iot", "IoT", 20, domain.PurposeIoT, nil),
		network("guest", "Guest", 40, domain.PurposeGuest, nil),
	}

	t.Run("global redirect covers everything", func(t *testing.T) {
		in := Input{
			Generation: domain.GenerationV2,
			Networks:   networks,
			NatRules: []domain.NatRule{
				{ID: "dns-all", Enabled: true, DestPort: 53, Redirect: "192.168.1.53"},
			},
		}
		issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
		types := issueTypes(issues)
		assert.NotContains(t, types, domain.IssueDNSRedirectMissing)
		assert.NotContains(t, types, domain.IssueDNSRedirectPartial)
		assert.ElementsMatch(t, []string{"Main", "IoT"}, state.RedirectedNetworks)
	})

	t.Run("partial coverage", func(t *testing.T) {
		in := Input{
			Generation: domain.GenerationV2,
			Networks:   networks,
			NatRules: []domain.NatRule{
				{ID: "dns-main", Enabled: true, DestPort: 53, NetworkID: "main", Redirect: "192.168.1.53"},
			},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
		require.Contains(t, issueTypes(issues), domain.IssueDNSRedirectPartial)
		for _, i := range issues {
			if i.Type == domain.IssueDNSRedirectPartial {
				assert.Contains(t, i.Message, "IoT")
			}
		}
	})

	t.Run("excluded vlan does not count against coverage", func(t *testing.T) {
		opts := domain.DefaultAuditOptions()
		opts.DnatExcludedVlanIDs = []int{20}
		in := Input{
			Generation: domain.GenerationV2,
			Networks:   networks,
			NatRules: []domain.NatRule{
				{ID: "dns-main", Enabled: true, DestPort: 53, NetworkID: "main", Redirect: "192.168.1.53"},
			},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), opts)
		types := issueTypes(issues)
		assert.NotContains(t, types, domain.IssueDNSRedirectPartial)
		assert.NotContains(t, types, domain.IssueDNSRedirectMissing)
	})

	t.Run("no redirect at all", func(t *testing.T) {
		in := Input{
			Generation: domain.GenerationV2,
			Networks:   networks,
			NatRules: []domain.NatRule{
				{ID: "unrelated", Enabled: true, DestPort: 8080},
			},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
		assert.Contains(t, issueTypes(issues), domain.IssueDNSRedirectMissing)
	})
}

func TestDNSProtection_SelfHostedResolver(t *testing.T) {
	in := Input{
		Generation: domain.GenerationV2,
		NatRules: []domain.NatRule{
			{ID: "dns-all", Enabled: true, DestPort: 53, Redirect: "192.168.1.53"},
		},
		Clients: []domain.ClientInfo{
			{MAC: "aa:bb:cc:00:00:09", Name: "pihole", IP: "192.168.1.53"},
		},
	}
	issues, state := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())

	require.Contains(t, issueTypes(issues), domain.IssueDNSThirdPartyResolver)
	assert.Equal(t, "pihole", state.ThirdPartyResolver)
	for _, i := range issues {
		if i.Type == domain.IssueDNSThirdPartyResolver {
			assert.Equal(t, domain.SeverityInformational, i.Severity)
			assert.Contains(t, i.Message, "192.168.1.53")
		}
	}
}

func TestDNSProtection_ResolverManagementExposure(t *testing.T) {
	base := func() Input {
		return Input{
			Generation: domain.GenerationV2,
			NatRules: []domain.NatRule{
				{ID: "dns-all", Enabled: true, DestPort: 53, Redirect: "192.168.1.53"},
			},
			Clients: []domain.ClientInfo{
				{MAC: "aa:bb:cc:00:00:09", Name: "adguard", IP: "192.168.1.53"},
			},
		}
	}

	t.Run("port forward on the management port", func(t *testing.T) {
		in := base()
		in.PortForwards = []domain.PortForward{
			{ID: "pf1", Name: "admin-ui", Enabled: true, DestPort: 10443,
				ForwardIP: "192.168.1.53", ForwardPort: 443},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())

		require.Contains(t, issueTypes(issues), domain.IssueDNSResolverMgmtOpen)
		for _, i := range issues {
			if i.Type == domain.IssueDNSResolverMgmtOpen {
				assert.Equal(t, domain.SeverityCritical, i.Severity)
				assert.Equal(t, "adguard", i.DeviceName)
				assert.Equal(t, 10443, i.Port)
			}
		}
	})

	t.Run("upnp lease on the management port", func(t *testing.T) {
		in := base()
		in.UpnpMappings = []upnpMapping{
			{ExternalPort: 8443, InternalPort: 443, InternalIP: "192.168.1.53"},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
		assert.Contains(t, issueTypes(issues), domain.IssueDNSResolverMgmtOpen)
	})

	t.Run("forward to a different port stays quiet", func(t *testing.T) {
		in := base()
		in.PortForwards = []domain.PortForward{
			{ID: "pf1", Name: "dns", Enabled: true, DestPort: 53,
				ForwardIP: "192.168.1.53", ForwardPort: 53},
		}
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), domain.DefaultAuditOptions())
		assert.NotContains(t, issueTypes(issues), domain.IssueDNSResolverMgmtOpen)
	})

	t.Run("management port follows the option", func(t *testing.T) {
		in := base()
		in.PortForwards = []domain.PortForward{
			{ID: "pf1", Name: "admin-ui", Enabled: true, DestPort: 10443,
				ForwardIP: "192.168.1.53", ForwardPort: 3000},
		}

		opts := domain.DefaultAuditOptions()
		issues, _ := EvaluateDNSProtection(in, DefaultSettings(), opts)
		assert.NotContains(t, issueTypes(issues), domain.IssueDNSResolverMgmtOpen)

		opts.ThirdPartyDNSMgmtPort = 3000
		issues, _ = EvaluateDNSProtection(in, DefaultSettings(), opts)
		assert.Contains(t, issueTypes(issues), domain.IssueDNSResolverMgmtOpen)
	})
}
