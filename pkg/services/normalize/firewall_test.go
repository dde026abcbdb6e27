package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/collector"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

func present[T any](v T) collector.Source[T] {
	return collector.Source[T]{Value: v, OK: true}
}

func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []int
	}{
		{name: "empty", spec: "", want: nil},
		{name: "any keyword", spec: "any", want: nil},
		{name: "any uppercase", spec: "ANY", want: nil},
		{name: "single port", spec: "443", want: []int{443}},
		{name: "list", spec: "53,853", want: []int{53, 853}},
		{name: "list with spaces", spec: " 53 , 853 ", want: []int{53, 853}},
		{name: "range", spec: "8000-8002", want: []int{8000, 8001, 8002}},
		{name: "range wider than cap reads as all ports", spec: "1-65535", want: nil},
		{name: "inverted range", spec: "500-100", want: nil},
		{name: "not a number", spec: "https", want: nil},
		{name: "zero is out of range", spec: "0", want: nil},
		{name: "above 65535", spec: "70000", want: nil},
		{name: "mixed list and range", spec: "22,8000-8001", want: []int{22, 8000, 8001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePortSpec(tt.spec))
		})
	}
}

func TestFirewall_NoEvidence(t *testing.T) {
	rules, generation := Firewall(collector.Evidence{})

	assert.Nil(t, rules)
	assert.Equal(t, domain.GenerationNone, generation)
}

func TestFirewall_V2WinsOverLegacy(t *testing.T) {
	ev := collector.Evidence{
		V2Policies: present([]unifi.V2FirewallPolicy{
			{ID: "p1", Name: "zone policy", Action: "ALLOW", Enabled: true},
		}),
		LegacyRules: present([]unifi.LegacyFirewallRule{
			{ID: "r1", Name: "legacy rule", Ruleset: "LAN_IN", Action: "accept", Enabled: true},
		}),
	}

	rules, generation := Firewall(ev)

	assert.Equal(t, domain.GenerationV2, generation)
	require.Len(t, rules, 1)
	assert.Equal(t, "zone policy", rules[0].Name)
}

func TestFirewall_V2PolicyFields(t *testing.T) {
	ev := collector.Evidence{
		V2Policies: present([]unifi.V2FirewallPolicy{{
			ID:       "p1",
			Name:     "iot to lan https",
			Action:   "BLOCK",
			Enabled:  true,
			Index:    4,
			Protocol: "tcp",
			Source: unifi.V2PolicyEndpoint{
				ZoneID: "zone-iot",
				IPs:    []string{"10.0.30.0/24"},
			},
			Destination: unifi.V2PolicyEndpoint{
				ZoneID: "zone-lan",
				Port:   "443,8443",
			},
		}}),
	}

	rules, generation := Firewall(ev)

	assert.Equal(t, domain.GenerationV2, generation)
	require.Len(t, rules, 1)
	r := rules[0]
	assert.Equal(t, domain.ActionDeny, r.Action)
	assert.Equal(t, 4, r.Order)
	assert.Equal(t, []string{"zone-iot"}, r.SourceZones)
	assert.Equal(t, []string{"zone-lan"}, r.DestZones)
	assert.Equal(t, []string{"10.0.30.0/24"}, r.SourceIPs)
	assert.Equal(t, []int{443, 8443}, r.Ports)
	assert.Equal(t, domain.GenerationV2, r.Generation)
}

func TestFirewall_V2PortGroupExpansion(t *testing.T) {
	ev := collector.Evidence{
		V2Policies: present([]unifi.V2FirewallPolicy{{
			ID: "p1", Name: "dns ports", Action: "BLOCK", Enabled: true,
			Destination: unifi.V2PolicyEndpoint{PortGroupID: "grp-dns"},
		}}),
		FirewallGroups: present([]unifi.FirewallGroup{
			{ID: "grp-dns", Name: "DNS", Type: "port-group", Members: []string{"53", "853"}},
		}),
	}

	rules, _ := Firewall(ev)

	require.Len(t, rules, 1)
	assert.Equal(t, []int{53, 853}, rules[0].Ports)
	assert.Empty(t, rules[0].OrphanedRefs)
}

func TestFirewall_V2OrphanedPortGroup(t *testing.T) {
	ev := collector.Evidence{
		V2Policies: present([]unifi.V2FirewallPolicy{{
			ID: "p1", Name: "dangling", Action: "BLOCK", Enabled: true,
			Destination: unifi.V2PolicyEndpoint{PortGroupID: "grp-deleted"},
		}}),
	}

	rules, _ := Firewall(ev)

	require.Len(t, rules, 1)
	assert.Equal(t, []string{"grp-deleted"}, rules[0].OrphanedRefs)
	assert.Empty(t, rules[0].Ports)
}

func TestFirewall_LegacySyntheticZones(t *testing.T) {
	tests := []struct {
		name    string
		ruleset string
		srcZone []string
		dstZone []string
	}{
		{name: "inbound", ruleset: "LAN_IN", srcZone: []string{"legacy:lan"}, dstZone: nil},
		{name: "outbound", ruleset: "GUEST_OUT", srcZone: nil, dstZone: []string{"legacy:guest"}},
		{name: "local", ruleset: "LAN_LOCAL", srcZone: []string{"legacy:lan"}, dstZone: []string{"legacy:gateway"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := collector.Evidence{
				LegacyRules: present([]unifi.LegacyFirewallRule{
					{ID: "r1", Name: "rule", Ruleset: tt.ruleset, Action: "drop", Enabled: true},
				}),
			}

			rules, generation := Firewall(ev)

			assert.Equal(t, domain.GenerationV1, generation)
			require.Len(t, rules, 1)
			assert.Equal(t, tt.srcZone, rules[0].SourceZones)
			assert.Equal(t, tt.dstZone, rules[0].DestZones)
		})
	}
}

func TestFirewall_LegacyGroupExpansion(t *testing.T) {
	ev := collector.Evidence{
		LegacyRules: present([]unifi.LegacyFirewallRule{{
			ID: "r1", Name: "block cameras", Ruleset: "LAN_IN", Action: "drop", Enabled: true,
			SrcFirewallGroupIDs: []string{"grp-cams"},
			DstFirewallGroupIDs: []string{"grp-web", "grp-gone"},
		}}),
		FirewallGroups: present([]unifi.FirewallGroup{
			{ID: "grp-cams", Type: "address-group", Members: []string{"10.0.30.10", "10.0.30.11"}},
			{ID: "grp-web", Type: "port-group", Members: []string{"80", "443"}},
		}),
	}

	rules, _ := Firewall(ev)

	require.Len(t, rules, 1)
	r := rules[0]
	assert.Equal(t, []string{"10.0.30.10", "10.0.30.11"}, r.SourceIPs)
	assert.Equal(t, []int{80, 443}, r.Ports)
	assert.Equal(t, []string{"grp-gone"}, r.OrphanedRefs)
}

func TestFirewall_LegacyMergesCombinedSource(t *testing.T) {
	ev := collector.Evidence{
		LegacyRules: present([]unifi.LegacyFirewallRule{
			{ID: "r2", Name: "plain rule", Ruleset: "LAN_IN", Action: "accept", Enabled: true, RuleIndex: 20},
		}),
		CombinedRules: present([]unifi.LegacyFirewallRule{
			{ID: "r1", Name: "app rule", Ruleset: "LAN_IN", Action: "drop", Enabled: true, RuleIndex: 10, AppIDs: []int{12001}},
		}),
	}

	rules, generation := Firewall(ev)

	assert.Equal(t, domain.GenerationV1, generation)
	require.Len(t, rules, 2)
	// Ordered by rule index regardless of which source a rule came from.
	assert.Equal(t, "app rule", rules[0].Name)
	assert.Equal(t, []int{12001}, rules[0].AppIDs)
	assert.Equal(t, "plain rule", rules[1].Name)
}

func TestFirewall_StableOrder(t *testing.T) {
	ev := collector.Evidence{
		V2Policies: present([]unifi.V2FirewallPolicy{
			{ID: "b", Name: "second", Action: "ALLOW", Index: 5},
			{ID: "a", Name: "first", Action: "ALLOW", Index: 5},
			{ID: "c", Name: "earliest", Action: "ALLOW", Index: 1},
		}),
	}

	rules, _ := Firewall(ev)

	require.Len(t, rules, 3)
	assert.Equal(t, "earliest", rules[0].Name)
	assert.Equal(t, "a", rules[1].RuleID)
	assert.Equal(t, "b", rules[2].RuleID)
}

func TestNatRules(t *testing.T) {
	ev := collector.Evidence{
		NatRules: present([]unifi.NatRuleConf{
			{ID: "n1", Description: "dns redirect", Enabled: true, Type: "DNAT",
				DestPort: "53", RedirectIP: "10.0.1.53", NetworkID: "net-main", Protocol: "udp"},
			{ID: "n2", Description: "outbound", Enabled: true, Type: "MASQUERADE"},
			{ID: "n3", Description: "multi-port keeps zero", Enabled: false, Type: "dnat", DestPort: "53,853"},
		}),
	}

	rules := NatRules(ev)

	require.Len(t, rules, 2)
	assert.Equal(t, "dns redirect", rules[0].Name)
	assert.Equal(t, 53, rules[0].DestPort)
	assert.Equal(t, "10.0.1.53", rules[0].Redirect)
	assert.Equal(t, "net-main", rules[0].NetworkID)
	assert.Equal(t, 0, rules[1].DestPort)
	assert.False(t, rules[1].Enabled)
}

func TestPortForwards(t *testing.T) {
	ev := collector.Evidence{
		PortForwards: present([]unifi.PortForwardConf{
			{ID: "f1", Name: "web", Enabled: true, DstPort: "443", Fwd: "10.0.1.80", FwdPort: "8443"},
		}),
	}

	forwards := PortForwards(ev)

	require.Len(t, forwards, 1)
	assert.Equal(t, 443, forwards[0].DestPort)
	assert.Equal(t, "10.0.1.80", forwards[0].ForwardIP)
	assert.Equal(t, 8443, forwards[0].ForwardPort)
}
