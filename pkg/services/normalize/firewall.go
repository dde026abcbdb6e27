// Package normalize flattens the controller's two firewall API generations
// into one canonical rule list so the evaluators never branch on the
// upstream representation.
package normalize

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/collector"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// maxPortExpansion caps how many ports a single range is expanded to.
// Anything wider is treated as matching all ports.
const maxPortExpansion = 1024

// SyntheticZonePrefix marks zone IDs invented for legacy rules. Evaluators
// must not treat them as controller zone object IDs.
const SyntheticZonePrefix = "legacy:"

// Firewall flattens whichever firewall source is authoritative for this run
// into ordered canonical rules. The v2 zone API wins when it returned
// policies; otherwise the legacy ruleset is used, merged with the separate
// combined-traffic source that holds app-identifier rules on the v1 path.
// If neither produced data the rule list is empty and the generation is
// GenerationNone, which downstream checks interpret as "no evidence".
func Firewall(ev collector.Evidence) ([]domain.FirewallRule, domain.APIGeneration) {
	groups := groupIndex(ev)

	if ev.V2Policies.Present() && len(ev.V2Policies.Value) > 0 {
		return fromV2(ev.V2Policies.Value, groups), domain.GenerationV2
	}

	var legacy []unifi.LegacyFirewallRule
	if ev.LegacyRules.Present() {
		legacy = append(legacy, ev.LegacyRules.Value...)
	}
	if ev.CombinedRules.Present() {
		legacy = append(legacy, ev.CombinedRules.Value...)
	}
	if len(legacy) == 0 {
		return nil, domain.GenerationNone
	}
	return fromLegacy(legacy, groups), domain.GenerationV1
}

func groupIndex(ev collector.Evidence) map[string]unifi.FirewallGroup {
	idx := make(map[string]unifi.FirewallGroup)
	if ev.FirewallGroups.Present() {
		for _, g := range ev.FirewallGroups.Value {
			idx[g.ID] = g
		}
	}
	return idx
}

func fromV2(policies []unifi.V2FirewallPolicy, groups map[string]unifi.FirewallGroup) []domain.FirewallRule {
	rules := make([]domain.FirewallRule, 0, len(policies))
	for _, p := range policies {
		rule := domain.FirewallRule{
			RuleID:     p.ID,
			Name:       p.Name,
			Action:     v2Action(p.Action),
			Order:      p.Index,
			Enabled:    p.Enabled,
			Protocol:   p.Protocol,
			Generation: domain.GenerationV2,
			AppIDs:     p.Source.AppIDs,
		}
		if p.Source.ZoneID != "" {
			rule.SourceZones = []string{p.Source.ZoneID}
		}
		if p.Destination.ZoneID != "" {
			rule.DestZones = []string{p.Destination.ZoneID}
		}
		rule.SourceIPs = append(rule.SourceIPs, p.Source.IPs...)
		rule.DestIPs = append(rule.DestIPs, p.Destination.IPs...)

		rule.Ports = append(rule.Ports, ParsePortSpec(p.Destination.Port)...)
		if p.Destination.PortGroupID != "" {
			ports, ok := expandPortGroup(groups, p.Destination.PortGroupID)
			if !ok {
				rule.OrphanedRefs = append(rule.OrphanedRefs, p.Destination.PortGroupID)
			}
			rule.Ports = append(rule.Ports, ports...)
		}
		rule.AppIDs = append(rule.AppIDs, p.Destination.AppIDs...)

		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

func fromLegacy(legacy []unifi.LegacyFirewallRule, groups map[string]unifi.FirewallGroup) []domain.FirewallRule {
	rules := make([]domain.FirewallRule, 0, len(legacy))
	for _, r := range legacy {
		rule := domain.FirewallRule{
			RuleID:     r.ID,
			Name:       r.Name,
			Action:     legacyAction(r.Action),
			Order:      r.RuleIndex,
			Enabled:    r.Enabled,
			Protocol:   r.Protocol,
			Generation: domain.GenerationV1,
			AppIDs:     r.AppIDs,
		}

		srcZone, dstZone := syntheticZones(r.Ruleset)
		if srcZone != "" {
			rule.SourceZones = []string{srcZone}
		}
		if dstZone != "" {
			rule.DestZones = []string{dstZone}
		}

		if r.SrcAddress != "" {
			rule.SourceIPs = append(rule.SourceIPs, r.SrcAddress)
		}
		if r.DstAddress != "" {
			rule.DestIPs = append(rule.DestIPs, r.DstAddress)
		}
		rule.Ports = append(rule.Ports, ParsePortSpec(r.DstPort)...)

		for _, id := range r.SrcFirewallGroupIDs {
			ips, ok := expandAddressGroup(groups, id)
			if !ok {
				rule.OrphanedRefs = append(rule.OrphanedRefs, id)
				continue
			}
			rule.SourceIPs = append(rule.SourceIPs, ips...)
		}
		for _, id := range r.DstFirewallGroupIDs {
			if g, ok := groups[id]; ok && g.Type == "port-group" {
				ports, _ := expandPortGroup(groups, id)
				rule.Ports = append(rule.Ports, ports...)
				continue
			}
			ips, ok := expandAddressGroup(groups, id)
			if !ok {
				rule.OrphanedRefs = append(rule.OrphanedRefs, id)
				continue
			}
			rule.DestIPs = append(rule.DestIPs, ips...)
		}

		rules = append(rules, rule)
	}
	sortRules(rules)
	return rules
}

// syntheticZones maps a legacy ruleset name onto invented zone IDs so the
// zone-aware evaluators can run unmodified against v1 rules. LAN_IN filters
// traffic sourced from the LAN segment; LAN_OUT filters traffic destined to
// it; LAN_LOCAL targets the gateway itself.
func syntheticZones(ruleset string) (src, dst string) {
	base, dir, found := strings.Cut(strings.ToLower(ruleset), "_")
	if !found {
		return SyntheticZonePrefix + strings.ToLower(ruleset), ""
	}
	zone := SyntheticZonePrefix + base
	switch dir {
	case "in":
		return zone, ""
	case "out":
		return "", zone
	case "local":
		return zone, SyntheticZonePrefix + "gateway"
	default:
		return zone, ""
	}
}

func expandPortGroup(groups map[string]unifi.FirewallGroup, id string) ([]int, bool) {
	g, ok := groups[id]
	if !ok || g.Type != "port-group" {
		return nil, false
	}
	var ports []int
	for _, m := range g.Members {
		ports = append(ports, ParsePortSpec(m)...)
	}
	return ports, true
}

func expandAddressGroup(groups map[string]unifi.FirewallGroup, id string) ([]string, bool) {
	g, ok := groups[id]
	if !ok || g.Type != "address-group" {
		return nil, false
	}
	return append([]string(nil), g.Members...), true
}

// ParsePortSpec expands a controller port expression ("443", "8000-8010",
// "53,853") into literal ports. Ranges wider than maxPortExpansion yield
// nothing, which the rule model reads as "all ports".
func ParsePortSpec(spec string) []int {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "any") {
		return nil
	}
	var ports []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			if p, err := strconv.Atoi(part); err == nil && p > 0 && p <= 65535 {
				ports = append(ports, p)
			}
			continue
		}
		start, err1 := strconv.Atoi(strings.TrimSpace(lo))
		end, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil || start > end || end-start+1 > maxPortExpansion {
			continue
		}
		for p := start; p <= end; p++ {
			if p > 0 && p <= 65535 {
				ports = append(ports, p)
			}
		}
	}
	return ports
}

func sortRules(rules []domain.FirewallRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Order != rules[j].Order {
			return rules[i].Order < rules[j].Order
		}
		return rules[i].RuleID < rules[j].RuleID
	})
}

func v2Action(a string) domain.RuleAction {
	if strings.EqualFold(a, "allow") {
		return domain.ActionAllow
	}
	return domain.ActionDeny
}

func legacyAction(a string) domain.RuleAction {
	if strings.EqualFold(a, "accept") {
		return domain.ActionAllow
	}
	return domain.ActionDeny
}

// NatRules filters the raw NAT table down to enabled DNAT entries in
// canonical form.
func NatRules(ev collector.Evidence) []domain.NatRule {
	if !ev.NatRules.Present() {
		return nil
	}
	var out []domain.NatRule
	for _, n := range ev.NatRules.Value {
		if !strings.EqualFold(n.Type, "dnat") {
			continue
		}
		port := 0
		if ports := ParsePortSpec(n.DestPort); len(ports) == 1 {
			port = ports[0]
		}
		out = append(out, domain.NatRule{
			ID:        n.ID,
			Name:      n.Description,
			Enabled:   n.Enabled,
			DestPort:  port,
			Redirect:  n.RedirectIP,
			NetworkID: n.NetworkID,
			Protocol:  n.Protocol,
		})
	}
	return out
}

// PortForwards converts the static port-forward table into canonical form.
func PortForwards(ev collector.Evidence) []domain.PortForward {
	if !ev.PortForwards.Present() {
		return nil
	}
	var out []domain.PortForward
	for _, f := range ev.PortForwards.Value {
		dst := 0
		if ports := ParsePortSpec(f.DstPort); len(ports) > 0 {
			dst = ports[0]
		}
		fwd := 0
		if ports := ParsePortSpec(f.FwdPort); len(ports) > 0 {
			fwd = ports[0]
		}
		out = append(out, domain.PortForward{
			ID:          f.ID,
			Name:        f.Name,
			Enabled:     f.Enabled,
			DestPort:    dst,
			ForwardIP:   f.Fwd,
			ForwardPort: fwd,
		})
	}
	return out
}
