package audit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/normalize"
)

// EvaluateFirewallRules runs the rule hygiene checks against the canonical
// rule list. With no rule evidence (GenerationNone) every check is skipped;
// a missing ruleset must not read as a clean one.
func EvaluateFirewallRules(in Input, s Settings) []domain.AuditIssue {
	if in.Generation == domain.GenerationNone {
		return nil
	}

	var issues []domain.AuditIssue

	enabled := enabledRules(in.Rules)
	if len(enabled) == 0 {
		issues = append(issues, newIssue(domain.IssueFirewallNoRules, domain.SeverityRecommended,
			"The firewall has no enabled rules; all inter-zone traffic is governed by defaults only."))
		return issues
	}

	issues = append(issues, checkAnyAny(enabled)...)
	issues = append(issues, checkBroadRules(enabled, s)...)
	issues = append(issues, checkOrphanedRefs(enabled)...)
	issues = append(issues, checkShadowing(enabled)...)
	issues = append(issues, checkDuplicates(enabled)...)
	issues = append(issues, checkManagementAllows(enabled, s)...)
	issues = append(issues, checkDisabledDefaultBlock(in.Rules)...)

	sortIssues(issues)
	return issues
}

func enabledRules(rules []domain.FirewallRule) []domain.FirewallRule {
	out := make([]domain.FirewallRule, 0, len(rules))
	for _, r := range rules {
		if r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// openSources reports whether the rule constrains its sources at all. The
// synthetic zones invented for legacy rulesets record where the ruleset
// hooked in, not a scoping the operator chose, so they do not count.
func openSources(r domain.FirewallRule) bool {
	return len(r.SourceIPs) == 0 && allSynthetic(r.SourceZones)
}

func openDests(r domain.FirewallRule) bool {
	return len(r.DestIPs) == 0 && allSynthetic(r.DestZones)
}

func allSynthetic(zones []string) bool {
	for _, z := range zones {
		if !strings.HasPrefix(z, normalize.SyntheticZonePrefix) {
			return false
		}
	}
	return true
}

func checkAnyAny(rules []domain.FirewallRule) []domain.AuditIssue {
	var issues []domain.AuditIssue
	for _, r := range rules {
		if r.Action != domain.ActionAllow {
			continue
		}
		if openSources(r) && openDests(r) && r.MatchesAllPorts() {
			issues = append(issues, withRule(newIssue(domain.IssueFirewallAnyAny, domain.SeverityCritical,
				fmt.Sprintf("Rule %q allows any source to reach any destination on any port.", ruleLabel(r))), r))
		}
	}
	return issues
}

func checkBroadRules(rules []domain.FirewallRule, s Settings) []domain.AuditIssue {
	var issues []domain.AuditIssue
	for _, r := range rules {
		if r.Action != domain.ActionAllow {
			continue
		}
		if openSources(r) && openDests(r) && r.MatchesAllPorts() {
			continue // already reported as any-any
		}
		openSide := openSources(r) || openDests(r)
		openPorts := r.MatchesAllPorts() || len(r.Ports) > s.BroadRulePortCount
		if openSide && openPorts {
			issues = append(issues, withRule(newIssue(domain.IssueFirewallBroadRule, domain.SeverityRecommended,
				fmt.Sprintf("Rule %q leaves one side unscoped while matching effectively all ports.", ruleLabel(r))), r))
		}
	}
	return issues
}

func checkOrphanedRefs(rules []domain.FirewallRule) []domain.AuditIssue {
	var issues []domain.AuditIssue
	for _, r := range rules {
		if len(r.OrphanedRefs) == 0 {
			continue
		}
		issues = append(issues, withRule(newIssue(domain.IssueFirewallOrphanedRule, domain.SeverityRecommended,
			fmt.Sprintf("Rule %q references %d object(s) that no longer exist: %s.",
				ruleLabel(r), len(r.OrphanedRefs), strings.Join(r.OrphanedRefs, ", "))), r))
	}
	return issues
}

// checkShadowing finds rules whose effect is subverted by ordering: a rule
// is shadowed when an earlier enabled rule of the opposite action covers
// its entire source, destination and port match, by literal-set inclusion
// over the expanded rule form. Synthetic and real zone IDs compare the
// same way, so the check works on either API generation.
func checkShadowing(rules []domain.FirewallRule) []domain.AuditIssue {
	var issues []domain.AuditIssue
	for i, r := range rules {
		for j := 0; j < i; j++ {
			earlier := rules[j]
			if earlier.Action == r.Action {
				continue
			}
			if !covers(earlier, r) {
				continue
			}
			t := domain.IssueFirewallShadowedAllow
			if r.Action == domain.ActionDeny {
				t = domain.IssueFirewallShadowedDeny
			}
			issues = append(issues, withRule(newIssue(t, domain.SeverityRecommended,
				fmt.Sprintf("Rule %q can never match: rule %q earlier in the order covers all of its traffic.",
					ruleLabel(r), ruleLabel(earlier))), r))
			break // one shadow finding per rule
		}
	}
	return issues
}

// covers reports whether a's match space is a superset of b's.
func covers(a, b domain.FirewallRule) bool {
	if !(a.MatchesAllSources() || (subsetStrings(b.SourceZones, a.SourceZones) && subsetStrings(b.SourceIPs, a.SourceIPs))) {
		return false
	}
	if !(a.MatchesAllDests() || (subsetStrings(b.DestZones, a.DestZones) && subsetStrings(b.DestIPs, a.DestIPs))) {
		return false
	}
	if a.MatchesAllPorts() {
		return true
	}
	if b.MatchesAllPorts() {
		return false
	}
	return subsetInts(b.Ports, a.Ports) && subsetInts(b.AppIDs, a.AppIDs)
}

func checkDuplicates(rules []domain.FirewallRule) []domain.AuditIssue {
	var issues []domain.AuditIssue
	seen := make(map[string]string) // signature -> first rule label
	for _, r := range rules {
		sig := ruleSignature(r)
		if first, ok := seen[sig]; ok {
			issues = append(issues, withRule(newIssue(domain.IssueFirewallDuplicateRule, domain.SeverityInformational,
				fmt.Sprintf("Rule %q duplicates rule %q.", ruleLabel(r), first)), r))
			continue
		}
		seen[sig] = ruleLabel(r)
	}
	return issues
}

func ruleSignature(r domain.FirewallRule) string {
	ports := append([]int(nil), r.Ports...)
	sort.Ints(ports)
	return fmt.Sprintf("%s|%v|%v|%v|%v|%v|%s",
		r.Action, sortedCopy(r.SourceZones), sortedCopy(r.DestZones),
		sortedCopy(r.SourceIPs), sortedCopy(r.DestIPs), ports, r.Protocol)
}

// checkManagementAllows verifies that a broad deny does not also cut off
// the management plane: cloud control, NTP and the cellular backup channel
// each need an allow ordered before the deny that would otherwise catch
// them.
func checkManagementAllows(rules []domain.FirewallRule, s Settings) []domain.AuditIssue {
	plane := []struct {
		port int
		t    domain.IssueType
		what string
	}{
		{s.CloudControlPort, domain.IssueFirewallMissingCloudAllow, "cloud management"},
		{s.NTPPort, domain.IssueFirewallMissingNTPAllow, "NTP"},
		{s.BackupControlPort, domain.IssueFirewallMissingBackupAllow, "cellular backup"},
	}

	var issues []domain.AuditIssue
	for _, p := range plane {
		denyIdx := -1
		for i, r := range rules {
			if r.Action == domain.ActionDeny && openSources(r) && ruleMatchesPort(r, p.port) {
				denyIdx = i
				break
			}
		}
		if denyIdx < 0 {
			continue
		}
		allowed := false
		for _, r := range rules[:denyIdx] {
			if r.Action == domain.ActionAllow && ruleMatchesPort(r, p.port) {
				allowed = true
				break
			}
		}
		if !allowed {
			issues = append(issues, newIssue(p.t, domain.SeverityRecommended,
				fmt.Sprintf("A broad deny catches %s traffic (port %d) with no earlier allow.", p.what, p.port)))
		}
	}
	return issues
}

func checkDisabledDefaultBlock(rules []domain.FirewallRule) []domain.AuditIssue {
	// Only the final rule counts as the default block.
	if len(rules) == 0 {
		return nil
	}
	last := rules[len(rules)-1]
	if last.Enabled || last.Action != domain.ActionDeny {
		return nil
	}
	if openSources(last) && openDests(last) && last.MatchesAllPorts() {
		return []domain.AuditIssue{withRule(newIssue(domain.IssueFirewallDisabledDefaultBlock, domain.SeverityCritical,
			fmt.Sprintf("The catch-all block rule %q is disabled.", ruleLabel(last))), last)}
	}
	return nil
}

func ruleMatchesPort(r domain.FirewallRule, port int) bool {
	if r.MatchesAllPorts() {
		return true
	}
	for _, p := range r.Ports {
		if p == port {
			return true
		}
	}
	return false
}

func ruleLabel(r domain.FirewallRule) string {
	if r.Name != "" {
		return r.Name
	}
	return r.RuleID
}

func withRule(issue domain.AuditIssue, r domain.FirewallRule) domain.AuditIssue {
	issue.Metadata = map[string]any{
		"rule_id":    r.RuleID,
		"rule_order": r.Order,
		"generation": string(r.Generation),
	}
	issue.DeviceName = ruleLabel(r)
	return issue
}

func subsetStrings(sub, super []string) bool {
	for _, s := range sub {
		found := false
		for _, p := range super {
			if s == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func subsetInts(sub, super []int) bool {
	for _, s := range sub {
		found := false
		for _, p := range super {
			if s == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// sortIssues imposes a stable presentation order within an evaluator's
// output: severity first, then type, then subject.
func sortIssues(issues []domain.AuditIssue) {
	rank := map[domain.Severity]int{
		domain.SeverityCritical:      0,
		domain.SeverityRecommended:   1,
		domain.SeverityInformational: 2,
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if rank[issues[i].Severity] != rank[issues[j].Severity] {
			return rank[issues[i].Severity] < rank[issues[j].Severity]
		}
		if issues[i].Type != issues[j].Type {
			return issues[i].Type < issues[j].Type
		}
		if issues[i].DeviceName != issues[j].DeviceName {
			return issues[i].DeviceName < issues[j].DeviceName
		}
		return issues[i].Port < issues[j].Port
	})
}
