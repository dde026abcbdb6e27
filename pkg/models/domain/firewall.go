package domain

// APIGeneration records which controller firewall API produced the rules.
// Zone semantics differ between generations, so evaluators need to know.
type APIGeneration string

const (
	GenerationV2   APIGeneration = "v2"   // zone-based policies
	GenerationV1   APIGeneration = "v1"   // legacy rulesets, synthetic zones
	GenerationNone APIGeneration = "none" // neither source returned data
)

type RuleAction string

const (
	ActionAllow RuleAction = "allow"
	ActionDeny  RuleAction = "deny"
)

// FirewallRule is the canonical post-normalization rule. Group references
// are expanded before construction; evaluators never see an unresolved group.
type FirewallRule struct {
	RuleID      string
	Name        string
	Action      RuleAction
	SourceZones []string
	DestZones   []string
	SourceIPs   []string
	DestIPs     []string
	Ports       []int
	AppIDs      []int
	Protocol    string
	Order       int
	Enabled     bool
	Generation  APIGeneration
	// OrphanedRefs lists group or zone IDs the rule referenced that no
	// longer resolve to anything.
	OrphanedRefs []string
}

// MatchesAllSources reports whether the rule applies to every source zone.
func (r FirewallRule) MatchesAllSources() bool {
	return len(r.SourceZones) == 0 && len(r.SourceIPs) == 0
}

// MatchesAllDests reports whether the rule applies to every destination.
func (r FirewallRule) MatchesAllDests() bool {
	return len(r.DestZones) == 0 && len(r.DestIPs) == 0
}

// MatchesAllPorts reports whether the rule applies to every port.
func (r FirewallRule) MatchesAllPorts() bool {
	return len(r.Ports) == 0 && len(r.AppIDs) == 0
}

// NatRule is a normalized destination-NAT rule.
type NatRule struct {
	ID        string
	Name      string
	Enabled   bool
	DestPort  int
	Redirect  string
	NetworkID string
	Protocol  string
}

// PortForward is a static port-forward entry.
type PortForward struct {
	ID         string
	Name       string
	Enabled    bool
	DestPort   int
	ForwardIP  string
	ForwardPort int
}
