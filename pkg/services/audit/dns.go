package audit

import (
	"fmt"
	"strings"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// dohProviders maps known DoH endpoint hosts to the plain resolver IPs the
// WAN DNS configuration should mirror, primary first.
var dohProviders = map[string][]string{
	"cloudflare-dns.com":      {"1.1.1.1", "1.0.0.1"},
	"security.cloudflare-dns.com": {"1.1.1.2", "1.0.0.2"},
	"dns.quad9.net":           {"9.9.9.9", "149.112.112.112"},
	"dns.google":              {"8.8.8.8", "8.8.4.4"},
	"dns.adguard-dns.com":     {"94.140.14.14", "94.140.15.15"},
	"dns.nextdns.io":          {"45.90.28.0", "45.90.30.0"},
}

// knownResolverIPs is the union of all provider resolver addresses, used to
// distinguish a deliberately configured public resolver from an inherited
// ISP default.
func knownResolverIPs() map[string]bool {
	ips := make(map[string]bool)
	for _, list := range dohProviders {
		for _, ip := range list {
			ips[ip] = true
		}
	}
	return ips
}

// selfHostedResolverNames flags clients that look like local filtering
// resolvers.
var selfHostedResolverNames = []string{"pihole", "pi-hole", "adguard", "unbound", "blocky", "dnsmasq"}

// EvaluateDNSProtection checks encrypted-DNS posture, WAN resolver
// configuration and DNAT redirection coverage. Each check only runs when
// its evidence source is present; a missing source skips the check rather
// than reporting a pass or a failure.
func EvaluateDNSProtection(in Input, s Settings, opts domain.AuditOptions) ([]domain.AuditIssue, *domain.DNSSecurityState) {
	var issues []domain.AuditIssue
	state := &domain.DNSSecurityState{}

	resolver, resolverName := findSelfHostedResolver(in)
	state.ThirdPartyResolver = resolverName

	if in.SettingsKnown {
		state.DoHEnabled = dohEnabled(in.DoHState)
		state.WanDNSServers = append([]string(nil), in.WanDNSServers...)
		issues = append(issues, checkWanDNS(in, state)...)
	}

	if in.Generation != domain.GenerationNone {
		issues = append(issues, checkEncryptedDNSBlocking(in, state)...)
	}

	if len(in.NatRules) > 0 {
		issues = append(issues, checkDnatCoverage(in, opts, state)...)
	} else if in.Generation != domain.GenerationNone {
		// No DNAT evidence at all: direct outbound DNS must at least be
		// blocked by a rule.
		if !hasDenyOnPort(in.Rules, 53, "") {
			issues = append(issues, newIssue(domain.IssueDNSPort53Open, domain.SeverityRecommended,
				"Clients can send DNS queries directly to the internet; port 53 is neither blocked nor redirected."))
		}
	}

	if resolverName != "" {
		issue := newIssue(domain.IssueDNSThirdPartyResolver, domain.SeverityInformational,
			fmt.Sprintf("Self-hosted DNS resolver %q (%s) handles local queries.", resolverName, resolver))
		issue.DeviceName = resolverName
		issues = append(issues, issue)
		issues = append(issues, checkResolverMgmtExposure(in, opts, resolver, resolverName)...)
	}

	sortIssues(issues)
	return issues, state
}

func dohEnabled(state string) bool {
	switch strings.ToLower(state) {
	case "auto", "manual", "custom", "on":
		return true
	}
	return false
}

func checkWanDNS(in Input, state *domain.DNSSecurityState) []domain.AuditIssue {
	var issues []domain.AuditIssue

	if !dohEnabled(in.DoHState) {
		issues = append(issues, newIssue(domain.IssueDNSEncryptionDisabled, domain.SeverityRecommended,
			"Upstream DNS queries leave the network unencrypted; DNS-over-HTTPS is not configured."))

		known := knownResolverIPs()
		deliberate := len(in.WanDNSServers) > 0
		for _, ip := range in.WanDNSServers {
			if !known[ip] {
				deliberate = false
				break
			}
		}
		if !deliberate {
			issues = append(issues, newIssue(domain.IssueDNSIspDefault, domain.SeverityRecommended,
				"The WAN interface uses the ISP's default DNS servers."))
		}
		return issues
	}

	provider, expected := matchProvider(in.DoHServers)
	state.DoHProvider = provider
	if provider == "" || len(in.WanDNSServers) == 0 {
		return issues
	}

	if !sameStringSet(in.WanDNSServers, expected) {
		issues = append(issues, newIssue(domain.IssueDNSWanMismatch, domain.SeverityRecommended,
			fmt.Sprintf("WAN DNS servers %v do not match the %s resolvers the DoH configuration uses.",
				in.WanDNSServers, provider)))
		return issues
	}
	for i := range expected {
		if i >= len(in.WanDNSServers) || in.WanDNSServers[i] != expected[i] {
			issues = append(issues, newIssue(domain.IssueDNSWanOrder, domain.SeverityInformational,
				fmt.Sprintf("WAN DNS servers match %s but are not in the provider's preferred order.", provider)))
			break
		}
	}
	return issues
}

func matchProvider(dohServers []string) (string, []string) {
	for _, server := range dohServers {
		host := strings.ToLower(server)
		host = strings.TrimPrefix(host, "https://")
		if i := strings.IndexByte(host, '/'); i >= 0 {
			host = host[:i]
		}
		if ips, ok := dohProviders[host]; ok {
			return host, ips
		}
	}
	return "", nil
}

func checkEncryptedDNSBlocking(in Input, state *domain.DNSSecurityState) []domain.AuditIssue {
	var issues []domain.AuditIssue

	dotBlocked := hasDenyOnPort(in.Rules, 853, "tcp") || hasDenyOnPort(in.Rules, 853, "")
	doqBlocked := hasDenyOnPort(in.Rules, 853, "udp") || hasDenyOnPort(in.Rules, 8853, "")
	appBlocked := hasAppBlocking(in.Rules)
	dohBlocked := appBlocked || hasDenyTowardDoHIPs(in.Rules)

	state.EncryptedDNSBlock = dotBlocked && doqBlocked && dohBlocked

	if !dotBlocked {
		issues = append(issues, newIssue(domain.IssueDNSDoTBlockMissing, domain.SeverityRecommended,
			"No rule blocks DNS-over-TLS (TCP 853); clients can bypass the local resolver."))
	}
	if !doqBlocked {
		issues = append(issues, newIssue(domain.IssueDNSDoQBlockMissing, domain.SeverityInformational,
			"No rule blocks DNS-over-QUIC (UDP 853/8853)."))
	}
	switch {
	case !dohBlocked:
		issues = append(issues, newIssue(domain.IssueDNSDoHBlockMissing, domain.SeverityRecommended,
			"Neither application blocking nor address rules stop DNS-over-HTTPS bypass."))
	case !appBlocked:
		// Address rules only cover the resolver IPs we know about.
		issues = append(issues, newIssue(domain.IssueDNSBypassNotBlocked, domain.SeverityRecommended,
			"Known public resolver addresses are blocked, but application-based blocking is off; encrypted-DNS apps using other endpoints slip through."))
	}
	return issues
}

func hasDenyOnPort(rules []domain.FirewallRule, port int, protocol string) bool {
	for _, r := range rules {
		if !r.Enabled || r.Action != domain.ActionDeny {
			continue
		}
		if protocol != "" && r.Protocol != "" && !strings.EqualFold(r.Protocol, protocol) {
			continue
		}
		if r.MatchesAllPorts() {
			continue // a catch-all deny is not a targeted DNS block
		}
		for _, p := range r.Ports {
			if p == port {
				return true
			}
		}
	}
	return false
}

func hasAppBlocking(rules []domain.FirewallRule) bool {
	for _, r := range rules {
		if r.Enabled && r.Action == domain.ActionDeny && len(r.AppIDs) > 0 {
			return true
		}
	}
	return false
}

func hasDenyTowardDoHIPs(rules []domain.FirewallRule) bool {
	known := knownResolverIPs()
	for _, r := range rules {
		if !r.Enabled || r.Action != domain.ActionDeny {
			continue
		}
		for _, ip := range r.DestIPs {
			if known[strings.TrimSuffix(ip, "/32")] {
				return true
			}
		}
	}
	return false
}

// checkDnatCoverage verifies that every client network has its DNS traffic
// redirected to the enforced resolver, either by a network-scoped DNAT or
// one global redirect.
func checkDnatCoverage(in Input, opts domain.AuditOptions, state *domain.DNSSecurityState) []domain.AuditIssue {
	excluded := make(map[int]bool, len(opts.DnatExcludedVlanIDs))
	for _, v := range opts.DnatExcludedVlanIDs {
		excluded[v] = true
	}

	global := false
	covered := make(map[string]bool)
	for _, n := range in.NatRules {
		if !n.Enabled || n.DestPort != 53 {
			continue
		}
		if n.NetworkID == "" {
			global = true
			continue
		}
		covered[n.NetworkID] = true
	}

	var uncovered []string
	for _, nw := range in.Networks {
		if excluded[nw.VlanID] || nw.Purpose == domain.PurposeGuest {
			continue
		}
		if global || covered[nw.ID] {
			state.RedirectedNetworks = append(state.RedirectedNetworks, nw.Name)
			continue
		}
		uncovered = append(uncovered, nw.Name)
	}

	switch {
	case len(state.RedirectedNetworks) == 0 && len(uncovered) > 0:
		return []domain.AuditIssue{newIssue(domain.IssueDNSRedirectMissing, domain.SeverityRecommended,
			"No network has its DNS traffic redirected to the enforced resolver.")}
	case len(uncovered) > 0:
		return []domain.AuditIssue{newIssue(domain.IssueDNSRedirectPartial, domain.SeverityRecommended,
			fmt.Sprintf("DNS redirection misses %s.", strings.Join(uncovered, ", ")))}
	}
	return nil
}

// checkResolverMgmtExposure flags port forwards and UPnP leases that expose
// the resolver's management interface to the internet. The management port
// comes from AuditOptions; filtering resolvers serve their admin UI there.
func checkResolverMgmtExposure(in Input, opts domain.AuditOptions, resolverIP, resolverName string) []domain.AuditIssue {
	if opts.ThirdPartyDNSMgmtPort <= 0 || resolverIP == "" {
		return nil
	}

	var issues []domain.AuditIssue
	exposed := func(externalPort int, via string) domain.AuditIssue {
		issue := newIssue(domain.IssueDNSResolverMgmtOpen, domain.SeverityCritical,
			fmt.Sprintf("%s exposes the management interface of DNS resolver %q (%s:%d) to the internet.",
				via, resolverName, resolverIP, opts.ThirdPartyDNSMgmtPort))
		issue.DeviceName = resolverName
		issue.Port = externalPort
		return issue
	}

	for _, pf := range in.PortForwards {
		if pf.Enabled && pf.ForwardIP == resolverIP && pf.ForwardPort == opts.ThirdPartyDNSMgmtPort {
			issues = append(issues, exposed(pf.DestPort, fmt.Sprintf("Port forward %q", pf.Name)))
		}
	}
	for _, m := range in.UpnpMappings {
		if m.InternalIP == resolverIP && m.InternalPort == opts.ThirdPartyDNSMgmtPort {
			issues = append(issues, exposed(m.ExternalPort, "A UPnP lease"))
		}
	}
	return issues
}

func findSelfHostedResolver(in Input) (ip, name string) {
	redirectIPs := make(map[string]bool)
	for _, n := range in.NatRules {
		if n.Enabled && n.DestPort == 53 && n.Redirect != "" {
			redirectIPs[n.Redirect] = true
		}
	}
	for _, c := range in.Clients {
		lower := strings.ToLower(c.Name + " " + c.Hostname)
		for _, marker := range selfHostedResolverNames {
			if strings.Contains(lower, marker) {
				return c.IP, c.DisplayName()
			}
		}
		if redirectIPs[c.IP] {
			return c.IP, c.DisplayName()
		}
	}
	return "", ""
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
		if seen[s] < 0 {
			return false
		}
	}
	return true
}
