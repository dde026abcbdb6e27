package adapters

import (
	"github.com/lan-tools/net-atlas/pkg/models/api"
	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityCritical:
		return api.SeverityCritical
	case domain.SeverityRecommended:
		return api.SeverityRecommended
	case domain.SeverityInformational:
		return api.SeverityInformational
	default:
		return api.SeverityInformational
	}
}

func MapAuditIssueDomainToApi(i domain.AuditIssue) api.AuditIssue {
	return api.AuditIssue{
		Type:               string(i.Type),
		Severity:           MapSeverityDomainToApi(i.Severity),
		Category:           string(audit.CategoryOf(i.Type)),
		Title:              audit.DisplayTitle(i.Type, i.Severity),
		Message:            i.Message,
		Recommendation:     i.RecommendedAction,
		ScoreImpact:        i.ScoreImpact,
		DeviceName:         i.DeviceName,
		DeviceMAC:          i.DeviceMAC,
		Port:               i.Port,
		CurrentNetwork:     i.CurrentNetwork,
		CurrentVlan:        i.CurrentVlan,
		RecommendedNetwork: i.RecommendedNetwork,
		RecommendedVlan:    i.RecommendedVlan,
		IsWireless:         i.IsWireless,
		Metadata:           i.Metadata,
	}
}

func MapHardeningMeasureDomainToApi(m domain.HardeningMeasure) api.HardeningMeasure {
	return api.HardeningMeasure{
		Name:        m.Name,
		Description: m.Description,
		Present:     m.Present,
	}
}

func MapNetworkDomainToApi(n domain.NetworkInfo) api.Network {
	return api.Network{
		ID:      n.ID,
		Name:    n.Name,
		VlanID:  n.VlanID,
		Purpose: string(n.Purpose),
		Subnet:  n.Subnet,
	}
}

func MapDNSSecurityDomainToApi(d *domain.DNSSecurityState) *api.DNSSecurity {
	if d == nil {
		return nil
	}
	return &api.DNSSecurity{
		DoHEnabled:         d.DoHEnabled,
		DoHProvider:        d.DoHProvider,
		WanDNSServers:      d.WanDNSServers,
		EncryptedDNSBlock:  d.EncryptedDNSBlock,
		RedirectedNetworks: d.RedirectedNetworks,
		ThirdPartyResolver: d.ThirdPartyResolver,
	}
}

func MapAuditResultDomainToApi(r domain.AuditResult) api.AuditResult {
	res := api.AuditResult{
		AuditID:        r.AuditID,
		SiteID:         r.SiteID,
		Score:          r.Score,
		SeverityCounts: make(map[string]int, len(r.SeverityCounts)),
		Issues:         make([]api.AuditIssue, 0, len(r.Issues)),
		Statistics: api.AuditStatistics{
			Ports:    r.Statistics.PortsChecked,
			Networks: r.Statistics.NetworksChecked,
			Switches: r.Statistics.SwitchesChecked,
		},
		HardeningMeasures: make([]api.HardeningMeasure, 0, len(r.HardeningMeasures)),
		Networks:          make([]api.Network, 0, len(r.Networks)),
		DNSSecurity:       MapDNSSecurityDomainToApi(r.DNSSecurity),
		GeneratedAt:       r.GeneratedAt,
	}
	for sev, count := range r.SeverityCounts {
		res.SeverityCounts[string(sev)] = count
	}
	for _, i := range r.Issues {
		res.Issues = append(res.Issues, MapAuditIssueDomainToApi(i))
	}
	for _, m := range r.HardeningMeasures {
		res.HardeningMeasures = append(res.HardeningMeasures, MapHardeningMeasureDomainToApi(m))
	}
	for _, n := range r.Networks {
		res.Networks = append(res.Networks, MapNetworkDomainToApi(n))
	}
	return res
}

func MapAuditSummaryDomainToApi(s domain.AuditSummary) api.AuditSummary {
	res := api.AuditSummary{
		Score:         s.Score,
		CriticalCount: s.CriticalCount,
		WarningCount:  s.WarningCount,
		LastAuditTime: s.LastAuditTime,
		RecentIssues:  make([]api.AuditIssue, 0, len(s.RecentIssues)),
	}
	for _, i := range s.RecentIssues {
		res.RecentIssues = append(res.RecentIssues, MapAuditIssueDomainToApi(i))
	}
	return res
}

// MapDismissRequestApiToDomain rebuilds the minimal issue shape whose
// dismissal key matches the original finding.
func MapDismissRequestApiToDomain(r api.DismissRequest) domain.AuditIssue {
	return domain.AuditIssue{
		Type:       domain.IssueType(r.Type),
		Severity:   domain.Severity(r.Severity),
		DeviceName: r.DeviceName,
		Port:       r.Port,
	}
}
