package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/models/store"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
)

// MapAuditResultDomainToStore flattens a run into its persisted record.
// Check counters follow the report convention: critical findings fail,
// recommended ones warn, present hardening measures pass.
func MapAuditResultDomainToStore(r domain.AuditResult) (store.AuditRecord, error) {
	findings := make([]store.SnapshotFinding, 0, len(r.Issues))
	for _, i := range r.Issues {
		findings = append(findings, mapFindingDomainToStore(i))
	}
	findingsJSON, err := json.Marshal(findings)
	if err != nil {
		return store.AuditRecord{}, fmt.Errorf("marshal findings: %w", err)
	}

	snapshotJSON, err := json.Marshal(mapSnapshotDomainToStore(r))
	if err != nil {
		return store.AuditRecord{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	passed := 0
	for _, m := range r.HardeningMeasures {
		if m.Present {
			passed++
		}
	}
	failed := r.SeverityCounts[domain.SeverityCritical]
	warned := r.SeverityCounts[domain.SeverityRecommended]

	return store.AuditRecord{
		ID:              r.AuditID,
		SiteID:          r.SiteID,
		CreatedAt:       r.GeneratedAt,
		ComplianceScore: r.Score,
		TotalChecks:     passed + failed + warned,
		PassedChecks:    passed,
		FailedChecks:    failed,
		WarningChecks:   warned,
		FindingsJSON:    string(findingsJSON),
		SnapshotJSON:    string(snapshotJSON),
	}, nil
}

// MapAuditRecordStoreToDomain rebuilds a run from its persisted record.
// Severity counts are recomputed from the findings rather than trusted
// from the summary columns.
func MapAuditRecordStoreToDomain(rec store.AuditRecord) (domain.AuditResult, error) {
	var findings []store.SnapshotFinding
	if rec.FindingsJSON != "" {
		if err := json.Unmarshal([]byte(rec.FindingsJSON), &findings); err != nil {
			return domain.AuditResult{}, fmt.Errorf("unmarshal findings: %w", err)
		}
	}
	var snap store.Snapshot
	if rec.SnapshotJSON != "" {
		if err := json.Unmarshal([]byte(rec.SnapshotJSON), &snap); err != nil {
			return domain.AuditResult{}, fmt.Errorf("unmarshal snapshot: %w", err)
		}
	}

	issues := make([]domain.AuditIssue, 0, len(findings))
	for _, f := range findings {
		issues = append(issues, mapFindingStoreToDomain(f))
	}

	res := domain.AuditResult{
		AuditID:         rec.ID,
		SiteID:          rec.SiteID,
		Score:           rec.ComplianceScore,
		UnfilteredScore: snap.UnfilteredScore,
		SeverityCounts:  audit.SeverityCounts(issues),
		Issues:          issues,
		Statistics: domain.AuditStatistics{
			PortsChecked:    snap.Statistics.Ports,
			NetworksChecked: snap.Statistics.Networks,
			SwitchesChecked: snap.Statistics.Switches,
		},
		GeneratedAt: rec.CreatedAt,
	}
	for _, m := range snap.HardeningMeasures {
		res.HardeningMeasures = append(res.HardeningMeasures, domain.HardeningMeasure{
			Name:        m.Name,
			Description: m.Description,
			Present:     m.Present,
		})
	}
	for _, n := range snap.Networks {
		res.Networks = append(res.Networks, domain.NetworkInfo{
			ID:      n.ID,
			Name:    n.Name,
			VlanID:  n.VlanID,
			Purpose: domain.NetworkPurpose(n.Purpose),
			Subnet:  n.Subnet,
		})
	}
	for _, s := range snap.Switches {
		res.Switches = append(res.Switches, domain.SwitchInfo{
			MAC:   s.MAC,
			Name:  s.Name,
			Model: s.Model,
			Ports: make([]domain.SwitchPort, s.Ports),
		})
	}
	res.WirelessClients = mapClientsStoreToDomain(snap.WirelessClients)
	res.OfflineClients = mapClientsStoreToDomain(snap.OfflineClients)
	if snap.DNSSecurity != nil {
		res.DNSSecurity = &domain.DNSSecurityState{
			DoHEnabled:         snap.DNSSecurity.DoHEnabled,
			DoHProvider:        snap.DNSSecurity.DoHProvider,
			WanDNSServers:      snap.DNSSecurity.WanDNSServers,
			EncryptedDNSBlock:  snap.DNSSecurity.EncryptedDNSBlock,
			RedirectedNetworks: snap.DNSSecurity.RedirectedNetworks,
			ThirdPartyResolver: snap.DNSSecurity.ThirdPartyResolver,
		}
	}
	return res, nil
}

func mapSnapshotDomainToStore(r domain.AuditResult) store.Snapshot {
	snap := store.Snapshot{
		UnfilteredScore: r.UnfilteredScore,
		Statistics: store.SnapshotStatistics{
			Ports:    r.Statistics.PortsChecked,
			Networks: r.Statistics.NetworksChecked,
			Switches: r.Statistics.SwitchesChecked,
		},
	}
	for _, m := range r.HardeningMeasures {
		snap.HardeningMeasures = append(snap.HardeningMeasures, store.SnapshotMeasure{
			Name:        m.Name,
			Description: m.Description,
			Present:     m.Present,
		})
	}
	for _, n := range r.Networks {
		snap.Networks = append(snap.Networks, store.SnapshotNetwork{
			ID:      n.ID,
			Name:    n.Name,
			VlanID:  n.VlanID,
			Purpose: string(n.Purpose),
			Subnet:  n.Subnet,
		})
	}
	for _, s := range r.Switches {
		snap.Switches = append(snap.Switches, store.SnapshotSwitch{
			MAC:   s.MAC,
			Name:  s.Name,
			Model: s.Model,
			Ports: len(s.Ports),
		})
	}
	snap.WirelessClients = mapClientsDomainToStore(r.WirelessClients)
	snap.OfflineClients = mapClientsDomainToStore(r.OfflineClients)
	if r.DNSSecurity != nil {
		snap.DNSSecurity = &store.SnapshotDNS{
			DoHEnabled:         r.DNSSecurity.DoHEnabled,
			DoHProvider:        r.DNSSecurity.DoHProvider,
			WanDNSServers:      r.DNSSecurity.WanDNSServers,
			EncryptedDNSBlock:  r.DNSSecurity.EncryptedDNSBlock,
			RedirectedNetworks: r.DNSSecurity.RedirectedNetworks,
			ThirdPartyResolver: r.DNSSecurity.ThirdPartyResolver,
		}
	}
	return snap
}

func mapFindingDomainToStore(i domain.AuditIssue) store.SnapshotFinding {
	return store.SnapshotFinding{
		Type:               string(i.Type),
		Severity:           string(i.Severity),
		Message:            i.Message,
		RecommendedAction:  i.RecommendedAction,
		ScoreImpact:        i.ScoreImpact,
		DeviceName:         i.DeviceName,
		DeviceMAC:          i.DeviceMAC,
		Port:               i.Port,
		CurrentNetwork:     i.CurrentNetwork,
		CurrentVlan:        i.CurrentVlan,
		RecommendedNetwork: i.RecommendedNetwork,
		RecommendedVlan:    i.RecommendedVlan,
		IsWireless:         i.IsWireless,
		ClientMAC:          i.ClientMAC,
		Metadata:           i.Metadata,
	}
}

func mapFindingStoreToDomain(f store.SnapshotFinding) domain.AuditIssue {
	return domain.AuditIssue{
		Type:               domain.IssueType(f.Type),
		Severity:           domain.Severity(f.Severity),
		Message:            f.Message,
		RecommendedAction:  f.RecommendedAction,
		ScoreImpact:        f.ScoreImpact,
		DeviceName:         f.DeviceName,
		DeviceMAC:          f.DeviceMAC,
		Port:               f.Port,
		CurrentNetwork:     f.CurrentNetwork,
		CurrentVlan:        f.CurrentVlan,
		RecommendedNetwork: f.RecommendedNetwork,
		RecommendedVlan:    f.RecommendedVlan,
		IsWireless:         f.IsWireless,
		ClientMAC:          f.ClientMAC,
		Metadata:           f.Metadata,
	}
}

func mapClientsDomainToStore(clients []domain.ClientInfo) []store.SnapshotClient {
	out := make([]store.SnapshotClient, 0, len(clients))
	for _, c := range clients {
		out = append(out, store.SnapshotClient{
			MAC:      c.MAC,
			Name:     c.DisplayName(),
			IP:       c.IP,
			VlanID:   c.VlanID,
			Category: string(c.Detection.Category),
		})
	}
	return out
}

func mapClientsStoreToDomain(clients []store.SnapshotClient) []domain.ClientInfo {
	out := make([]domain.ClientInfo, 0, len(clients))
	for _, c := range clients {
		out = append(out, domain.ClientInfo{
			MAC:    c.MAC,
			Name:   c.Name,
			IP:     c.IP,
			VlanID: c.VlanID,
			Detection: domain.DeviceDetectionResult{
				Category: domain.DeviceCategory(c.Category),
			},
		})
	}
	return out
}
