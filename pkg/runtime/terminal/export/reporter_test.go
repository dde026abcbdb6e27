package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	result := &domain.AuditResult{
		SiteID:      "home",
		Score:       72,
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		SeverityCounts: map[domain.Severity]int{
			domain.SeverityCritical:    1,
			domain.SeverityRecommended: 1,
		},
		Issues: []domain.AuditIssue{
			{
				Type:              domain.IssueFirewallAnyAny,
				Severity:          domain.SeverityCritical,
				Message:           "Rule allow-everything permits all traffic.",
				RecommendedAction: "Restrict the rule to the required zones and ports.",
				DeviceName:        "allow-everything",
			},
			{
				Type:     domain.IssueVlanIsolationMissing,
				Severity: domain.SeverityRecommended,
				Message:  "The IoT network can reach other segments.",
			},
		},
		HardeningMeasures: []domain.HardeningMeasure{
			{Name: "WPA3", Description: "WPA3 transition mode enabled", Present: true},
			{Name: "Guest Isolation", Description: "Guest network isolated", Present: false},
		},
	}

	require.NoError(t, reporter.Handle(result))
	out := buf.String()

	assert.Contains(t, out, "Network Audit: home")
	assert.Contains(t, out, "Compliance Score: 72/100")
	assert.Contains(t, out, "1 critical, 1 recommended, 0 informational")
	assert.Contains(t, out, "Rule allow-everything permits all traffic.")
	assert.Contains(t, out, "[x] WPA3")
	assert.Contains(t, out, "[ ] Guest Isolation")

	// Firewall findings print before VLAN findings.
	assert.Less(t,
		strings.Index(out, string(domain.CategoryFirewallRules)),
		strings.Index(out, string(domain.CategoryVlanSecurity)))
}
