package audit

import "github.com/lan-tools/net-atlas/pkg/models/domain"

// Per-severity deduction caps. Each severity band can at most erase its
// cap from the base score, so one noisy check cannot zero the result.
const (
	baseScore       = 100
	criticalCap     = 60
	recommendedCap  = 25
	informationalCap = 10
)

// Score aggregates findings and hardening posture into the 0-100
// compliance score. The hardening bonus is independent of findings.
func Score(issues []domain.AuditIssue, measures []domain.HardeningMeasure) int {
	var critical, recommended, informational int
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityCritical:
			critical += issue.ScoreImpact
		case domain.SeverityRecommended:
			recommended += issue.ScoreImpact
		case domain.SeverityInformational:
			informational += issue.ScoreImpact
		}
	}

	score := baseScore -
		minInt(critical, criticalCap) -
		minInt(recommended, recommendedCap) -
		minInt(informational, informationalCap) +
		hardeningBonus(measures)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ScoreFiltered scores only the findings whose display category the caller
// enabled. The hardening bonus is never filtered.
func ScoreFiltered(issues []domain.AuditIssue, measures []domain.HardeningMeasure, opts domain.AuditOptions) int {
	return Score(FilterByCategory(issues, opts), measures)
}

// FilterByCategory keeps findings whose mapped category is enabled.
func FilterByCategory(issues []domain.AuditIssue, opts domain.AuditOptions) []domain.AuditIssue {
	kept := make([]domain.AuditIssue, 0, len(issues))
	for _, issue := range issues {
		if opts.CategoryEnabled(CategoryOf(issue.Type)) {
			kept = append(kept, issue)
		}
	}
	return kept
}

// hardeningBonus is a step function of coverage percentage plus a step
// function of the count of distinct measures present.
func hardeningBonus(measures []domain.HardeningMeasure) int {
	if len(measures) == 0 {
		return 0
	}
	present := 0
	for _, m := range measures {
		if m.Present {
			present++
		}
	}

	coverage := present * 100 / len(measures)
	bonus := 0
	switch {
	case coverage >= 80:
		bonus += 5
	case coverage >= 50:
		bonus += 3
	case coverage >= 25:
		bonus += 1
	}
	switch {
	case present >= 8:
		bonus += 5
	case present >= 5:
		bonus += 3
	case present >= 3:
		bonus += 1
	}
	return bonus
}

// SeverityCounts tallies findings per severity.
func SeverityCounts(issues []domain.AuditIssue) map[domain.Severity]int {
	counts := map[domain.Severity]int{
		domain.SeverityCritical:      0,
		domain.SeverityRecommended:   0,
		domain.SeverityInformational: 0,
	}
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	return counts
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
