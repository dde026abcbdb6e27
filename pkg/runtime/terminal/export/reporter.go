package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
)

// Reporter renders audit results to the console in a formatted text form.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

type reportView struct {
	Site        string
	Score       int
	GeneratedAt string
	Critical    int
	Recommended int
	Info        int
	Categories  []categoryView
	Hardening   []domain.HardeningMeasure
}

type categoryView struct {
	Name   string
	Issues []issueView
}

type issueView struct {
	Severity string
	Title    string
	Message  string
	Action   string
}

var reportOrder = []domain.AuditCategory{
	domain.CategoryFirewallRules,
	domain.CategoryVlanSecurity,
	domain.CategoryPortSecurity,
	domain.CategoryDNSSecurity,
	domain.CategoryUpnpSecurity,
	domain.CategoryGeneral,
}

func (c *Reporter) Handle(result *domain.AuditResult) error {
	tmpl := `
Network Audit: {{.Site}}
Generated: {{.GeneratedAt}}
Compliance Score: {{.Score}}/100
Findings: {{.Critical}} critical, {{.Recommended}} recommended, {{.Info}} informational
{{range .Categories}}
=== {{.Name}} ===
{{range .Issues}}
[{{.Severity}}] {{.Title}}
  {{.Message}}
  Fix: {{.Action}}
{{end}}
{{end}}
=== Hardening Measures ===
{{range .Hardening}}
[{{if .Present}}x{{else}} {{end}}] {{.Name}}: {{.Description}}
{{end}}
`
	t, err := template.New("audit").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, buildView(result))
}

func buildView(result *domain.AuditResult) reportView {
	view := reportView{
		Site:        result.SiteID,
		Score:       result.Score,
		GeneratedAt: result.GeneratedAt.Format("2006-01-02 15:04:05"),
		Critical:    result.SeverityCounts[domain.SeverityCritical],
		Recommended: result.SeverityCounts[domain.SeverityRecommended],
		Info:        result.SeverityCounts[domain.SeverityInformational],
		Hardening:   result.HardeningMeasures,
	}

	grouped := make(map[domain.AuditCategory][]issueView)
	for _, issue := range result.Issues {
		cat := audit.CategoryOf(issue.Type)
		grouped[cat] = append(grouped[cat], issueView{
			Severity: string(issue.Severity),
			Title:    audit.DisplayTitle(issue.Type, issue.Severity),
			Message:  issue.Message,
			Action:   issue.RecommendedAction,
		})
	}
	for _, cat := range reportOrder {
		if issues, ok := grouped[cat]; ok {
			view.Categories = append(view.Categories, categoryView{
				Name:   string(cat),
				Issues: issues,
			})
			delete(grouped, cat)
		}
	}

	// Categories outside the fixed order still get printed, last and
	// alphabetically.
	rest := maps.Keys(grouped)
	slices.Sort(rest)
	for _, cat := range rest {
		view.Categories = append(view.Categories, categoryView{
			Name:   string(cat),
			Issues: grouped[cat],
		})
	}
	return view
}
