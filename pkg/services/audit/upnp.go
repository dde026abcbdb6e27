package audit

import (
	"fmt"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// EvaluateExposure checks UPnP state, active UPnP leases and static port
// forwards for privileged-port exposure.
func EvaluateExposure(in Input, s Settings) []domain.AuditIssue {
	var issues []domain.AuditIssue

	if in.UpnpKnown && in.UpnpEnabled {
		// UPnP on a flat home network is a tolerated convenience; once
		// restricted segments exist it lets any device punch WAN holes
		// across them.
		restricted := false
		for _, n := range in.Networks {
			if n.IsIsolationExpected() {
				restricted = true
				break
			}
		}
		if restricted {
			issues = append(issues, newIssue(domain.IssueUpnpEnabledNonHome, domain.SeverityRecommended,
				"UPnP is enabled while segmented networks exist; any device can open WAN ports."))
		}

		for _, m := range in.UpnpMappings {
			if m.ExternalPort >= s.PrivilegedPortMax && m.InternalPort >= s.PrivilegedPortMax {
				continue
			}
			issue := newIssue(domain.IssueUpnpPrivilegedPort, domain.SeverityCritical,
				fmt.Sprintf("UPnP lease maps external port %d to %s:%d (%s).",
					m.ExternalPort, m.InternalIP, m.InternalPort, mappingLabel(m)))
			issue.Port = m.ExternalPort
			issue.DeviceName = mappingLabel(m)
			issues = append(issues, issue)
		}
	}

	for _, f := range in.PortForwards {
		if !f.Enabled || f.DestPort >= s.PrivilegedPortMax || f.DestPort == 0 {
			continue
		}
		issue := newIssue(domain.IssueForwardPrivilegedPort, domain.SeverityCritical,
			fmt.Sprintf("Port forward %q exposes privileged port %d to %s:%d.",
				f.Name, f.DestPort, f.ForwardIP, f.ForwardPort))
		issue.Port = f.DestPort
		issue.DeviceName = f.Name
		issues = append(issues, issue)
	}

	sortIssues(issues)
	return issues
}

func mappingLabel(m upnpMapping) string {
	if m.Description != "" {
		return m.Description
	}
	return m.InternalIP
}
