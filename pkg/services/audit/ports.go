package audit

import (
	"fmt"
	"time"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// EvaluatePortSecurity checks switch port hygiene: enabled-but-unused
// ports, missing MAC restriction on sensitive ports and missing isolation
// on camera ports.
func EvaluatePortSecurity(in Input, s Settings, opts domain.AuditOptions) []domain.AuditIssue {
	if len(in.Switches) == 0 {
		return nil
	}

	cameraMACs := make(map[string]bool)
	for _, c := range in.Clients {
		if c.Detection.IsSurveillance() {
			cameraMACs[c.MAC] = true
		}
	}
	cameraVlans := make(map[int]bool)
	for _, n := range in.Networks {
		if n.Purpose == domain.PurposeCamera {
			cameraVlans[n.VlanID] = true
		}
	}

	unusedAfter := time.Duration(opts.UnusedPortDays) * 24 * time.Hour
	namedUnusedAfter := time.Duration(opts.NamedUnusedPortDays) * 24 * time.Hour

	var issues []domain.AuditIssue
	for _, sw := range in.Switches {
		for _, p := range sw.Ports {
			if !p.Enabled {
				continue
			}

			if !p.Up {
				idle := in.Now.Sub(p.LastActivity)
				if p.LastActivity.IsZero() {
					// Never seen traffic counts as unused past either
					// grace period, named or not.
					idle = unusedAfter + namedUnusedAfter + time.Hour
				}
				// Labelled ports were wired up on purpose, so they get a
				// longer grace period and a softer severity.
				if p.Name != "" {
					if idle > namedUnusedAfter {
						issues = append(issues, portIssue(domain.IssuePortUnusedNamed, domain.SeverityInformational,
							fmt.Sprintf("Port %d (%q) on %q is enabled but has been unused for over %d days.",
								p.Index, p.Name, sw.Name, opts.NamedUnusedPortDays), sw, p))
					}
				} else if idle > unusedAfter {
					issues = append(issues, portIssue(domain.IssuePortUnused, domain.SeverityRecommended,
						fmt.Sprintf("Port %d on %q is enabled but has been unused for over %d days.",
							p.Index, sw.Name, opts.UnusedPortDays), sw, p))
				}
				continue
			}

			sensitive := cameraVlans[p.NativeVlanID]
			hasCamera := false
			for _, mac := range p.ConnectedMACs {
				if cameraMACs[mac] {
					hasCamera = true
					sensitive = true
					break
				}
			}

			if sensitive && !p.MacRestricted {
				issues = append(issues, portIssue(domain.IssuePortNoMacRestriction, domain.SeverityRecommended,
					fmt.Sprintf("Sensitive port %d on %q accepts any MAC address.", p.Index, sw.Name), sw, p))
			}
			if hasCamera && !p.Isolation {
				issues = append(issues, portIssue(domain.IssuePortCameraNoIsolation, domain.SeverityCritical,
					fmt.Sprintf("Camera port %d on %q is not isolated from peer ports.", p.Index, sw.Name), sw, p))
			}
		}
	}

	sortIssues(issues)
	return issues
}

func portIssue(t domain.IssueType, sev domain.Severity, msg string, sw domain.SwitchInfo, p domain.SwitchPort) domain.AuditIssue {
	issue := newIssue(t, sev, msg)
	issue.DeviceName = sw.Name
	issue.DeviceMAC = sw.MAC
	issue.Port = p.Index
	return issue
}
