package normalize

import (
	"encoding/json"
	"time"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/collector"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// Switches extracts the managed switches and their port tables from the
// raw devices payload. Malformed JSON yields no switches; the port checks
// then skip for lack of evidence.
func Switches(ev collector.Evidence) []domain.SwitchInfo {
	if !ev.Devices.Present() {
		return nil
	}
	var devices []unifi.Device
	if err := json.Unmarshal(ev.Devices.Value, &devices); err != nil {
		return nil
	}

	var out []domain.SwitchInfo
	for _, d := range devices {
		if d.Type != "usw" && d.Type != "udm" {
			continue
		}
		sw := domain.SwitchInfo{
			MAC:   d.MAC,
			Name:  d.Name,
			Model: d.Model,
		}
		for _, p := range d.PortTable {
			port := domain.SwitchPort{
				Index:         p.PortIdx,
				Name:          p.Name,
				Enabled:       p.Enable,
				Up:            p.Up,
				PortProfileID: p.PortProfileID,
				Isolation:     p.Isolation,
				MacRestricted: p.MacRestricted,
				NativeVlanID:  p.NativeVlan,
			}
			if p.LastActivity > 0 {
				port.LastActivity = time.Unix(p.LastActivity, 0).UTC()
			}
			for _, m := range p.MacTable {
				port.ConnectedMACs = append(port.ConnectedMACs, m.MAC)
			}
			sw.Ports = append(sw.Ports, port)
		}
		out = append(out, sw)
	}
	return out
}

// ApplyPortProfiles overlays profile-level isolation and MAC restriction
// onto ports that reference a profile, since per-port flags are unset when
// a profile governs the port.
func ApplyPortProfiles(switches []domain.SwitchInfo, ev collector.Evidence) {
	if !ev.PortProfiles.Present() {
		return
	}
	profiles := make(map[string]unifi.PortProfileConf, len(ev.PortProfiles.Value))
	for _, p := range ev.PortProfiles.Value {
		profiles[p.ID] = p
	}
	for si := range switches {
		for pi := range switches[si].Ports {
			port := &switches[si].Ports[pi]
			profile, ok := profiles[port.PortProfileID]
			if !ok {
				continue
			}
			port.Isolation = port.Isolation || profile.Isolation
			port.MacRestricted = port.MacRestricted || profile.MacTableBased
		}
	}
}
