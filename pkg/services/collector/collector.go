// Package collector fans out the optional controller fetches and gathers
// the results into a single evidence bundle for the evaluators. A failed
// source never aborts the run; it is simply absent.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

const fetchConcurrency = 6

// Source holds the outcome of one optional fetch. Exactly one of the three
// states applies: present, answered-empty, or failed.
type Source[T any] struct {
	Value T
	OK    bool
	Err   error
}

// Present reports whether the source returned usable data.
func (s Source[T]) Present() bool {
	return s.OK
}

// UpnpState pairs the UPnP enablement flag with the active lease table.
type UpnpState struct {
	Enabled  bool
	Mappings []unifi.UpnpMapping
}

// Evidence is everything the evaluators may act on. Evaluators receive the
// whole bundle and declare their needs by which sources they read; a check
// whose evidence is absent is skipped, not failed.
type Evidence struct {
	Devices        Source[json.RawMessage]
	Clients        Source[[]unifi.Client]
	ClientHistory  Source[[]unifi.Client]
	V2Policies     Source[[]unifi.V2FirewallPolicy]
	LegacyRules    Source[[]unifi.LegacyFirewallRule]
	CombinedRules  Source[[]unifi.LegacyFirewallRule]
	FirewallGroups Source[[]unifi.FirewallGroup]
	FirewallZones  Source[[]unifi.FirewallZoneConf]
	NatRules       Source[[]unifi.NatRuleConf]
	PortForwards   Source[[]unifi.PortForwardConf]
	Upnp           Source[UpnpState]
	Networks       Source[[]unifi.NetworkConf]
	PortProfiles   Source[[]unifi.PortProfileConf]
	ProtectCameras Source[[]unifi.ProtectCamera]
	Settings       Source[*unifi.SiteSettings]
}

// Collect issues all fetches concurrently with bounded parallelism and
// returns when every source has settled. Individual failures are logged
// and recorded on the source; Collect itself never fails.
func Collect(ctx context.Context, client unifi.ControllerClient, historyWindow time.Duration) Evidence {
	var ev Evidence

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	g.Go(fetch(gctx, "devices", &ev.Devices, client.GetDevicesRawJSON))
	g.Go(fetch(gctx, "clients", &ev.Clients, client.GetClients))
	g.Go(fetch(gctx, "client_history", &ev.ClientHistory, func(ctx context.Context) ([]unifi.Client, error) {
		return client.GetClientHistory(ctx, historyWindow)
	}))
	g.Go(fetch(gctx, "firewall_policies_v2", &ev.V2Policies, client.GetFirewallPoliciesRaw))
	g.Go(fetch(gctx, "firewall_rules_legacy", &ev.LegacyRules, client.GetLegacyFirewallRulesRaw))
	g.Go(fetch(gctx, "firewall_rules_combined", &ev.CombinedRules, client.GetCombinedTrafficFirewallRulesRaw))
	g.Go(fetch(gctx, "firewall_groups", &ev.FirewallGroups, client.GetFirewallGroups))
	g.Go(fetch(gctx, "firewall_zones", &ev.FirewallZones, client.GetFirewallZones))
	g.Go(fetch(gctx, "nat_rules", &ev.NatRules, client.GetNatRulesRaw))
	g.Go(fetch(gctx, "port_forwards", &ev.PortForwards, client.GetPortForwardRules))
	g.Go(fetch(gctx, "upnp", &ev.Upnp, func(ctx context.Context) (UpnpState, error) {
		enabled, mappings, err := client.GetUpnpEnabled(ctx)
		return UpnpState{Enabled: enabled, Mappings: mappings}, err
	}))
	g.Go(fetch(gctx, "networks", &ev.Networks, client.GetNetworkConfigs))
	g.Go(fetch(gctx, "port_profiles", &ev.PortProfiles, client.GetPortProfiles))
	g.Go(fetch(gctx, "protect_cameras", &ev.ProtectCameras, client.GetProtectCameras))
	g.Go(fetch(gctx, "settings", &ev.Settings, client.GetSettingsRaw))

	// fetch closures always return nil; Wait only synchronizes.
	_ = g.Wait()

	return ev
}

func fetch[T any](ctx context.Context, name string, dst *Source[T], fn func(context.Context) (T, error)) func() error {
	return func() error {
		value, err := fn(ctx)
		switch {
		case err == nil:
			dst.Value = value
			dst.OK = true
		case errors.Is(err, unifi.ErrNoData):
			// Answered empty: absent but not an error.
		default:
			dst.Err = err
			zerolog.Ctx(ctx).Warn().
				Err(err).
				Str("source", name).
				Msg("optional fetch failed, evaluators will skip dependent checks")
		}
		return nil
	}
}
