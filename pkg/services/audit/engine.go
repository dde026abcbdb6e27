package audit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/services/classify"
	"github.com/lan-tools/net-atlas/pkg/services/collector"
	"github.com/lan-tools/net-atlas/pkg/services/normalize"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// ErrNoAudit is returned when a site has no audit to report on yet.
var ErrNoAudit = errors.New("audit: no audit result for site")

// HistoryStore persists finished audit snapshots.
type HistoryStore interface {
	SaveAuditResult(ctx context.Context, siteID string, result domain.AuditResult) (string, error)
	GetLatestAuditResult(ctx context.Context, siteID string) (domain.AuditResult, error)
	GetAuditResult(ctx context.Context, siteID, auditID string) (domain.AuditResult, error)
}

// ClientFactory resolves the controller client for a site. Connection
// profiles live in the site registry; the engine only sees the interface.
type ClientFactory interface {
	ClientFor(siteID string) (unifi.ControllerClient, error)
}

// Engine runs audits and owns the per-site mutable state: the dismissal
// ledger and the last-result cache.
type Engine struct {
	clients     ClientFactory
	fingerprint unifi.FingerprintService
	history     HistoryStore
	overrides   unifi.SettingsStore
	ledger      *Ledger
	settings    Settings

	mu      sync.RWMutex
	lastRun map[string]domain.AuditResult
}

func NewEngine(clients ClientFactory, fingerprint unifi.FingerprintService, history HistoryStore, overrides unifi.SettingsStore, ledger *Ledger, settings Settings) *Engine {
	return &Engine{
		clients:     clients,
		fingerprint: fingerprint,
		history:     history,
		overrides:   overrides,
		ledger:      ledger,
		settings:    settings,
		lastRun:     make(map[string]domain.AuditResult),
	}
}

// RunAudit executes the full pipeline for one site. It never propagates an
// internal failure: an unreachable controller or an unexpected error each
// collapse into a single synthetic Critical finding with score zero.
func (e *Engine) RunAudit(ctx context.Context, siteID string, opts domain.AuditOptions) (result domain.AuditResult, err error) {
	logger := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Any("panic", r).Str("site", siteID).Msg("audit run panicked")
			result = e.syntheticResult(siteID, domain.IssueAuditFailed,
				fmt.Sprintf("The audit aborted unexpectedly: %v.", r))
			err = nil
		}
	}()

	opts = e.resolveOptions(ctx, siteID, opts)

	client, err := e.clients.ClientFor(siteID)
	if err != nil {
		return e.syntheticResult(siteID, domain.IssueControllerNotConnected,
			fmt.Sprintf("No controller is configured for this site: %v.", err)), nil
	}
	if pingErr := client.Ping(ctx); pingErr != nil {
		logger.Warn().Err(pingErr).Str("site", siteID).Msg("controller unreachable")
		return e.syntheticResult(siteID, domain.IssueControllerNotConnected,
			"The UniFi controller did not respond; no configuration could be audited."), nil
	}

	ev := collector.Collect(ctx, client, e.settings.HistoryWindow)
	input := e.buildInput(ev)

	var issues []domain.AuditIssue
	issues = append(issues, EvaluateFirewallRules(input, e.settings)...)
	issues = append(issues, EvaluateNetworkSegmentation(input, e.settings, opts)...)
	dnsIssues, dnsState := EvaluateDNSProtection(input, e.settings, opts)
	issues = append(issues, dnsIssues...)
	issues = append(issues, EvaluatePortSecurity(input, e.settings, opts)...)
	issues = append(issues, EvaluateExposure(input, e.settings)...)

	if e.fingerprint != nil && e.fingerprint.LastFetchFailed() {
		// Degraded coverage is an ordinary finding: it must be visible in
		// the same list and count against the score.
		issues = append(issues, newIssue(domain.IssueFingerprintUnavailable, domain.SeverityCritical,
			"The device fingerprint database could not be refreshed; classification coverage is reduced."))
	}

	measures := DetectHardeningMeasures(input)
	unfiltered := Score(issues, measures)

	visible := FilterByCategory(issues, opts)

	result = domain.AuditResult{
		AuditID:           uuid.NewString(),
		SiteID:            siteID,
		Score:             Score(visible, measures),
		UnfilteredScore:   unfiltered,
		SeverityCounts:    SeverityCounts(visible),
		Issues:            visible,
		Statistics:        statistics(input),
		HardeningMeasures: measures,
		Networks:          input.Networks,
		Switches:          input.Switches,
		WirelessClients:   wireless(input.Clients),
		OfflineClients:    input.OfflineClients,
		DNSSecurity:       dnsState,
		GeneratedAt:       time.Now().UTC(),
	}

	e.mu.Lock()
	e.lastRun[siteID] = result
	e.mu.Unlock()

	if e.history != nil {
		if _, saveErr := e.history.SaveAuditResult(ctx, siteID, result); saveErr != nil {
			logger.Error().Err(saveErr).Str("site", siteID).Msg("failed to persist audit result")
		}
	}

	logger.Info().
		Str("site", siteID).
		Int("score", result.Score).
		Int("issues", len(result.Issues)).
		Msg("audit completed")

	return result, nil
}

// resolveOptions overlays per-site settings-store overrides onto the
// caller's options. Overrides are keyed "site:{id}:audit:{option}"; a key
// that is absent or unparseable leaves the caller's value alone.
func (e *Engine) resolveOptions(ctx context.Context, siteID string, opts domain.AuditOptions) domain.AuditOptions {
	if e.overrides == nil {
		return opts
	}
	logger := zerolog.Ctx(ctx)

	lookup := func(option string) (string, bool) {
		key := fmt.Sprintf("site:%s:audit:%s", siteID, option)
		raw, ok, err := e.overrides.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("settings store lookup failed")
			return "", false
		}
		return raw, ok
	}
	overrideBool := func(option string, dst *bool) {
		raw, ok := lookup(option)
		if !ok {
			return
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn().Str("option", option).Str("value", raw).Msg("ignoring non-boolean override")
			return
		}
		*dst = value
	}
	overrideInt := func(option string, dst *int) {
		raw, ok := lookup(option)
		if !ok {
			return
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			logger.Warn().Str("option", option).Str("value", raw).Msg("ignoring non-numeric override")
			return
		}
		*dst = value
	}

	overrideBool("includeFirewall", &opts.IncludeFirewall)
	overrideBool("includeVlan", &opts.IncludeVlan)
	overrideBool("includePorts", &opts.IncludePorts)
	overrideBool("includeDns", &opts.IncludeDNS)
	overrideBool("allowTVsOnMainNetwork", &opts.AllowTVsOnMainNetwork)
	overrideBool("allowPrintersOnMainNetwork", &opts.AllowPrintersOnMainNetwork)
	overrideBool("allowMediaOnMainNetwork", &opts.AllowMediaOnMainNetwork)
	overrideInt("unusedPortDays", &opts.UnusedPortDays)
	overrideInt("namedUnusedPortDays", &opts.NamedUnusedPortDays)
	overrideInt("dnsMgmtPort", &opts.ThirdPartyDNSMgmtPort)
	return opts
}

func (e *Engine) buildInput(ev collector.Evidence) Input {
	rules, generation := normalize.Firewall(ev)

	var zones []unifi.FirewallZoneConf
	if ev.FirewallZones.Present() {
		zones = ev.FirewallZones.Value
	}
	var networkConfs []unifi.NetworkConf
	if ev.Networks.Present() {
		networkConfs = ev.Networks.Value
	}
	networks := classify.Networks(networkConfs, zones)

	var cameras []unifi.ProtectCamera
	if ev.ProtectCameras.Present() {
		cameras = ev.ProtectCameras.Value
	}
	dc := classify.NewDeviceClassifier(cameras, e.fingerprint)

	var clients []domain.ClientInfo
	if ev.Clients.Present() {
		clients = dc.Clients(ev.Clients.Value)
	}
	offline := offlineClients(dc, ev, clients)

	switches := normalize.Switches(ev)
	normalize.ApplyPortProfiles(switches, ev)

	input := Input{
		Rules:          rules,
		Generation:     generation,
		Networks:       networks,
		Clients:        clients,
		OfflineClients: offline,
		Switches:       switches,
		NatRules:       normalize.NatRules(ev),
		PortForwards:   normalize.PortForwards(ev),
		Now:            time.Now().UTC(),
	}

	if ev.Upnp.Present() {
		input.UpnpKnown = true
		input.UpnpEnabled = ev.Upnp.Value.Enabled
		for _, m := range ev.Upnp.Value.Mappings {
			input.UpnpMappings = append(input.UpnpMappings, upnpMapping{
				ExternalPort: m.ExternalPort,
				InternalPort: m.InternalPort,
				InternalIP:   m.InternalIP,
				Description:  m.Description,
			})
		}
	}
	if ev.Settings.Present() && ev.Settings.Value != nil {
		s := ev.Settings.Value
		input.SettingsKnown = true
		input.DoHState = s.DoHState
		input.DoHServers = s.DoHServers
		input.WanDNSServers = s.WanDNSServers
		input.Wpa3Enabled = s.Wpa3Support
		input.GuestIsolation = s.GuestIsolation
	}
	return input
}

// offlineClients classifies history entries not seen in the current client
// list.
func offlineClients(dc *classify.DeviceClassifier, ev collector.Evidence, online []domain.ClientInfo) []domain.ClientInfo {
	if !ev.ClientHistory.Present() {
		return nil
	}
	onlineMACs := make(map[string]bool, len(online))
	for _, c := range online {
		onlineMACs[c.MAC] = true
	}
	var past []unifi.Client
	for _, c := range ev.ClientHistory.Value {
		past = append(past, c)
	}
	classified := dc.Clients(past)
	var offline []domain.ClientInfo
	for _, c := range classified {
		if !onlineMACs[c.MAC] {
			offline = append(offline, c)
		}
	}
	return offline
}

func statistics(in Input) domain.AuditStatistics {
	ports := 0
	for _, sw := range in.Switches {
		ports += len(sw.Ports)
	}
	return domain.AuditStatistics{
		PortsChecked:    ports,
		NetworksChecked: len(in.Networks),
		SwitchesChecked: len(in.Switches),
	}
}

func wireless(clients []domain.ClientInfo) []domain.ClientInfo {
	var out []domain.ClientInfo
	for _, c := range clients {
		if !c.IsWired {
			out = append(out, c)
		}
	}
	return out
}

// syntheticResult is the degenerate result for runs that could not analyze
// anything: one Critical finding, score zero.
func (e *Engine) syntheticResult(siteID string, t domain.IssueType, message string) domain.AuditResult {
	issue := newIssue(t, domain.SeverityCritical, message)
	result := domain.AuditResult{
		AuditID:        uuid.NewString(),
		SiteID:         siteID,
		Score:          0,
		UnfilteredScore: 0,
		SeverityCounts: SeverityCounts([]domain.AuditIssue{issue}),
		Issues:         []domain.AuditIssue{issue},
		GeneratedAt:    time.Now().UTC(),
	}
	e.mu.Lock()
	e.lastRun[siteID] = result
	e.mu.Unlock()
	return result
}

// latest returns the freshest known result, preferring the in-memory run
// over the persisted one.
func (e *Engine) latest(ctx context.Context, siteID string) (domain.AuditResult, error) {
	e.mu.RLock()
	cached, ok := e.lastRun[siteID]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}
	if e.history == nil {
		return domain.AuditResult{}, ErrNoAudit
	}
	result, err := e.history.GetLatestAuditResult(ctx, siteID)
	if err != nil {
		return domain.AuditResult{}, ErrNoAudit
	}
	return result, nil
}

// GetAuditSummary condenses the latest result for listings: score,
// severity counts and the five most recent active issues.
func (e *Engine) GetAuditSummary(ctx context.Context, siteID string) (domain.AuditSummary, error) {
	result, err := e.latest(ctx, siteID)
	if err != nil {
		return domain.AuditSummary{}, err
	}
	active, _ := e.ledger.Split(ctx, siteID, result.Issues)

	recent := active
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return domain.AuditSummary{
		Score:         result.Score,
		CriticalCount: result.SeverityCounts[domain.SeverityCritical],
		WarningCount:  result.SeverityCounts[domain.SeverityRecommended],
		LastAuditTime: result.GeneratedAt,
		RecentIssues:  recent,
	}, nil
}

// GetAuditResult fetches a persisted snapshot by ID.
func (e *Engine) GetAuditResult(ctx context.Context, siteID, auditID string) (domain.AuditResult, error) {
	if e.history == nil {
		return domain.AuditResult{}, ErrNoAudit
	}
	return e.history.GetAuditResult(ctx, siteID, auditID)
}

// GetLatestAuditResult returns the freshest known result for the site.
func (e *Engine) GetLatestAuditResult(ctx context.Context, siteID string) (domain.AuditResult, error) {
	return e.latest(ctx, siteID)
}

// GetActiveIssues returns the latest run's findings minus dismissed ones.
func (e *Engine) GetActiveIssues(ctx context.Context, siteID string) ([]domain.AuditIssue, error) {
	result, err := e.latest(ctx, siteID)
	if err != nil {
		return nil, err
	}
	active, _ := e.ledger.Split(ctx, siteID, result.Issues)
	return active, nil
}

// GetDismissedIssues returns the latest run's findings that are dismissed.
func (e *Engine) GetDismissedIssues(ctx context.Context, siteID string) ([]domain.AuditIssue, error) {
	result, err := e.latest(ctx, siteID)
	if err != nil {
		return nil, err
	}
	_, dismissed := e.ledger.Split(ctx, siteID, result.Issues)
	return dismissed, nil
}

// DismissIssue suppresses a finding across future runs.
func (e *Engine) DismissIssue(ctx context.Context, siteID string, issue domain.AuditIssue) error {
	return e.ledger.Dismiss(ctx, siteID, issue)
}

// RestoreIssue reactivates a dismissed finding.
func (e *Engine) RestoreIssue(ctx context.Context, siteID string, issue domain.AuditIssue) error {
	return e.ledger.Restore(ctx, siteID, issue)
}

// ClearDismissed drops all dismissals for the site.
func (e *Engine) ClearDismissed(ctx context.Context, siteID string) error {
	return e.ledger.Clear(ctx, siteID)
}
