package unifi

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// HTTPClientConfig describes how to reach one controller.
type HTTPClientConfig struct {
	// Host is the controller base URL, e.g. https://192.168.1.1.
	Host string
	// APIKey is a controller-issued API key, sent as X-API-Key.
	APIKey string
	// Site is the controller site name, "default" when empty.
	Site string
	// VerifyTLS controls certificate verification. Gateways ship with
	// self-signed certificates, so most profiles disable it.
	VerifyTLS bool
	Timeout   time.Duration
}

// HTTPClient talks to a UniFi OS controller through the network
// application proxy. It implements ControllerClient.
type HTTPClient struct {
	cfg  HTTPClientConfig
	http *http.Client
}

func NewHTTPClient(cfg HTTPClientConfig) *HTTPClient {
	if cfg.Site == "" {
		cfg.Site = "default"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
	}
	return &HTTPClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout, Transport: transport},
	}
}

// apiEnvelope is the classic API response wrapper.
type apiEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *HTTPClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Host+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Endpoint absent on this controller generation.
		return nil, ErrNoData
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return body, nil
}

// getData fetches a classic endpoint and unwraps its data envelope.
func (c *HTTPClient) getData(ctx context.Context, path string) (json.RawMessage, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" || string(env.Data) == "[]" {
		return nil, ErrNoData
	}
	return env.Data, nil
}

func getList[T any](c *HTTPClient, ctx context.Context, path string) ([]T, error) {
	data, err := c.getData(ctx, path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

// getV2List fetches a v2 endpoint, which returns a bare JSON array.
func getV2List[T any](c *HTTPClient, ctx context.Context, path string) ([]T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, ErrNoData
	}
	return out, nil
}

func (c *HTTPClient) restPath(resource string) string {
	return fmt.Sprintf("/proxy/network/api/s/%s/rest/%s", c.cfg.Site, resource)
}

func (c *HTTPClient) statPath(resource string) string {
	return fmt.Sprintf("/proxy/network/api/s/%s/stat/%s", c.cfg.Site, resource)
}

func (c *HTTPClient) v2Path(resource string) string {
	return fmt.Sprintf("/proxy/network/v2/api/site/%s/%s", c.cfg.Site, resource)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/proxy/network/api/self")
	if err != nil && !errors.Is(err, ErrNoData) {
		return err
	}
	return nil
}

func (c *HTTPClient) GetDevicesRawJSON(ctx context.Context) (json.RawMessage, error) {
	return c.getData(ctx, c.statPath("device"))
}

func (c *HTTPClient) GetClients(ctx context.Context) ([]Client, error) {
	clients, err := getList[Client](c, ctx, c.statPath("sta"))
	if err != nil {
		return nil, err
	}
	return stampLastSeen(clients), nil
}

func (c *HTTPClient) GetClientHistory(ctx context.Context, window time.Duration) ([]Client, error) {
	hours := int(window.Hours())
	if hours < 1 {
		hours = 1
	}
	path := fmt.Sprintf("%s?within=%d", c.statPath("alluser"), hours)
	clients, err := getList[Client](c, ctx, path)
	if err != nil {
		return nil, err
	}
	return stampLastSeen(clients), nil
}

func (c *HTTPClient) GetFirewallPoliciesRaw(ctx context.Context) ([]V2FirewallPolicy, error) {
	return getV2List[V2FirewallPolicy](c, ctx, c.v2Path("firewall-policies"))
}

func (c *HTTPClient) GetLegacyFirewallRulesRaw(ctx context.Context) ([]LegacyFirewallRule, error) {
	return getList[LegacyFirewallRule](c, ctx, c.restPath("firewallrule"))
}

func (c *HTTPClient) GetCombinedTrafficFirewallRulesRaw(ctx context.Context) ([]LegacyFirewallRule, error) {
	return getV2List[LegacyFirewallRule](c, ctx, c.v2Path("trafficrules"))
}

func (c *HTTPClient) GetFirewallGroups(ctx context.Context) ([]FirewallGroup, error) {
	return getList[FirewallGroup](c, ctx, c.restPath("firewallgroup"))
}

func (c *HTTPClient) GetFirewallZones(ctx context.Context) ([]FirewallZoneConf, error) {
	return getV2List[FirewallZoneConf](c, ctx, c.v2Path("firewall/zones"))
}

func (c *HTTPClient) GetNatRulesRaw(ctx context.Context) ([]NatRuleConf, error) {
	return getV2List[NatRuleConf](c, ctx, c.v2Path("nat"))
}

func (c *HTTPClient) GetPortForwardRules(ctx context.Context) ([]PortForwardConf, error) {
	return getList[PortForwardConf](c, ctx, c.restPath("portforward"))
}

func (c *HTTPClient) GetUpnpEnabled(ctx context.Context) (bool, []UpnpMapping, error) {
	settings, err := c.GetSettingsRaw(ctx)
	if err != nil {
		return false, nil, err
	}
	if !settings.UpnpEnabled {
		return false, nil, nil
	}
	mappings, err := getV2List[UpnpMapping](c, ctx, c.v2Path("upnp/mappings"))
	if errors.Is(err, ErrNoData) {
		return true, nil, nil
	}
	if err != nil {
		return true, nil, err
	}
	return true, mappings, nil
}

func (c *HTTPClient) GetNetworkConfigs(ctx context.Context) ([]NetworkConf, error) {
	return getList[NetworkConf](c, ctx, c.restPath("networkconf"))
}

func (c *HTTPClient) GetPortProfiles(ctx context.Context) ([]PortProfileConf, error) {
	return getList[PortProfileConf](c, ctx, c.restPath("portconf"))
}

func (c *HTTPClient) GetProtectCameras(ctx context.Context) ([]ProtectCamera, error) {
	body, err := c.get(ctx, "/proxy/protect/api/cameras")
	if err != nil {
		return nil, err
	}
	var cameras []ProtectCamera
	if err := json.Unmarshal(body, &cameras); err != nil {
		return nil, fmt.Errorf("decode protect cameras: %w", err)
	}
	if len(cameras) == 0 {
		return nil, ErrNoData
	}
	return cameras, nil
}

// GetSettingsRaw merges the per-section settings payload into one flat
// view. Each section carries a disjoint subset of the fields.
func (c *HTTPClient) GetSettingsRaw(ctx context.Context) (*SiteSettings, error) {
	data, err := c.getData(ctx, c.restPath("setting"))
	if err != nil {
		return nil, err
	}
	var sections []json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	settings := &SiteSettings{}
	for _, section := range sections {
		if err := json.Unmarshal(section, settings); err != nil {
			return nil, fmt.Errorf("decode settings section: %w", err)
		}
	}
	return settings, nil
}

func stampLastSeen(clients []Client) []Client {
	for i := range clients {
		if clients[i].LastSeenUnix > 0 {
			clients[i].LastSeen = time.Unix(clients[i].LastSeenUnix, 0)
		}
	}
	return clients
}
