package registry

import (
	"context"
	"sync"

	"github.com/lan-tools/net-atlas/pkg/services/config"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
)

// ControllerRegistry resolves site names to controller clients. Clients
// are built lazily from the site registry and cached, so repeated audits
// of the same site reuse one HTTP client.
type ControllerRegistry struct {
	sites config.Registry

	mu      sync.Mutex
	clients map[string]unifi.ControllerClient
}

func NewControllerRegistry(sites config.Registry) *ControllerRegistry {
	return &ControllerRegistry{
		sites:   sites,
		clients: make(map[string]unifi.ControllerClient),
	}
}

func (r *ControllerRegistry) ClientFor(siteID string) (unifi.ControllerClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[siteID]; ok {
		return client, nil
	}

	profile, err := r.sites.GetProfile(context.Background(), siteID)
	if err != nil {
		return nil, err
	}
	client := unifi.NewHTTPClient(unifi.HTTPClientConfig{
		Host:      profile.Host,
		APIKey:    profile.APIKey,
		VerifyTLS: profile.VerifyTLS,
	})
	r.clients[siteID] = client
	return client, nil
}
