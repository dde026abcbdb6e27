package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// Registry reads controller connection profiles from an ini file with one
// section per site:
//
//	[home]
//	host = https://192.168.1.1
//	api_key = ...
//	verify_tls = false
type Registry interface {
	GetSites(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, site string) (domain.SiteProfile, error)
}

type siteRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &siteRegistry{cfg: cfg}, nil
}

func (sr *siteRegistry) GetSites(_ context.Context) ([]string, error) {
	var sites []string
	for _, section := range sr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			sites = append(sites, section.Name())
		}
	}
	return sites, nil
}

func (sr *siteRegistry) GetProfile(_ context.Context, site string) (domain.SiteProfile, error) {
	section, err := sr.cfg.GetSection(site)
	if err != nil {
		return domain.SiteProfile{}, fmt.Errorf("site %s not found", site)
	}

	profile := domain.SiteProfile{
		Name:      site,
		Host:      section.Key("host").String(),
		APIKey:    section.Key("api_key").String(),
		VerifyTLS: section.Key("verify_tls").MustBool(false),
	}
	if profile.Host == "" {
		return domain.SiteProfile{}, fmt.Errorf("site %s has no host", site)
	}
	if profile.APIKey == "" {
		return domain.SiteProfile{}, fmt.Errorf("site %s has no api_key", site)
	}
	return profile, nil
}
