package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
)

// auditOverrides mirrors the `audit` block of the optional YAML config.
type auditOverrides struct {
	IncludeFirewall *bool `mapstructure:"include_firewall"`
	IncludeVlan     *bool `mapstructure:"include_vlan"`
	IncludePorts    *bool `mapstructure:"include_ports"`
	IncludeDNS      *bool `mapstructure:"include_dns"`

	AllowTVsOnMain      *bool `mapstructure:"allow_tvs_on_main"`
	AllowPrintersOnMain *bool `mapstructure:"allow_printers_on_main"`
	AllowMediaOnMain    *bool `mapstructure:"allow_media_on_main"`

	UnusedPortDays        *int  `mapstructure:"unused_port_days"`
	NamedUnusedPortDays   *int  `mapstructure:"named_unused_port_days"`
	DnatExcludedVlanIDs   []int `mapstructure:"dnat_excluded_vlans"`
	ThirdPartyDNSMgmtPort *int  `mapstructure:"dns_mgmt_port"`
}

// LoadAuditOptions returns the defaults overlaid with any overrides from
// the given config file. An empty path returns the defaults untouched.
func LoadAuditOptions(configPath string) (domain.AuditOptions, error) {
	opts := domain.DefaultAuditOptions()
	if configPath == "" {
		return opts, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return opts, fmt.Errorf("read config file: %w", err)
	}

	var ov auditOverrides
	if err := v.UnmarshalKey("audit", &ov); err != nil {
		return opts, fmt.Errorf("parse audit options: %w", err)
	}

	applyBool(&opts.IncludeFirewall, ov.IncludeFirewall)
	applyBool(&opts.IncludeVlan, ov.IncludeVlan)
	applyBool(&opts.IncludePorts, ov.IncludePorts)
	applyBool(&opts.IncludeDNS, ov.IncludeDNS)
	applyBool(&opts.AllowTVsOnMainNetwork, ov.AllowTVsOnMain)
	applyBool(&opts.AllowPrintersOnMainNetwork, ov.AllowPrintersOnMain)
	applyBool(&opts.AllowMediaOnMainNetwork, ov.AllowMediaOnMain)
	applyInt(&opts.UnusedPortDays, ov.UnusedPortDays)
	applyInt(&opts.NamedUnusedPortDays, ov.NamedUnusedPortDays)
	applyInt(&opts.ThirdPartyDNSMgmtPort, ov.ThirdPartyDNSMgmtPort)
	if len(ov.DnatExcludedVlanIDs) > 0 {
		opts.DnatExcludedVlanIDs = ov.DnatExcludedVlanIDs
	}
	return opts, nil
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
