package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lan-tools/net-atlas/pkg/models/domain"
	"github.com/lan-tools/net-atlas/pkg/runtime/terminal/export"
	"github.com/lan-tools/net-atlas/pkg/services/config"
)

// AuditRunner is the engine surface the audit command needs.
type AuditRunner interface {
	RunAudit(ctx context.Context, siteID string, opts domain.AuditOptions) (domain.AuditResult, error)
}

// RunnerFactory builds a runner wired against the given site registry. The
// config path feeds the per-site settings-store overrides and may be empty.
type RunnerFactory interface {
	Create(ctx context.Context, registryPath, configPath string) (AuditRunner, error)
}

type AuditCmd struct {
	registryPath string
	configPath   string
	site         string
	firewall     bool
	vlan         bool
	ports        bool
	dns          bool
	factory      RunnerFactory
	reporter     *export.Reporter
}

func NewAuditCmd(factory RunnerFactory, reporter *export.Reporter) *cobra.Command {
	ac := &AuditCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run a security audit against a controller",
		RunE:  ac.run,
	}

	cmd.Flags().StringVar(&ac.registryPath, "registry", defaultRegistryPath(), "Path to the site registry file")
	cmd.Flags().StringVar(&ac.configPath, "config", "", "Path to the audit options file")
	cmd.Flags().StringVar(&ac.site, "site", "", "Site to audit")
	cmd.Flags().BoolVar(&ac.firewall, "firewall", true, "Include firewall rule checks")
	cmd.Flags().BoolVar(&ac.vlan, "vlan", true, "Include VLAN segmentation checks")
	cmd.Flags().BoolVar(&ac.ports, "ports", true, "Include switch port checks")
	cmd.Flags().BoolVar(&ac.dns, "dns", true, "Include DNS leak checks")

	_ = cmd.MarkFlagRequired("site")

	return cmd
}

func (ac *AuditCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	opts, err := config.LoadAuditOptions(ac.configPath)
	if err != nil {
		return err
	}
	opts.IncludeFirewall = opts.IncludeFirewall && ac.firewall
	opts.IncludeVlan = opts.IncludeVlan && ac.vlan
	opts.IncludePorts = opts.IncludePorts && ac.ports
	opts.IncludeDNS = opts.IncludeDNS && ac.dns

	runner, err := ac.factory.Create(ctx, ac.registryPath, ac.configPath)
	if err != nil {
		return fmt.Errorf("failed to set up audit runner: %w", err)
	}

	result, err := runner.RunAudit(ctx, ac.site, opts)
	if err != nil {
		return fmt.Errorf("audit of site %s failed: %w", ac.site, err)
	}
	return ac.reporter.Handle(&result)
}
