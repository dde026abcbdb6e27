package commands

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lan-tools/net-atlas/pkg/services/config"
)

type SitesCmd struct {
	registryPath string
}

func NewSitesCmd() *cobra.Command {
	sc := &SitesCmd{}
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List configured sites",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.registryPath, "registry", defaultRegistryPath(), "Path to the site registry file")

	return cmd
}

func (sc *SitesCmd) run(cmd *cobra.Command, args []string) error {
	registry, err := config.NewRegistry(sc.registryPath)
	if err != nil {
		return fmt.Errorf("failed to load site registry: %w", err)
	}

	sites, err := registry.GetSites(cmd.Context())
	if err != nil {
		return err
	}
	for _, site := range sites {
		profile, err := registry.GetProfile(cmd.Context(), site)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (incomplete profile)\n", site)
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), profile)
	}
	return nil
}

func defaultRegistryPath() string {
	usr, err := user.Current()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".netatlas")
	}
	return filepath.Join(usr.HomeDir, ".netatlas")
}
