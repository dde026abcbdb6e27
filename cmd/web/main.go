package main

import (
	"fmt"
	"net"
	"os"
	"os/user"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lan-tools/net-atlas/pkg/server"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
	"github.com/lan-tools/net-atlas/pkg/services/config"
	"github.com/lan-tools/net-atlas/pkg/services/history"
	"github.com/lan-tools/net-atlas/pkg/services/registry"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
	"github.com/lan-tools/net-atlas/pkg/store/duckdb"
	duckdbaudit "github.com/lan-tools/net-atlas/pkg/store/duckdb/audit"
	duckdbdismissed "github.com/lan-tools/net-atlas/pkg/store/duckdb/dismissed"
)

var (
	registryPath string
	configPath   string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Net Atlas",
		RunE:  runServer,
	}

	usr, _ := user.Current()
	defaultPath := fmt.Sprintf("%s/.netatlas", usr.HomeDir)

	rootCmd.Flags().StringVarP(&registryPath, "registry", "r", defaultPath,
		"Path to the site registry file (default is $HOME/.netatlas)")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to the audit options file with per-site overrides")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	sites, err := config.NewRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load site registry: %w", err)
	}
	controllers := registry.NewControllerRegistry(sites)

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: "net-atlas.db",
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	auditStore, err := duckdbaudit.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create audit store: %w", err)
	}
	dismissedStore, err := duckdbdismissed.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create dismissed store: %w", err)
	}

	fingerprints := unifi.NewFingerprints()
	go fingerprints.Refresh(ctx)

	overrides, err := config.LoadOverrides(configPath)
	if err != nil {
		return fmt.Errorf("failed to load audit overrides: %w", err)
	}

	engine := audit.NewEngine(
		controllers,
		fingerprints,
		history.NewService(auditStore),
		overrides,
		audit.NewLedger(dismissedStore),
		audit.DefaultSettings(),
	)

	logger.Info().Msgf("Site registry found at `%s` successfully loaded.", registryPath)
	names, _ := sites.GetSites(ctx)
	for _, name := range names {
		logger.Info().Msgf("Site: `%s`", name)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Audit: engine,
		},
	})

	return webAPI.Start()
}
