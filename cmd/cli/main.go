package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lan-tools/net-atlas/pkg/runtime/terminal"
	"github.com/lan-tools/net-atlas/pkg/runtime/terminal/commands"
	"github.com/lan-tools/net-atlas/pkg/services/audit"
	"github.com/lan-tools/net-atlas/pkg/services/config"
	"github.com/lan-tools/net-atlas/pkg/services/history"
	"github.com/lan-tools/net-atlas/pkg/services/registry"
	"github.com/lan-tools/net-atlas/pkg/services/unifi"
	"github.com/lan-tools/net-atlas/pkg/store/duckdb"
	duckdbaudit "github.com/lan-tools/net-atlas/pkg/store/duckdb/audit"
	duckdbdismissed "github.com/lan-tools/net-atlas/pkg/store/duckdb/dismissed"
)

type engineFactory struct{}

func (engineFactory) Create(ctx context.Context, registryPath, configPath string) (commands.AuditRunner, error) {
	sites, err := config.NewRegistry(registryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load site registry: %w", err)
	}
	controllers := registry.NewControllerRegistry(sites)

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: "net-atlas.db"})
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	auditStore, err := duckdbaudit.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit store: %w", err)
	}
	dismissedStore, err := duckdbdismissed.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create dismissed store: %w", err)
	}

	fingerprints := unifi.NewFingerprints()
	fingerprints.Refresh(ctx)

	overrides, err := config.LoadOverrides(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit overrides: %w", err)
	}

	return audit.NewEngine(
		controllers,
		fingerprints,
		history.NewService(auditStore),
		overrides,
		audit.NewLedger(dismissedStore),
		audit.DefaultSettings(),
	), nil
}

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Factory: engineFactory{},
		Output:  os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
