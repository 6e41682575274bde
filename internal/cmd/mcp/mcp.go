// Package mcp parses MCP command flags and runs the stdio server.
package mcp

import (
	"context"
	"flag"

	platformcmd "github.com/mechforge/mechforge/internal/platform/cmd"
	"github.com/mechforge/mechforge/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	CatalogPath string `env:"MECHFORGE_CATALOG_PATH"  envDefault:"mechforge.db"`
	ArchivePath string `env:"MECHFORGE_ARCHIVE_PATH"`
	Transport   string `env:"MECHFORGE_MCP_TRANSPORT" envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "SQLite catalog path (empty disables catalog tools)")
	fs.StringVar(&cfg.ArchivePath, "archive", cfg.ArchivePath, "BoltDB report archive path (empty disables report tools)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP protocol adapter.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(runCtx context.Context) error {
		return service.Run(runCtx, service.Config{
			CatalogPath: cfg.CatalogPath,
			ArchivePath: cfg.ArchivePath,
			Transport:   service.TransportKind(cfg.Transport),
		})
	})
}
