// Package service hosts the MCP server exposing validation and catalog tools.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mechforge/mechforge/internal/archive"
	archivebbolt "github.com/mechforge/mechforge/internal/archive/bbolt"
	"github.com/mechforge/mechforge/internal/catalog"
	"github.com/mechforge/mechforge/internal/catalog/sqlite"
	"github.com/mechforge/mechforge/internal/services/mcp/domain"
	"github.com/mechforge/mechforge/internal/validation"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "MechForge MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
)

// Config configures the MCP server.
type Config struct {
	// CatalogPath is the SQLite catalog location. Empty disables the
	// catalog tools; validation of inline units still works.
	CatalogPath string
	// ArchivePath is the BoltDB report archive location. Empty disables
	// report archiving and the report tools.
	ArchivePath string
	Transport   TransportKind
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
	store     catalog.Store
	reports   archive.Store
}

// New creates a configured MCP server backed by the default validation
// engine and, when paths are set, a SQLite unit catalog and a BoltDB
// report archive.
func New(cfg Config) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	var store catalog.Store
	if strings.TrimSpace(cfg.CatalogPath) != "" {
		opened, err := sqlite.Open(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("open catalog at %s: %w", cfg.CatalogPath, err)
		}
		store = opened
	}

	var reports archive.Store
	if strings.TrimSpace(cfg.ArchivePath) != "" {
		opened, err := archivebbolt.Open(cfg.ArchivePath)
		if err != nil {
			if store != nil {
				_ = store.Close()
			}
			return nil, fmt.Errorf("open archive at %s: %w", cfg.ArchivePath, err)
		}
		reports = opened
	}

	server := &Server{mcpServer: mcpServer, store: store, reports: reports}

	registerValidationTools(mcpServer, store, reports)
	if store != nil {
		registerCatalogTools(mcpServer, store)
	}
	if reports != nil {
		registerArchiveTools(mcpServer, reports)
	}

	return server, nil
}

func registerValidationTools(mcpServer *mcp.Server, store catalog.Store, reports archive.Store) {
	eng := validation.Default()
	mcp.AddTool(mcpServer, domain.ValidateUnitTool(), domain.ValidateUnitHandler(eng, store, reports))
	mcp.AddTool(mcpServer, domain.ValidateRuleTool(), domain.ValidateRuleHandler(eng))
	mcp.AddTool(mcpServer, domain.ListRulesTool(), domain.ListRulesHandler(validation.DefaultRegistry()))
}

func registerArchiveTools(mcpServer *mcp.Server, reports archive.Store) {
	mcp.AddTool(mcpServer, domain.ReportGetTool(), domain.ReportGetHandler(reports))
	mcp.AddTool(mcpServer, domain.ReportListTool(), domain.ReportListHandler(reports))
}

func registerCatalogTools(mcpServer *mcp.Server, store catalog.Store) {
	mcp.AddTool(mcpServer, domain.UnitPutTool(), domain.UnitPutHandler(store))
	mcp.AddTool(mcpServer, domain.UnitGetTool(), domain.UnitGetHandler(store))
	mcp.AddTool(mcpServer, domain.UnitListTool(), domain.UnitListHandler(store))
	mcp.AddTool(mcpServer, domain.UnitDeleteTool(), domain.UnitDeleteHandler(store))
}

// Close releases the catalog and archive handles.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	var firstErr error
	if s.store != nil {
		firstErr = s.store.Close()
	}
	if s.reports != nil {
		if err := s.reports.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Serve runs the MCP server over the given transport until the context ends.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// Run creates and serves the MCP server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		server, err := New(cfg)
		if err != nil {
			return err
		}
		defer server.Close()
		return server.Serve(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}
