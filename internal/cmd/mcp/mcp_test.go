package mcp

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.CatalogPath != "mechforge.db" {
		t.Fatalf("expected default catalog path, got %q", cfg.CatalogPath)
	}
	if cfg.Transport != "stdio" {
		t.Fatalf("expected default transport stdio, got %q", cfg.Transport)
	}
	if cfg.ArchivePath != "" {
		t.Fatalf("expected archiving to default off, got %q", cfg.ArchivePath)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("MECHFORGE_CATALOG_PATH", "env.db")

	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	args := []string{"-catalog", "flag.db", "-archive", "reports.db", "-transport", "stdio"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.CatalogPath != "flag.db" {
		t.Fatalf("expected flag catalog path, got %q", cfg.CatalogPath)
	}
	if cfg.ArchivePath != "reports.db" {
		t.Fatalf("expected flag archive path, got %q", cfg.ArchivePath)
	}
}
