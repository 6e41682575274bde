package scenario

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Assertions {
		t.Fatal("expected assertions to default to true")
	}
	if cfg.Verbose {
		t.Fatal("expected verbose to default to false")
	}
}

func TestParseConfigPositionalPath(t *testing.T) {
	fs := flag.NewFlagSet("scenario", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"testdata.lua"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Scenario != "testdata.lua" {
		t.Fatalf("expected positional scenario path, got %q", cfg.Scenario)
	}
}

func TestRunRequiresScenarioPath(t *testing.T) {
	err := Run(context.Background(), Config{Assertions: true}, nil, nil)
	if err == nil {
		t.Fatal("expected error for missing scenario path")
	}
}

func TestRunScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engineless.lua")
	script := `
local s = Scenario.new("engineless")
s:unit({ id = "stripped", subtype = "battlemech", tonnage = 50 })
s:expect_valid(false)
s:expect_critical(1)
s:expect_finding("construction.engine-required")
return s
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var out strings.Builder
	if err := Run(context.Background(), Config{Scenario: path, Assertions: true}, &out, nil); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
	if !strings.Contains(out.String(), "scenario passed") {
		t.Fatalf("expected pass message, got %q", out.String())
	}
}

func TestRunScenarioStrictFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.lua")
	script := `
local s = Scenario.new("wrong expectation")
s:unit({ id = "stripped", subtype = "battlemech", tonnage = 50 })
s:expect_valid(true)
return s
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	if err := Run(context.Background(), Config{Scenario: path, Assertions: true}, nil, nil); err == nil {
		t.Fatal("expected strict assertion failure")
	}
}
