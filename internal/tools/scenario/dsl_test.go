package scenario

import (
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestLoadScenarioFromFile(t *testing.T) {
	path := writeScript(t, "basic.lua", `
local s = Scenario.new("basic design")
s:unit({
    id = "test-unit",
    subtype = "battlemech",
    tonnage = 50,
    engine_rating = 200,
})
s:location({ location = "HD", slots_used = 5, slot_capacity = 6 })
s:options({ skip_rules = { "construction.walk-speed" }, max_errors = 3 })
s:expect_valid(true)
s:expect_errors(0)
s:expect_finding("weight.tonnage-bounds")
return s
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "basic design" {
		t.Fatalf("expected name %q, got %q", "basic design", scenario.Name)
	}
	if got := scenario.Unit["id"]; got != "test-unit" {
		t.Fatalf("expected unit id test-unit, got %v", got)
	}
	if got := scenario.Unit["tonnage"]; got != 50 {
		t.Fatalf("expected tonnage 50, got %v (%T)", got, got)
	}
	if len(scenario.Locations) != 1 || scenario.Locations[0]["location"] != "HD" {
		t.Fatalf("expected one HD location, got %v", scenario.Locations)
	}
	skips, ok := scenario.Options["skip_rules"].([]any)
	if !ok || len(skips) != 1 || skips[0] != "construction.walk-speed" {
		t.Fatalf("expected skip_rules array, got %v", scenario.Options["skip_rules"])
	}
	if !scenario.Expect.ValidSet || !scenario.Expect.Valid {
		t.Fatal("expected valid expectation to be recorded")
	}
	if scenario.Expect.Errors == nil || *scenario.Expect.Errors != 0 {
		t.Fatalf("expected error expectation 0, got %v", scenario.Expect.Errors)
	}
	if len(scenario.Expect.FindingOf) != 1 || scenario.Expect.FindingOf[0] != "weight.tonnage-bounds" {
		t.Fatalf("expected finding expectation, got %v", scenario.Expect.FindingOf)
	}
}

func TestLoadScenarioNameFallsBackToFilename(t *testing.T) {
	path := writeScript(t, "unnamed_design.lua", `
local s = Scenario.new()
s:unit({ id = "u", subtype = "battlemech", tonnage = 20 })
return s
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if scenario.Name != "unnamed_design" {
		t.Fatalf("expected filename fallback, got %q", scenario.Name)
	}
}

func TestLoadScenarioRejectsNonScenarioReturn(t *testing.T) {
	path := writeScript(t, "bad.lua", `return 42`)

	if _, err := LoadScenarioFromFile(path); err == nil {
		t.Fatal("expected error for non-scenario return")
	}
}

func TestLoadScenarioFractionalTonnage(t *testing.T) {
	path := writeScript(t, "battle_armor.lua", `
local s = Scenario.new("suit")
s:unit({ id = "suit", subtype = "battle_armor", tonnage = 0.75 })
return s
`)

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		t.Fatalf("load scenario: %v", err)
	}
	if got := scenario.Unit["tonnage"]; got != 0.75 {
		t.Fatalf("expected tonnage 0.75, got %v (%T)", got, got)
	}
}
