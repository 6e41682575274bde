package scenario

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/mechforge/mechforge/internal/unit"
)

func TestBuildUnit(t *testing.T) {
	scenario := &Scenario{
		Unit: map[string]any{
			"id":                "mad-3r",
			"chassis":           "Marauder",
			"variant":           "MAD-3R",
			"subtype":           "battlemech",
			"tech_base":         "inner_sphere",
			"rules_level":       "introductory",
			"tonnage":           75,
			"engine_rating":     300,
			"walk_mp":           4,
			"allocated_tonnage": 74.5,
		},
		Locations: []map[string]any{
			{"location": "CT", "slots_used": 10, "slot_capacity": 12, "armor_points": 30, "internal_structure": 23},
		},
	}

	u, err := BuildUnit(scenario)
	if err != nil {
		t.Fatalf("build unit: %v", err)
	}
	if u.ID != "mad-3r" || u.Subtype != unit.SubtypeBattleMech {
		t.Fatalf("unexpected unit identity: %+v", u)
	}
	if u.Tonnage != 75 || u.EngineRating != 300 || u.WalkMP != 4 {
		t.Fatalf("unexpected unit figures: %+v", u)
	}
	if u.AllocatedTonnage == nil || *u.AllocatedTonnage != 74.5 {
		t.Fatalf("expected allocated tonnage 74.5, got %v", u.AllocatedTonnage)
	}
	if len(u.Locations) != 1 || u.Locations[0].Location != unit.LocationCenterTorso {
		t.Fatalf("unexpected locations: %+v", u.Locations)
	}
}

func TestBuildUnitRequiresUnitTable(t *testing.T) {
	if _, err := BuildUnit(&Scenario{}); err == nil {
		t.Fatal("expected error for scenario without unit")
	}
}

func TestBuildOptions(t *testing.T) {
	scenario := &Scenario{
		Options: map[string]any{
			"skip_rules":          []any{"construction.walk-speed"},
			"categories":          []any{"weight", "construction"},
			"max_errors":          2,
			"target_year":         3025,
			"rules_level_ceiling": "standard",
		},
	}

	opts := BuildOptions(scenario)
	if opts == nil {
		t.Fatal("expected options")
	}
	if len(opts.SkipRules) != 1 || opts.SkipRules[0] != "construction.walk-speed" {
		t.Fatalf("unexpected skip rules: %v", opts.SkipRules)
	}
	if len(opts.Categories) != 2 {
		t.Fatalf("unexpected categories: %v", opts.Categories)
	}
	if opts.MaxErrors != 2 || opts.TargetYear != 3025 {
		t.Fatalf("unexpected limits: %+v", opts)
	}
	if opts.RulesLevelCeiling != unit.RulesLevelStandard {
		t.Fatalf("unexpected ceiling: %v", opts.RulesLevelCeiling)
	}
}

func TestBuildOptionsNilWhenUnset(t *testing.T) {
	if opts := BuildOptions(&Scenario{}); opts != nil {
		t.Fatalf("expected nil options, got %+v", opts)
	}
}

func TestRunScenarioStrictMismatch(t *testing.T) {
	runner, err := NewRunner(DefaultConfig())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	scenario := &Scenario{
		Name: "engineless",
		Unit: map[string]any{
			"id":      "stripped",
			"subtype": "battlemech",
			"tonnage": 50,
		},
		Expect: Expectation{ValidSet: true, Valid: true},
	}

	err = runner.RunScenario(context.Background(), scenario)
	if err == nil {
		t.Fatal("expected strict assertion failure")
	}
	if !strings.Contains(err.Error(), "expected valid=true") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunScenarioLogOnlyMismatch(t *testing.T) {
	var buf bytes.Buffer
	runner, err := NewRunner(Config{
		Assertions: AssertionLogOnly,
		Logger:     log.New(&buf, "", 0),
	})
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	scenario := &Scenario{
		Name: "engineless",
		Unit: map[string]any{
			"id":      "stripped",
			"subtype": "battlemech",
			"tonnage": 50,
		},
		Expect: Expectation{ValidSet: true, Valid: true},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("log-only run should not fail: %v", err)
	}
	if !strings.Contains(buf.String(), "expected valid=true") {
		t.Fatalf("expected logged mismatch, got %q", buf.String())
	}
}

func TestRunScenarioPassing(t *testing.T) {
	runner, err := NewRunner(DefaultConfig())
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}

	errors := 1
	critical := 1
	scenario := &Scenario{
		Name: "engineless",
		Unit: map[string]any{
			"id":      "stripped",
			"subtype": "battlemech",
			"tonnage": 50,
		},
		Expect: Expectation{
			ValidSet:  true,
			Valid:     false,
			Errors:    &errors,
			Critical:  &critical,
			FindingOf: []string{"construction.engine-required"},
		},
	}

	if err := runner.RunScenario(context.Background(), scenario); err != nil {
		t.Fatalf("run scenario: %v", err)
	}
}
