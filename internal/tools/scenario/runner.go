package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/engine"
	"github.com/mechforge/mechforge/internal/validation/rule"
	"github.com/mechforge/mechforge/internal/validation/rules"
)

// AssertionMode controls how expectation mismatches are handled.
type AssertionMode int

const (
	// AssertionStrict fails the run on the first mismatch.
	AssertionStrict AssertionMode = iota
	// AssertionLogOnly logs mismatches and keeps going.
	AssertionLogOnly
)

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{Assertions: AssertionStrict}
}

// Runner executes Lua scenarios against the validation engine.
type Runner struct {
	engine     *engine.Engine
	assertions AssertionMode
	logger     *log.Logger
	verbose    bool
}

// NewRunner builds a runner with the standard rule library loaded into
// a fresh registry.
func NewRunner(cfg Config) (*Runner, error) {
	registry := rule.NewRegistry()
	if err := rules.RegisterAll(registry); err != nil {
		return nil, fmt.Errorf("register rules: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}

	return &Runner{
		engine:     engine.New(registry),
		assertions: cfg.Assertions,
		logger:     logger,
		verbose:    cfg.Verbose,
	}, nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario validates the scenario's unit and checks its
// expectations.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}

	u, err := BuildUnit(scenario)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	opts := BuildOptions(scenario)

	r.logf("scenario start: %s (%s %s)", scenario.Name, u.Chassis, u.Variant)
	start := time.Now()
	report := r.engine.Validate(ctx, u, opts)
	r.logf("scenario validated: %s (%d errors, %d warnings, %s)",
		scenario.Name, report.ErrorCount, report.WarningCount, time.Since(start))

	return r.checkExpectations(scenario, report)
}

func (r *Runner) checkExpectations(scenario *Scenario, report *engine.Report) error {
	var mismatches []string

	expect := scenario.Expect
	if expect.ValidSet && report.IsValid != expect.Valid {
		mismatches = append(mismatches,
			fmt.Sprintf("expected valid=%v, got %v", expect.Valid, report.IsValid))
	}
	if expect.Errors != nil && report.ErrorCount != *expect.Errors {
		mismatches = append(mismatches,
			fmt.Sprintf("expected %d errors, got %d", *expect.Errors, report.ErrorCount))
	}
	if expect.Critical != nil && report.CriticalErrorCount != *expect.Critical {
		mismatches = append(mismatches,
			fmt.Sprintf("expected %d critical errors, got %d", *expect.Critical, report.CriticalErrorCount))
	}
	if expect.Warnings != nil && report.WarningCount != *expect.Warnings {
		mismatches = append(mismatches,
			fmt.Sprintf("expected %d warnings, got %d", *expect.Warnings, report.WarningCount))
	}
	for _, ruleID := range expect.FindingOf {
		if !reportHasFinding(report, ruleID) {
			mismatches = append(mismatches,
				fmt.Sprintf("expected a finding from rule %s", ruleID))
		}
	}

	if len(mismatches) == 0 {
		return nil
	}
	if r.assertions == AssertionLogOnly {
		for _, m := range mismatches {
			r.logger.Printf("scenario %s: %s", scenario.Name, m)
		}
		return nil
	}
	return fmt.Errorf("scenario %s: %s", scenario.Name, mismatches[0])
}

func reportHasFinding(report *engine.Report, ruleID string) bool {
	for _, result := range report.Results {
		for _, f := range result.Errors {
			if f.RuleID == ruleID {
				return true
			}
		}
		for _, f := range result.Warnings {
			if f.RuleID == ruleID {
				return true
			}
		}
		for _, f := range result.Infos {
			if f.RuleID == ruleID {
				return true
			}
		}
	}
	return false
}

// BuildUnit converts the scenario's unit and location tables into a
// unit design.
func BuildUnit(scenario *Scenario) (*unit.Unit, error) {
	if scenario.Unit == nil {
		return nil, errors.New("scenario defines no unit")
	}

	u := &unit.Unit{
		ID:               stringField(scenario.Unit, "id"),
		Chassis:          stringField(scenario.Unit, "chassis"),
		Variant:          stringField(scenario.Unit, "variant"),
		Subtype:          unit.Subtype(stringField(scenario.Unit, "subtype")),
		TechBase:         unit.TechBase(stringField(scenario.Unit, "tech_base")),
		RulesLevel:       unit.RulesLevel(stringField(scenario.Unit, "rules_level")),
		Tonnage:          floatField(scenario.Unit, "tonnage"),
		EngineRating:     intField(scenario.Unit, "engine_rating"),
		WalkMP:           intField(scenario.Unit, "walk_mp"),
		IntroductionYear: intField(scenario.Unit, "introduction_year"),
	}
	if raw, ok := scenario.Unit["allocated_tonnage"]; ok {
		value := toFloat(raw)
		u.AllocatedTonnage = &value
	}
	for _, loc := range scenario.Locations {
		u.Locations = append(u.Locations, unit.LocationLoad{
			Location:          unit.Location(stringField(loc, "location")),
			SlotsUsed:         intField(loc, "slots_used"),
			SlotCapacity:      intField(loc, "slot_capacity"),
			ArmorPoints:       intField(loc, "armor_points"),
			InternalStructure: intField(loc, "internal_structure"),
		})
	}
	return u, nil
}

// BuildOptions converts the scenario's options table into pass
// options. Nil when the scenario set none.
func BuildOptions(scenario *Scenario) *rule.Options {
	if scenario.Options == nil {
		return nil
	}
	opts := &rule.Options{
		MaxErrors:         intField(scenario.Options, "max_errors"),
		TargetYear:        intField(scenario.Options, "target_year"),
		RulesLevelCeiling: unit.RulesLevel(stringField(scenario.Options, "rules_level_ceiling")),
	}
	if raw, ok := scenario.Options["skip_rules"]; ok {
		opts.SkipRules = append(opts.SkipRules, toStrings(raw)...)
	}
	if raw, ok := scenario.Options["categories"]; ok {
		for _, v := range toStrings(raw) {
			opts.Categories = append(opts.Categories, rule.Category(v))
		}
	}
	return opts
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func floatField(m map[string]any, key string) float64 {
	return toFloat(m[key])
}

func toFloat(v any) float64 {
	switch value := v.(type) {
	case int:
		return float64(value)
	case float64:
		return value
	default:
		return 0
	}
}

func toStrings(v any) []string {
	var out []string
	switch value := v.(type) {
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case string:
		out = append(out, value)
	}
	return out
}
