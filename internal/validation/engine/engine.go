package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// panicPrefix prefixes the synthetic error message when a rule panics.
const panicPrefix = "Rule execution failed: "

// Report aggregates every rule outcome of one validation pass.
type Report struct {
	ID                 string        `json:"id"`
	UnitID             string        `json:"unit_id"`
	Subtype            unit.Subtype  `json:"subtype"`
	Category           unit.Category `json:"category"`
	TechBase           unit.TechBase `json:"tech_base"`
	IsValid            bool          `json:"is_valid"`
	ErrorCount         int           `json:"error_count"`
	WarningCount       int           `json:"warning_count"`
	CriticalErrorCount int           `json:"critical_error_count"`
	Truncated          bool          `json:"truncated"`
	Duration           time.Duration `json:"duration"`
	Results            []rule.Result `json:"results"`
	GeneratedAt        time.Time     `json:"generated_at"`
}

// HasCriticalErrors reports whether any critical finding was recorded.
func (r *Report) HasCriticalErrors() bool {
	return r.CriticalErrorCount > 0
}

// Engine executes validation passes against a rule registry.
type Engine struct {
	registry *rule.Registry
	tracer   trace.Tracer
}

// New creates an engine bound to the given registry.
func New(registry *rule.Registry) *Engine {
	return &Engine{
		registry: registry,
		tracer:   otel.Tracer("mechforge/validation"),
	}
}

// Registry exposes the underlying registry for direct mutation.
func (e *Engine) Registry() *rule.Registry {
	return e.registry
}

// Validate runs one full pass over the unit and returns the report.
func (e *Engine) Validate(ctx context.Context, u *unit.Unit, opts *rule.Options) *Report {
	start := time.Now()
	rctx := rule.NewContext(u, opts)

	_, span := e.tracer.Start(ctx, "validation.pass",
		trace.WithAttributes(
			attribute.String("unit.subtype", string(rctx.Subtype)),
		))
	defer span.End()

	report := &Report{
		ID:          uuid.NewString(),
		Subtype:     rctx.Subtype,
		Category:    rctx.Category,
		TechBase:    rctx.TechBase,
		GeneratedAt: time.Now().UTC(),
	}
	if u != nil {
		report.UnitID = u.ID
	}

	rules := e.registry.RulesForSubtype(rctx.Subtype)
	for _, rr := range rules {
		if rctx.Options.SkipsRule(rr.ID) {
			continue
		}
		if !rctx.Options.KeepsCategory(rr.Category) {
			continue
		}
		if !rr.CanValidate(rctx) {
			continue
		}

		result := e.execute(rr, rctx)
		report.Results = append(report.Results, result)
		report.ErrorCount += result.ErrorCount()
		report.CriticalErrorCount += result.CriticalErrorCount()
		report.WarningCount += len(result.Warnings)

		if rctx.Options.MaxErrors > 0 && report.ErrorCount >= rctx.Options.MaxErrors {
			report.Truncated = true
			break
		}
	}

	report.IsValid = report.ErrorCount == 0 && report.CriticalErrorCount == 0
	report.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("validation.rules_executed", len(report.Results)),
		attribute.Int("validation.errors", report.ErrorCount),
		attribute.Bool("validation.valid", report.IsValid),
		attribute.Bool("validation.truncated", report.Truncated),
	)
	return report
}

// ValidateCategory runs a pass restricted to one validation category.
func (e *Engine) ValidateCategory(ctx context.Context, u *unit.Unit, category rule.Category) *Report {
	return e.Validate(ctx, u, &rule.Options{Categories: []rule.Category{category}})
}

// ValidateRule probes a single rule by id across the full registry, not
// just the unit's resolved set. It returns nil for unknown ids. A known
// rule that is not applicable under the context yields a vacuous passing
// result rather than nil, distinguishing "nothing to report" from
// "explicit check failed".
func (e *Engine) ValidateRule(ctx context.Context, u *unit.Unit, ruleID string) *rule.Result {
	rr, ok := e.registry.ResolveRule(ruleID)
	if !ok {
		return nil
	}
	rctx := rule.NewContext(u, nil)
	if !rr.CanValidate(rctx) {
		result := rule.Pass(rr.ID)
		return &result
	}
	result := e.execute(rr, rctx)
	return &result
}

// execute runs one resolved rule, converting a panic into a synthetic
// failing result so the pass continues.
func (e *Engine) execute(rr *rule.Resolved, rctx *rule.Context) (result rule.Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			result = rule.Result{
				RuleID: rr.ID,
				Passed: false,
				Errors: []rule.Finding{{
					RuleID:   rr.ID,
					RuleName: rr.Name,
					Severity: rule.SeverityError,
					Category: rr.Category,
					Message:  panicPrefix + panicMessage(rec),
				}},
				Duration: time.Since(start),
			}
		}
	}()
	return rr.Execute(rctx)
}

func panicMessage(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
