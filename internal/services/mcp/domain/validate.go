package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mechforge/mechforge/internal/archive"
	"github.com/mechforge/mechforge/internal/catalog"
	"github.com/mechforge/mechforge/internal/platform/timeouts"
	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/engine"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// FindingPayload is one finding on the wire.
type FindingPayload struct {
	RuleID   string `json:"rule_id" jsonschema:"rule that produced the finding"`
	RuleName string `json:"rule_name,omitempty" jsonschema:"human-readable rule name"`
	Severity string `json:"severity" jsonschema:"finding severity (INFO, WARNING, ERROR, CRITICAL_ERROR)"`
	Category string `json:"category" jsonschema:"rule category"`
	Message  string `json:"message" jsonschema:"finding message"`
}

// ResultPayload is one rule outcome on the wire.
type ResultPayload struct {
	RuleID     string           `json:"rule_id" jsonschema:"rule identifier"`
	Passed     bool             `json:"passed" jsonschema:"whether the rule passed"`
	Errors     []FindingPayload `json:"errors,omitempty" jsonschema:"error findings"`
	Warnings   []FindingPayload `json:"warnings,omitempty" jsonschema:"warning findings"`
	Infos      []FindingPayload `json:"infos,omitempty" jsonschema:"informational findings"`
	DurationMS int64            `json:"duration_ms" jsonschema:"rule execution time in milliseconds"`
}

// ReportPayload is a full validation report on the wire.
type ReportPayload struct {
	ID                 string          `json:"id" jsonschema:"report identifier"`
	UnitID             string          `json:"unit_id,omitempty" jsonschema:"validated unit identifier"`
	Subtype            string          `json:"subtype" jsonschema:"unit subtype"`
	Category           string          `json:"category" jsonschema:"unit category"`
	TechBase           string          `json:"tech_base" jsonschema:"technology base"`
	IsValid            bool            `json:"is_valid" jsonschema:"whether the unit passed validation"`
	ErrorCount         int             `json:"error_count" jsonschema:"total error findings"`
	WarningCount       int             `json:"warning_count" jsonschema:"total warning findings"`
	CriticalErrorCount int             `json:"critical_error_count" jsonschema:"total critical error findings"`
	Truncated          bool            `json:"truncated" jsonschema:"whether the pass stopped at the error cap"`
	DurationMS         int64           `json:"duration_ms" jsonschema:"total pass duration in milliseconds"`
	Results            []ResultPayload `json:"results" jsonschema:"per-rule outcomes"`
	GeneratedAt        string          `json:"generated_at" jsonschema:"RFC3339 timestamp of report generation"`
}

func findingsToPayload(findings []rule.Finding) []FindingPayload {
	if len(findings) == 0 {
		return nil
	}
	out := make([]FindingPayload, 0, len(findings))
	for _, f := range findings {
		out = append(out, FindingPayload{
			RuleID:   f.RuleID,
			RuleName: f.RuleName,
			Severity: string(f.Severity),
			Category: string(f.Category),
			Message:  f.Message,
		})
	}
	return out
}

func resultToPayload(r rule.Result) ResultPayload {
	return ResultPayload{
		RuleID:     r.RuleID,
		Passed:     r.Passed,
		Errors:     findingsToPayload(r.Errors),
		Warnings:   findingsToPayload(r.Warnings),
		Infos:      findingsToPayload(r.Infos),
		DurationMS: r.Duration.Milliseconds(),
	}
}

func reportToPayload(report *engine.Report) ReportPayload {
	out := ReportPayload{
		ID:                 report.ID,
		UnitID:             report.UnitID,
		Subtype:            string(report.Subtype),
		Category:           string(report.Category),
		TechBase:           string(report.TechBase),
		IsValid:            report.IsValid,
		ErrorCount:         report.ErrorCount,
		WarningCount:       report.WarningCount,
		CriticalErrorCount: report.CriticalErrorCount,
		Truncated:          report.Truncated,
		DurationMS:         report.Duration.Milliseconds(),
		GeneratedAt:        formatTimestamp(report.GeneratedAt),
	}
	for _, r := range report.Results {
		out.Results = append(out.Results, resultToPayload(r))
	}
	return out
}

// OptionsInput carries validation pass options on the wire.
type OptionsInput struct {
	SkipRules         []string `json:"skip_rules,omitempty" jsonschema:"rule ids to skip"`
	Categories        []string `json:"categories,omitempty" jsonschema:"restrict the pass to these categories"`
	MaxErrors         int      `json:"max_errors,omitempty" jsonschema:"stop the pass after this many errors (0 = unlimited)"`
	TargetYear        int      `json:"target_year,omitempty" jsonschema:"era availability reference year"`
	RulesLevelCeiling string   `json:"rules_level_ceiling,omitempty" jsonschema:"maximum allowed rules level"`
}

func (in OptionsInput) toOptions() *rule.Options {
	opts := &rule.Options{
		SkipRules:         in.SkipRules,
		MaxErrors:         in.MaxErrors,
		TargetYear:        in.TargetYear,
		RulesLevelCeiling: unit.RulesLevel(in.RulesLevelCeiling),
	}
	for _, c := range in.Categories {
		opts.Categories = append(opts.Categories, rule.Category(c))
	}
	return opts
}

// ValidateUnitInput represents the MCP tool input for validating a unit.
// Either an inline unit or the id of a stored unit must be provided.
type ValidateUnitInput struct {
	Unit    *UnitInput   `json:"unit,omitempty" jsonschema:"inline unit design to validate"`
	UnitID  string       `json:"unit_id,omitempty" jsonschema:"id of a stored unit to validate"`
	Options OptionsInput `json:"options,omitempty" jsonschema:"validation pass options"`
}

// ValidateUnitResult represents the MCP tool output for validating a unit.
type ValidateUnitResult struct {
	Report ReportPayload `json:"report" jsonschema:"validation report"`
}

// ValidateUnitTool defines the MCP tool schema for validating a unit.
func ValidateUnitTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_unit",
		Description: "Runs the full construction rule set against a unit design, inline or stored, and returns the validation report.",
	}
}

// ValidateUnitHandler executes a unit validation request. When a report
// archive is configured the resulting report is persisted before it is
// returned.
func ValidateUnitHandler(eng *engine.Engine, store catalog.Store, reports archive.Store) mcp.ToolHandlerFor[ValidateUnitInput, ValidateUnitResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ValidateUnitInput) (*mcp.CallToolResult, ValidateUnitResult, error) {
		var u unit.Unit
		switch {
		case input.Unit != nil:
			u = input.Unit.ToUnit()
		case strings.TrimSpace(input.UnitID) != "":
			if store == nil {
				return nil, ValidateUnitResult{}, fmt.Errorf("no catalog configured for stored unit lookup")
			}
			runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
			defer cancel()
			stored, err := store.GetUnit(runCtx, input.UnitID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return nil, ValidateUnitResult{}, fmt.Errorf("unit %s not found", input.UnitID)
				}
				return nil, ValidateUnitResult{}, toolError(fmt.Sprintf("load unit %s", input.UnitID), err)
			}
			u = stored
		default:
			return nil, ValidateUnitResult{}, fmt.Errorf("unit or unit_id is required")
		}

		report := eng.Validate(ctx, &u, input.Options.toOptions())
		if reports != nil {
			putCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
			defer cancel()
			if err := reports.PutReport(putCtx, report); err != nil {
				return nil, ValidateUnitResult{}, fmt.Errorf("archive report: %w", err)
			}
		}
		return nil, ValidateUnitResult{Report: reportToPayload(report)}, nil
	}
}

// ValidateRuleInput represents the MCP tool input for probing a single rule.
type ValidateRuleInput struct {
	RuleID string    `json:"rule_id" jsonschema:"rule identifier"`
	Unit   UnitInput `json:"unit" jsonschema:"unit design to probe"`
}

// ValidateRuleResult represents the MCP tool output for probing a single rule.
type ValidateRuleResult struct {
	Found  bool           `json:"found" jsonschema:"whether the rule exists"`
	Result *ResultPayload `json:"result,omitempty" jsonschema:"rule outcome"`
}

// ValidateRuleTool defines the MCP tool schema for probing a single rule.
func ValidateRuleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_rule",
		Description: "Runs one rule by id against a unit design. Rules that do not apply to the unit report a vacuous pass.",
	}
}

// ValidateRuleHandler executes a single-rule probe request.
func ValidateRuleHandler(eng *engine.Engine) mcp.ToolHandlerFor[ValidateRuleInput, ValidateRuleResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ValidateRuleInput) (*mcp.CallToolResult, ValidateRuleResult, error) {
		if strings.TrimSpace(input.RuleID) == "" {
			return nil, ValidateRuleResult{}, fmt.Errorf("rule_id is required")
		}

		u := input.Unit.ToUnit()
		result := eng.ValidateRule(ctx, &u, input.RuleID)
		if result == nil {
			return nil, ValidateRuleResult{Found: false}, nil
		}

		payload := resultToPayload(*result)
		return nil, ValidateRuleResult{Found: true, Result: &payload}, nil
	}
}

// RuleInfo describes one registered rule.
type RuleInfo struct {
	ID          string `json:"id" jsonschema:"rule identifier"`
	Name        string `json:"name" jsonschema:"human-readable name"`
	Description string `json:"description,omitempty" jsonschema:"what the rule checks"`
	Category    string `json:"category" jsonschema:"rule category"`
	Priority    int    `json:"priority" jsonschema:"execution priority (lower runs first)"`
	Enabled     bool   `json:"enabled" jsonschema:"whether the rule is enabled"`
}

// ListRulesInput represents the MCP tool input for listing rules.
type ListRulesInput struct {
	Subtype string `json:"subtype,omitempty" jsonschema:"restrict to rules resolved for this unit subtype"`
}

// ListRulesResult represents the MCP tool output for listing rules.
type ListRulesResult struct {
	Rules []RuleInfo `json:"rules" jsonschema:"registered rules"`
}

// ListRulesTool defines the MCP tool schema for listing rules.
func ListRulesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_rules",
		Description: "Lists registered validation rules, optionally resolved for one unit subtype in execution order.",
	}
}

// ListRulesHandler executes a rule listing request.
func ListRulesHandler(registry *rule.Registry) mcp.ToolHandlerFor[ListRulesInput, ListRulesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListRulesInput) (*mcp.CallToolResult, ListRulesResult, error) {
		result := ListRulesResult{}

		if subtype := strings.TrimSpace(input.Subtype); subtype != "" {
			if !unit.ValidSubtype(unit.Subtype(subtype)) {
				return nil, ListRulesResult{}, fmt.Errorf("unknown subtype %q", subtype)
			}
			for _, r := range registry.RulesForSubtype(unit.Subtype(subtype)) {
				result.Rules = append(result.Rules, RuleInfo{
					ID:          r.ID,
					Name:        r.Name,
					Description: r.Description,
					Category:    string(r.Category),
					Priority:    r.Priority,
					Enabled:     r.Enabled,
				})
			}
			return nil, result, nil
		}

		for _, d := range registry.ListDefinitions() {
			result.Rules = append(result.Rules, RuleInfo{
				ID:          d.ID,
				Name:        d.Name,
				Description: d.Description,
				Category:    string(d.Category),
				Priority:    d.Priority,
				Enabled:     registry.IsEnabled(d.ID),
			})
		}
		return nil, result, nil
	}
}

// formatTimestamp renders a time for tool results.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
