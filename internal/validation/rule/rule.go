package rule

import (
	"time"

	"github.com/mechforge/mechforge/internal/unit"
)

// DefaultPriority is the priority assigned when a definition omits one.
// Lower priorities run first.
const DefaultPriority = 100

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityInfo is advisory output with no legality impact.
	SeverityInfo Severity = "INFO"
	// SeverityWarning flags questionable but legal construction.
	SeverityWarning Severity = "WARNING"
	// SeverityError flags an illegal construction choice.
	SeverityError Severity = "ERROR"
	// SeverityCriticalError flags a violation that invalidates the
	// design outright, counted separately from ordinary errors.
	SeverityCriticalError Severity = "CRITICAL_ERROR"
)

// Category groups rules by the construction concern they check.
type Category string

const (
	// CategoryWeight covers tonnage accounting rules.
	CategoryWeight Category = "weight"
	// CategorySlots covers critical-slot allocation rules.
	CategorySlots Category = "slots"
	// CategoryArmor covers armor allocation rules.
	CategoryArmor Category = "armor"
	// CategoryConstruction covers component and movement rules.
	CategoryConstruction Category = "construction"
	// CategoryTech covers tech-base, rules-level, and era rules.
	CategoryTech Category = "tech"
)

// CanValidateFunc is the optional per-context applicability predicate.
type CanValidateFunc func(*Context) bool

// ValidateFunc performs the check itself. It must be a pure function of
// the context plus the pass-scoped cache.
type ValidateFunc func(*Context) Result

// Definition describes one construction rule. Definitions are immutable
// after registration; the enabled flag lives in the registry.
type Definition struct {
	// ID uniquely identifies the rule across the whole registry.
	ID string
	// Name is the human-readable rule name.
	Name string
	// Description explains what the rule checks.
	Description string
	// Category groups the rule for filtering and reporting.
	Category Category
	// Priority orders execution, lower first. Zero means
	// DefaultPriority.
	Priority int
	// ApplicableSubtypes optionally narrows the rule to an explicit
	// subtype allow-list. Empty means the rule applies wherever it was
	// registered.
	ApplicableSubtypes []unit.Subtype
	// Overrides names a rule id this rule suppresses: the referenced
	// rule is removed from the effective set for every subtype it
	// would otherwise apply to.
	Overrides string
	// Extends names a rule id this rule chains onto: both checks run
	// under the base rule's id, priority, and applicability.
	Extends string
	// CanValidate optionally gates the rule per context. Nil means
	// always applicable (subject to ApplicableSubtypes).
	CanValidate CanValidateFunc
	// Validate performs the check.
	Validate ValidateFunc
}

// effectivePriority resolves the zero-value priority default.
func (d *Definition) effectivePriority() int {
	if d.Priority == 0 {
		return DefaultPriority
	}
	return d.Priority
}

// appliesTo reports whether the allow-list admits the subtype.
func (d *Definition) appliesTo(subtype unit.Subtype) bool {
	if len(d.ApplicableSubtypes) == 0 {
		return true
	}
	for _, st := range d.ApplicableSubtypes {
		if st == subtype {
			return true
		}
	}
	return false
}

// Finding is one message produced by a rule.
type Finding struct {
	RuleID   string   `json:"rule_id"`
	RuleName string   `json:"rule_name"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Result is the outcome of executing one resolved rule.
type Result struct {
	RuleID   string        `json:"rule_id"`
	Passed   bool          `json:"passed"`
	Errors   []Finding     `json:"errors,omitempty"`
	Warnings []Finding     `json:"warnings,omitempty"`
	Infos    []Finding     `json:"infos,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ErrorCount counts error-severity findings, critical included.
func (r Result) ErrorCount() int {
	return len(r.Errors)
}

// CriticalErrorCount counts only critical-severity findings.
func (r Result) CriticalErrorCount() int {
	n := 0
	for _, f := range r.Errors {
		if f.Severity == SeverityCriticalError {
			n++
		}
	}
	return n
}

// Pass returns a passing result for the rule id.
func Pass(ruleID string) Result {
	return Result{RuleID: ruleID, Passed: true}
}

// Fail returns a result carrying a single finding routed by severity.
// Error and critical severities mark the result failed; warning and
// info severities delegate to Warn and Info so they never inflate the
// error counts.
func Fail(d *Definition, severity Severity, message string) Result {
	switch severity {
	case SeverityWarning:
		return Warn(d, message)
	case SeverityInfo:
		return Info(d, message)
	}
	return Result{
		RuleID: d.ID,
		Errors: []Finding{{
			RuleID:   d.ID,
			RuleName: d.Name,
			Severity: severity,
			Category: d.Category,
			Message:  message,
		}},
	}
}

// Warn returns a passing result carrying a single warning finding.
func Warn(d *Definition, message string) Result {
	return Result{
		RuleID: d.ID,
		Passed: true,
		Warnings: []Finding{{
			RuleID:   d.ID,
			RuleName: d.Name,
			Severity: SeverityWarning,
			Category: d.Category,
			Message:  message,
		}},
	}
}

// Info returns a passing result carrying a single info finding.
func Info(d *Definition, message string) Result {
	return Result{
		RuleID: d.ID,
		Passed: true,
		Infos: []Finding{{
			RuleID:   d.ID,
			RuleName: d.Name,
			Severity: SeverityInfo,
			Category: d.Category,
			Message:  message,
		}},
	}
}
