package rule

import (
	"testing"

	"github.com/mechforge/mechforge/internal/unit"
)

func TestResultHelpers(t *testing.T) {
	def := &Definition{ID: "weight-check", Name: "Weight Check", Category: CategoryWeight}

	t.Run("pass", func(t *testing.T) {
		res := Pass("weight-check")
		if !res.Passed || res.ErrorCount() != 0 {
			t.Fatalf("expected clean pass, got %+v", res)
		}
	})

	t.Run("fail", func(t *testing.T) {
		res := Fail(def, SeverityError, "overweight by 2.5 tons")
		if res.Passed {
			t.Fatal("expected failing result")
		}
		if res.ErrorCount() != 1 || res.CriticalErrorCount() != 0 {
			t.Fatalf("expected one plain error, got %+v", res)
		}
		f := res.Errors[0]
		if f.RuleID != "weight-check" || f.RuleName != "Weight Check" || f.Category != CategoryWeight {
			t.Fatalf("finding not attributed to rule: %+v", f)
		}
	})

	t.Run("critical counts in both tallies", func(t *testing.T) {
		res := Fail(def, SeverityCriticalError, "no engine installed")
		if res.ErrorCount() != 1 || res.CriticalErrorCount() != 1 {
			t.Fatalf("expected critical to count twice, got errors=%d critical=%d",
				res.ErrorCount(), res.CriticalErrorCount())
		}
	})

	t.Run("warn and info still pass", func(t *testing.T) {
		if res := Warn(def, "armor below maximum"); !res.Passed || len(res.Warnings) != 1 {
			t.Fatalf("expected passing warning result, got %+v", res)
		}
		if res := Info(def, "design uses standard components"); !res.Passed || len(res.Infos) != 1 {
			t.Fatalf("expected passing info result, got %+v", res)
		}
	})
}

func TestNewContextResolvesClassification(t *testing.T) {
	u := &unit.Unit{
		ID:         "shadow-hawk",
		Chassis:    "Shadow Hawk",
		Subtype:    unit.SubtypeBattleMech,
		TechBase:   unit.TechBaseInnerSphere,
		RulesLevel: unit.RulesLevelStandard,
		Tonnage:    55,
	}
	ctx := NewContext(u, nil)

	if ctx.Subtype != unit.SubtypeBattleMech {
		t.Fatalf("expected subtype resolved, got %q", ctx.Subtype)
	}
	if ctx.Category != unit.CategoryMech {
		t.Fatalf("expected category resolved, got %q", ctx.Category)
	}
	if ctx.Options == nil {
		t.Fatal("expected non-nil options")
	}
	if ctx.Cache == nil {
		t.Fatal("expected scratch cache")
	}

	// The scratch cache is shared within a pass.
	ctx.Cache["engine-weight"] = 11.5
	if got := ctx.Cache["engine-weight"]; got != 11.5 {
		t.Fatalf("expected cached value, got %v", got)
	}
}

func TestOptionsFilters(t *testing.T) {
	opts := &Options{
		SkipRules:  []string{"armor-max"},
		Categories: []Category{CategoryWeight, CategoryTech},
	}

	if !opts.SkipsRule("armor-max") || opts.SkipsRule("weight-max") {
		t.Fatal("skip list mismatch")
	}
	if !opts.KeepsCategory(CategoryWeight) || opts.KeepsCategory(CategoryArmor) {
		t.Fatal("category filter mismatch")
	}

	var nilOpts *Options
	if nilOpts.SkipsRule("anything") {
		t.Fatal("nil options should skip nothing")
	}
	if !nilOpts.KeepsCategory(CategoryArmor) {
		t.Fatal("nil options should keep everything")
	}
}

func TestFailRoutesFindingsBySeverity(t *testing.T) {
	def := &Definition{ID: "weight.allocated", Name: "Allocated Weight", Category: CategoryWeight}

	critical := Fail(def, SeverityCriticalError, "over maximum tonnage")
	if critical.Passed || len(critical.Errors) != 1 {
		t.Fatalf("expected failing critical result, got %+v", critical)
	}
	if critical.CriticalErrorCount() != 1 {
		t.Fatalf("expected 1 critical, got %d", critical.CriticalErrorCount())
	}

	warning := Fail(def, SeverityWarning, "close to maximum tonnage")
	if !warning.Passed {
		t.Fatalf("expected warning-severity result to pass, got %+v", warning)
	}
	if warning.ErrorCount() != 0 || len(warning.Warnings) != 1 {
		t.Fatalf("expected warning finding only, got %+v", warning)
	}

	info := Fail(def, SeverityInfo, "tonnage remaining")
	if !info.Passed || len(info.Infos) != 1 || info.ErrorCount() != 0 {
		t.Fatalf("expected info finding only, got %+v", info)
	}
}
