package rule

import (
	"errors"
	"testing"

	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
	"github.com/mechforge/mechforge/internal/unit"
)

func passingDef(id string, priority int) *Definition {
	return &Definition{
		ID:       id,
		Name:     id,
		Category: CategoryConstruction,
		Priority: priority,
		Validate: func(ctx *Context) Result { return Pass(id) },
	}
}

func resolvedIDs(rules []*Resolved) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRegisterRejectsDuplicateIDAcrossTiers(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("tonnage-max", 0)); err != nil {
		t.Fatalf("register universal: %v", err)
	}

	err := r.RegisterCategory(unit.CategoryMech, passingDef("tonnage-max", 0))
	if !errors.Is(err, ErrDuplicateRuleID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	err = r.RegisterSubtype(unit.SubtypeBattleMech, passingDef("tonnage-max", 0))
	if !errors.Is(err, ErrDuplicateRuleID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestRegisterValidatesDefinition(t *testing.T) {
	r := NewRegistry()

	if err := r.RegisterUniversal(&Definition{ID: "  ", Category: CategoryWeight, Validate: func(*Context) Result { return Pass("") }}); !errors.Is(err, ErrRuleIDRequired) {
		t.Fatalf("expected id required, got %v", err)
	}
	if err := r.RegisterUniversal(&Definition{ID: "no-validate", Category: CategoryWeight}); !errors.Is(err, ErrValidateRequired) {
		t.Fatalf("expected validate required, got %v", err)
	}
	if err := r.RegisterUniversal(&Definition{ID: "no-category", Validate: func(*Context) Result { return Pass("no-category") }}); !errors.Is(err, ErrCategoryRequired) {
		t.Fatalf("expected category required, got %v", err)
	}
}

func TestRegisterRejectsUnknownReferences(t *testing.T) {
	r := NewRegistry()

	over := passingDef("better-check", 0)
	over.Overrides = "missing-rule"
	if err := r.RegisterUniversal(over); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected unknown reference for overrides, got %v", err)
	}

	ext := passingDef("extra-check", 0)
	ext.Extends = "missing-rule"
	if err := r.RegisterUniversal(ext); !errors.Is(err, ErrUnknownReference) {
		t.Fatalf("expected unknown reference for extends, got %v", err)
	}
}

func TestRegisterRejectsExtendingAnExtension(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("base", 0)); err != nil {
		t.Fatalf("register base: %v", err)
	}
	first := passingDef("first-extension", 0)
	first.Extends = "base"
	if err := r.RegisterUniversal(first); err != nil {
		t.Fatalf("register extension: %v", err)
	}

	second := passingDef("second-extension", 0)
	second.Extends = "first-extension"
	if err := r.RegisterUniversal(second); !errors.Is(err, ErrExtendExtension) {
		t.Fatalf("expected extend-extension error, got %v", err)
	}
}

func TestOverrideSuppressesRuleEverywhere(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("basic-weight", 100)); err != nil {
		t.Fatalf("register: %v", err)
	}
	override := passingDef("advanced-weight", 20)
	override.Overrides = "basic-weight"
	if err := r.RegisterUniversal(override); err != nil {
		t.Fatalf("register override: %v", err)
	}

	for _, subtype := range []unit.Subtype{unit.SubtypeBattleMech, unit.SubtypeCombatVehicle} {
		ids := resolvedIDs(r.RulesForSubtype(subtype))
		if len(ids) != 1 || ids[0] != "advanced-weight" {
			t.Fatalf("subtype %s: expected [advanced-weight], got %v", subtype, ids)
		}
	}

	// The suppressed rule is gone from resolution but not from storage.
	if _, ok := r.Rule("basic-weight"); !ok {
		t.Fatal("expected overridden rule to remain retrievable")
	}
}

func TestExtendRunsBothUnderBaseID(t *testing.T) {
	r := NewRegistry()

	baseRan := false
	extensionRan := false

	base := &Definition{
		ID:       "armor-max",
		Name:     "Armor Maximum",
		Category: CategoryArmor,
		Validate: func(ctx *Context) Result {
			baseRan = true
			return Pass("armor-max")
		},
	}
	if err := r.RegisterUniversal(base); err != nil {
		t.Fatalf("register base: %v", err)
	}

	ext := &Definition{
		ID:       "armor-patchwork",
		Name:     "Patchwork Armor",
		Category: CategoryArmor,
		Extends:  "armor-max",
		Validate: func(ctx *Context) Result {
			extensionRan = true
			return Result{
				RuleID: "armor-patchwork",
				Passed: true,
				Warnings: []Finding{{
					RuleID:   "armor-max",
					Severity: SeverityWarning,
					Category: CategoryArmor,
					Message:  "patchwork armor is fragile",
				}},
			}
		},
	}
	if err := r.RegisterUniversal(ext); err != nil {
		t.Fatalf("register extension: %v", err)
	}

	rules := r.RulesForSubtype(unit.SubtypeBattleMech)
	ids := resolvedIDs(rules)
	if len(ids) != 1 || ids[0] != "armor-max" {
		t.Fatalf("expected resolved set [armor-max], got %v", ids)
	}

	result := rules[0].Execute(NewContext(nil, nil))
	if !baseRan || !extensionRan {
		t.Fatalf("expected both checks to run, base=%v extension=%v", baseRan, extensionRan)
	}
	if result.RuleID != "armor-max" {
		t.Fatalf("expected result under base id, got %q", result.RuleID)
	}
	if !result.Passed {
		t.Fatal("expected merged result to pass")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected extension warning merged, got %d warnings", len(result.Warnings))
	}
}

func TestResolvedOrderIsPriorityThenRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("third", 200)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterUniversal(passingDef("first", 10)); err != nil {
		t.Fatal(err)
	}
	// Zero priority falls back to the documented default of 100.
	if err := r.RegisterUniversal(passingDef("second-a", 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterUniversal(passingDef("second-b", 100)); err != nil {
		t.Fatal(err)
	}

	ids := resolvedIDs(r.RulesForSubtype(unit.SubtypeBattleMech))
	want := []string{"first", "second-a", "second-b", "third"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestTierRouting(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("universal", 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterCategory(unit.CategoryMech, passingDef("mech-only", 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSubtype(unit.SubtypeOmniMech, passingDef("omni-only", 0)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		subtype unit.Subtype
		want    []string
	}{
		{unit.SubtypeOmniMech, []string{"universal", "mech-only", "omni-only"}},
		{unit.SubtypeBattleMech, []string{"universal", "mech-only"}},
		{unit.SubtypeCombatVehicle, []string{"universal"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.subtype), func(t *testing.T) {
			ids := resolvedIDs(r.RulesForSubtype(tt.subtype))
			if len(ids) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, ids)
			}
			for i := range tt.want {
				if ids[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, ids)
				}
			}
		})
	}
}

func TestApplicableSubtypesNarrowsUniversalRule(t *testing.T) {
	r := NewRegistry()
	def := passingDef("mech-pair-only", 0)
	def.ApplicableSubtypes = []unit.Subtype{unit.SubtypeBattleMech, unit.SubtypeOmniMech}
	if err := r.RegisterUniversal(def); err != nil {
		t.Fatal(err)
	}

	if ids := resolvedIDs(r.RulesForSubtype(unit.SubtypeBattleMech)); len(ids) != 1 {
		t.Fatalf("expected rule for battlemech, got %v", ids)
	}
	if ids := resolvedIDs(r.RulesForSubtype(unit.SubtypeCombatVehicle)); len(ids) != 0 {
		t.Fatalf("expected no rules for vehicle, got %v", ids)
	}
}

func TestResolvedSliceIdentityAcrossMutations(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("stable", 0)); err != nil {
		t.Fatal(err)
	}

	first := r.RulesForSubtype(unit.SubtypeBattleMech)
	second := r.RulesForSubtype(unit.SubtypeBattleMech)
	if len(first) == 0 || &first[0] != &second[0] {
		t.Fatal("expected identical slice instance between mutations")
	}

	mutations := []struct {
		name   string
		mutate func()
	}{
		{"register", func() {
			if err := r.RegisterUniversal(passingDef("next", 0)); err != nil {
				t.Fatal(err)
			}
		}},
		{"disable", func() { r.Disable("stable") }},
		{"enable", func() { r.Enable("stable") }},
		{"unregister", func() { r.Unregister("next") }},
	}
	previous := second
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			m.mutate()
			next := r.RulesForSubtype(unit.SubtypeBattleMech)
			if len(next) > 0 && len(previous) > 0 && &next[0] == &previous[0] {
				t.Fatal("expected a new slice after mutation")
			}
			previous = next
		})
	}
}

func TestDisableKeepsRuleButBlocksCanValidate(t *testing.T) {
	r := NewRegistry()
	def := passingDef("slot-count", 0)
	def.CanValidate = func(ctx *Context) bool { return true }
	if err := r.RegisterUniversal(def); err != nil {
		t.Fatal(err)
	}

	r.Disable("slot-count")

	if _, ok := r.Rule("slot-count"); !ok {
		t.Fatal("expected disabled rule to remain retrievable")
	}
	if r.IsEnabled("slot-count") {
		t.Fatal("expected rule to report disabled")
	}

	rules := r.RulesForSubtype(unit.SubtypeBattleMech)
	if len(rules) != 1 {
		t.Fatalf("expected disabled rule in resolved set, got %d rules", len(rules))
	}
	if rules[0].CanValidate(NewContext(nil, nil)) {
		t.Fatal("expected CanValidate false while disabled")
	}

	r.Enable("slot-count")
	rules = r.RulesForSubtype(unit.SubtypeBattleMech)
	if !rules[0].CanValidate(NewContext(nil, nil)) {
		t.Fatal("expected CanValidate true after enable")
	}
}

func TestUnregisterUnknownIsNoOp(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("kept", 0)); err != nil {
		t.Fatal(err)
	}
	before := r.RulesForSubtype(unit.SubtypeBattleMech)
	r.Unregister("never-registered")
	after := r.RulesForSubtype(unit.SubtypeBattleMech)
	if &before[0] != &after[0] {
		t.Fatal("expected cache untouched by no-op unregister")
	}
}

func TestUnregisterBaseDropsDanglingExtension(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("base", 0)); err != nil {
		t.Fatal(err)
	}
	ext := passingDef("extension", 0)
	ext.Extends = "base"
	if err := r.RegisterUniversal(ext); err != nil {
		t.Fatal(err)
	}

	r.Unregister("base")
	if ids := resolvedIDs(r.RulesForSubtype(unit.SubtypeBattleMech)); len(ids) != 0 {
		t.Fatalf("expected empty resolved set, got %v", ids)
	}
}

func TestClearEmptiesAllTiers(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("a", 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterCategory(unit.CategoryMech, passingDef("b", 0)); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterSubtype(unit.SubtypeBattleMech, passingDef("c", 0)); err != nil {
		t.Fatal(err)
	}

	r.Clear()

	if ids := resolvedIDs(r.RulesForSubtype(unit.SubtypeBattleMech)); len(ids) != 0 {
		t.Fatalf("expected empty registry, got %v", ids)
	}
	if defs := r.ListDefinitions(); len(defs) != 0 {
		t.Fatalf("expected no definitions, got %d", len(defs))
	}
	// Ids are free for re-registration after a clear.
	if err := r.RegisterUniversal(passingDef("a", 0)); err != nil {
		t.Fatalf("re-register after clear: %v", err)
	}
}

func TestResolveRuleFoldsExtensions(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("base", 0)); err != nil {
		t.Fatal(err)
	}
	ran := false
	ext := passingDef("extension", 0)
	ext.Extends = "base"
	ext.Validate = func(ctx *Context) Result {
		ran = true
		return Pass("extension")
	}
	if err := r.RegisterUniversal(ext); err != nil {
		t.Fatal(err)
	}

	resolved, ok := r.ResolveRule("base")
	if !ok {
		t.Fatal("expected to resolve base rule")
	}
	resolved.Execute(NewContext(nil, nil))
	if !ran {
		t.Fatal("expected extension step to run in single-rule resolution")
	}

	if _, ok := r.ResolveRule("never-registered"); ok {
		t.Fatal("expected unknown id to not resolve")
	}
}

func TestRegisterErrorsCarryCodes(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("tonnage-max", 0)); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := r.RegisterUniversal(passingDef("tonnage-max", 0))
	var derr *apperrors.Error
	if !errors.As(err, &derr) {
		t.Fatalf("expected coded error, got %T: %v", err, err)
	}
	if derr.Code != apperrors.CodeRuleDuplicateID {
		t.Fatalf("expected code %s, got %s", apperrors.CodeRuleDuplicateID, derr.Code)
	}
	if derr.Metadata["RuleID"] != "tonnage-max" {
		t.Fatalf("expected rule id metadata, got %v", derr.Metadata)
	}

	over := passingDef("better-check", 0)
	over.Overrides = "missing-rule"
	err = r.RegisterUniversal(over)
	if !errors.As(err, &derr) || derr.Code != apperrors.CodeRuleUnknownReference {
		t.Fatalf("expected unknown reference code, got %v", err)
	}
	if derr.Metadata["Reference"] != "missing-rule" {
		t.Fatalf("expected reference metadata, got %v", derr.Metadata)
	}
}

func TestResolveRuleExcludesSuppressedExtensions(t *testing.T) {
	r := NewRegistry()
	if err := r.RegisterUniversal(passingDef("engine-check", 0)); err != nil {
		t.Fatalf("register base: %v", err)
	}

	ext := &Definition{
		ID:       "engine-check-extra",
		Name:     "engine-check-extra",
		Category: CategoryConstruction,
		Extends:  "engine-check",
		Validate: func(ctx *Context) Result {
			return Fail(&Definition{ID: "engine-check", Category: CategoryConstruction}, SeverityError, "extension ran")
		},
	}
	if err := r.RegisterUniversal(ext); err != nil {
		t.Fatalf("register extension: %v", err)
	}

	suppressor := passingDef("engine-check-replacement", 0)
	suppressor.Overrides = "engine-check-extra"
	if err := r.RegisterUniversal(suppressor); err != nil {
		t.Fatalf("register suppressor: %v", err)
	}

	rr, ok := r.ResolveRule("engine-check")
	if !ok {
		t.Fatal("expected rule to resolve")
	}
	result := rr.Execute(&Context{})
	if !result.Passed || len(result.Errors) != 0 {
		t.Fatalf("expected suppressed extension to be skipped, got %+v", result)
	}
}
