package rules

import (
	"fmt"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// tonnageRange bounds the declared tonnage for a subtype.
type tonnageRange struct {
	min, max float64
	// step is the required tonnage increment, zero for none.
	step float64
}

var tonnageRanges = map[unit.Subtype]tonnageRange{
	unit.SubtypeBattleMech:       {min: 20, max: 100, step: 5},
	unit.SubtypeOmniMech:         {min: 20, max: 100, step: 5},
	unit.SubtypeSuperheavy:       {min: 105, max: 200, step: 5},
	unit.SubtypeCombatVehicle:    {min: 1, max: 100},
	unit.SubtypeBattleArmor:      {min: 0.25, max: 2},
	unit.SubtypeAerospaceFighter: {min: 5, max: 100, step: 5},
}

// RegisterWeight installs tonnage accounting rules.
func RegisterWeight(r *rule.Registry) error {
	if err := r.RegisterUniversal(tonnageBoundsRule()); err != nil {
		return err
	}
	return r.RegisterUniversal(allocatedWeightRule())
}

// tonnageBoundsRule checks the declared tonnage against the legal range
// for the unit's subtype.
func tonnageBoundsRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "weight.tonnage-bounds",
		Name:        "Tonnage Bounds",
		Description: "Declared tonnage must fall in the legal range for the subtype",
		Category:    rule.CategoryWeight,
		Priority:    10,
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		bounds, ok := tonnageRanges[ctx.Subtype]
		if !ok {
			return rule.Fail(d, rule.SeverityError,
				fmt.Sprintf("no tonnage range defined for subtype %s", ctx.Subtype))
		}
		t := ctx.Unit.Tonnage
		if t < bounds.min || t > bounds.max {
			return rule.Fail(d, rule.SeverityError,
				fmt.Sprintf("tonnage %.2f outside legal range %.2f-%.2f for %s",
					t, bounds.min, bounds.max, ctx.Subtype))
		}
		if bounds.step > 0 {
			steps := t / bounds.step
			if steps != float64(int(steps)) {
				return rule.Fail(d, rule.SeverityError,
					fmt.Sprintf("tonnage %.2f must be a multiple of %.0f tons", t, bounds.step))
			}
		}
		return rule.Pass(d.ID)
	}
	return d
}

// allocatedWeightRule checks the running component weight against the
// declared maximum. It is not applicable until the customizer supplies
// an allocated total.
func allocatedWeightRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "weight.allocated",
		Name:        "Allocated Weight",
		Description: "Installed components must not exceed the declared tonnage",
		Category:    rule.CategoryWeight,
		Priority:    20,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Unit != nil && ctx.Unit.AllocatedTonnage != nil
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		allocated := *ctx.Unit.AllocatedTonnage
		max := ctx.Unit.Tonnage
		if allocated > max {
			return rule.Fail(d, rule.SeverityError,
				fmt.Sprintf("design is %.2f tons overweight (%.2f allocated, %.2f maximum)",
					allocated-max, allocated, max))
		}
		if allocated < max {
			return rule.Info(d,
				fmt.Sprintf("%.2f tons unallocated", max-allocated))
		}
		return rule.Pass(d.ID)
	}
	return d
}
