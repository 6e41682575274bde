package rules

import (
	"fmt"
	"math"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// maxEngineRating is the largest legal fusion engine rating.
const maxEngineRating = 400

// RegisterConstruction installs engine and movement rules.
func RegisterConstruction(r *rule.Registry) error {
	if err := r.RegisterCategory(unit.CategoryMech, engineRequiredRule()); err != nil {
		return err
	}
	if err := r.RegisterCategory(unit.CategoryMech, engineRatingRule()); err != nil {
		return err
	}
	return r.RegisterCategory(unit.CategoryMech, walkSpeedRule())
}

// engineRequiredRule flags a design with no engine at all. This is the
// one critical-severity rule in the library: nothing else about the
// design is meaningful without an engine.
func engineRequiredRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "construction.engine-required",
		Name:        "Engine Required",
		Description: "Every 'Mech design requires an installed engine",
		Category:    rule.CategoryConstruction,
		Priority:    5,
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		if ctx.Unit.EngineRating > 0 {
			return rule.Pass(d.ID)
		}
		return rule.Fail(d, rule.SeverityCriticalError, "no engine installed")
	}
	return d
}

// engineRatingRule checks the engine rating bounds and increment.
func engineRatingRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "construction.engine-rating",
		Name:        "Engine Rating",
		Description: "Engine rating must be a multiple of 5 up to the legal maximum",
		Category:    rule.CategoryConstruction,
		Priority:    15,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Unit != nil && ctx.Unit.EngineRating > 0
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		rating := ctx.Unit.EngineRating
		if rating > maxEngineRating {
			return rule.Fail(d, rule.SeverityError,
				fmt.Sprintf("engine rating %d exceeds maximum %d", rating, maxEngineRating))
		}
		if rating%5 != 0 {
			return rule.Fail(d, rule.SeverityError,
				fmt.Sprintf("engine rating %d must be a multiple of 5", rating))
		}
		return rule.Pass(d.ID)
	}
	return d
}

// walkSpeedRule checks the declared walking MP against the engine
// rating and tonnage. Not applicable until both figures are declared.
func walkSpeedRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "construction.walk-speed",
		Name:        "Walking Speed",
		Description: "Walking MP must equal engine rating divided by tonnage",
		Category:    rule.CategoryConstruction,
		Priority:    25,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Unit != nil && ctx.Unit.WalkMP > 0 &&
			ctx.Unit.EngineRating > 0 && ctx.Unit.Tonnage > 0
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		expected := int(math.Floor(float64(ctx.Unit.EngineRating) / ctx.Unit.Tonnage))
		if ctx.Unit.WalkMP == expected {
			return rule.Pass(d.ID)
		}
		return rule.Fail(d, rule.SeverityError,
			fmt.Sprintf("walking MP %d does not match engine rating %d at %.0f tons (expected %d)",
				ctx.Unit.WalkMP, ctx.Unit.EngineRating, ctx.Unit.Tonnage, expected))
	}
	return d
}
