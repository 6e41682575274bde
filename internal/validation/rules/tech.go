package rules

import (
	"fmt"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// RegisterTech installs tech-base, rules-level, and era rules.
func RegisterTech(r *rule.Registry) error {
	if err := r.RegisterUniversal(mixedTechRule()); err != nil {
		return err
	}
	if err := r.RegisterUniversal(rulesLevelCeilingRule()); err != nil {
		return err
	}
	return r.RegisterUniversal(eraAvailabilityRule())
}

// mixedTechRule requires advanced rules for mixed-tech designs.
func mixedTechRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "tech.mixed-base",
		Name:        "Mixed Tech Base",
		Description: "Mixed Inner Sphere and Clan technology requires advanced rules",
		Category:    rule.CategoryTech,
		Priority:    50,
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		if ctx.TechBase != unit.TechBaseMixed {
			return rule.Pass(d.ID)
		}
		if unit.WithinRulesLevel(unit.RulesLevelAdvanced, ctx.RulesLevel) {
			return rule.Pass(d.ID)
		}
		return rule.Fail(d, rule.SeverityError,
			fmt.Sprintf("mixed tech base requires %s rules or above, design declares %s",
				unit.RulesLevelAdvanced, ctx.RulesLevel))
	}
	return d
}

// rulesLevelCeilingRule enforces the caller's rules-level ceiling. Not
// applicable unless the caller supplied one.
func rulesLevelCeilingRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "tech.rules-level-ceiling",
		Name:        "Rules Level Ceiling",
		Description: "Design rules level must not exceed the caller's ceiling",
		Category:    rule.CategoryTech,
		Priority:    55,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Options != nil && ctx.Options.RulesLevelCeiling != ""
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		ceiling := ctx.Options.RulesLevelCeiling
		if unit.WithinRulesLevel(ctx.RulesLevel, ceiling) {
			return rule.Pass(d.ID)
		}
		return rule.Fail(d, rule.SeverityError,
			fmt.Sprintf("rules level %s exceeds the %s ceiling", ctx.RulesLevel, ceiling))
	}
	return d
}

// eraAvailabilityRule checks the design's introduction year against the
// caller's target campaign year. Not applicable without both years.
func eraAvailabilityRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "tech.era-availability",
		Name:        "Era Availability",
		Description: "Design must be available in the target campaign year",
		Category:    rule.CategoryTech,
		Priority:    60,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Options != nil && ctx.Options.TargetYear > 0 &&
			ctx.Unit != nil && ctx.Unit.IntroductionYear > 0
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		intro := ctx.Unit.IntroductionYear
		target := ctx.Options.TargetYear
		if intro <= target {
			return rule.Pass(d.ID)
		}
		return rule.Fail(d, rule.SeverityError,
			fmt.Sprintf("design introduced in %d is not available in %d", intro, target))
	}
	return d
}
