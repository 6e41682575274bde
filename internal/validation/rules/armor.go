package rules

import (
	"fmt"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// standardHeadArmorMax is the head armor cap for designs up to 100 tons.
const standardHeadArmorMax = 9

// superheavyHeadArmorMax is the head armor cap above 100 tons.
const superheavyHeadArmorMax = 12

// RegisterArmor installs armor allocation rules for 'Mech subtypes.
func RegisterArmor(r *rule.Registry) error {
	return r.RegisterCategory(unit.CategoryMech, armorMaxRule())
}

// armorMaxRule checks per-location armor against structural limits:
// twice internal structure everywhere except the head, which uses a
// flat cap. Not applicable until construction detail exists.
func armorMaxRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "armor.location-max",
		Name:        "Armor Location Maximum",
		Description: "Allocated armor must not exceed the location's structural limit",
		Category:    rule.CategoryArmor,
		Priority:    40,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Unit != nil && ctx.Unit.HasConstructionDetail()
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		result := rule.Pass(d.ID)
		index := locationIndex(ctx)
		for _, load := range ctx.Unit.Locations {
			max := armorMaxFor(ctx.Unit, load)
			if max <= 0 {
				continue
			}
			if load.ArmorPoints > max {
				result.Passed = false
				result.Errors = append(result.Errors, rule.Finding{
					RuleID:   d.ID,
					RuleName: d.Name,
					Severity: rule.SeverityError,
					Category: d.Category,
					Message: fmt.Sprintf("%s armor %d exceeds maximum %d",
						load.Location, load.ArmorPoints, max),
				})
			}
		}
		if head, ok := index[unit.LocationHead]; ok && head.ArmorPoints > 0 && head.ArmorPoints < 3 {
			result.Warnings = append(result.Warnings, rule.Finding{
				RuleID:   d.ID,
				RuleName: d.Name,
				Severity: rule.SeverityWarning,
				Category: d.Category,
				Message:  fmt.Sprintf("head armor %d leaves the cockpit exposed", head.ArmorPoints),
			})
		}
		return result
	}
	return d
}

// armorMaxFor resolves the armor cap for one location.
func armorMaxFor(u *unit.Unit, load unit.LocationLoad) int {
	if load.Location == unit.LocationHead {
		if u.Tonnage > 100 {
			return superheavyHeadArmorMax
		}
		return standardHeadArmorMax
	}
	if load.InternalStructure <= 0 {
		return 0
	}
	return load.InternalStructure * 2
}
