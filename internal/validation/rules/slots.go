package rules

import (
	"fmt"

	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/rule"
)

// locationIndexCacheKey memoizes the location lookup for one pass.
const locationIndexCacheKey = "rules.location-index"

// locationIndex returns the per-location detail map, building it once
// per pass through the context's scratch cache so the slot and armor
// rules share the work.
func locationIndex(ctx *rule.Context) map[unit.Location]unit.LocationLoad {
	if cached, ok := ctx.Cache[locationIndexCacheKey]; ok {
		if index, ok := cached.(map[unit.Location]unit.LocationLoad); ok {
			return index
		}
	}
	index := make(map[unit.Location]unit.LocationLoad, len(ctx.Unit.Locations))
	for _, load := range ctx.Unit.Locations {
		index[load.Location] = load
	}
	ctx.Cache[locationIndexCacheKey] = index
	return index
}

// RegisterSlots installs critical-slot rules for 'Mech subtypes.
func RegisterSlots(r *rule.Registry) error {
	return r.RegisterCategory(unit.CategoryMech, slotCapacityRule())
}

// slotCapacityRule checks per-location critical slot usage against the
// location's capacity. Not applicable until construction detail exists.
func slotCapacityRule() *rule.Definition {
	d := &rule.Definition{
		ID:          "slots.capacity",
		Name:        "Critical Slot Capacity",
		Description: "Occupied critical slots must fit the location's capacity",
		Category:    rule.CategorySlots,
		Priority:    30,
	}
	d.CanValidate = func(ctx *rule.Context) bool {
		return ctx.Unit != nil && ctx.Unit.HasConstructionDetail()
	}
	d.Validate = func(ctx *rule.Context) rule.Result {
		result := rule.Pass(d.ID)
		for _, load := range ctx.Unit.Locations {
			if load.SlotCapacity <= 0 {
				continue
			}
			if load.SlotsUsed > load.SlotCapacity {
				result.Passed = false
				result.Errors = append(result.Errors, rule.Finding{
					RuleID:   d.ID,
					RuleName: d.Name,
					Severity: rule.SeverityError,
					Category: d.Category,
					Message: fmt.Sprintf("%s uses %d of %d critical slots",
						load.Location, load.SlotsUsed, load.SlotCapacity),
				})
			}
		}
		return result
	}
	return d
}
