package unit

import "fmt"

// Subtype identifies the specific unit construction type.
type Subtype string

const (
	// SubtypeBattleMech is a standard 20-100 ton BattleMech.
	SubtypeBattleMech Subtype = "battlemech"
	// SubtypeOmniMech is a pod-based OmniMech chassis.
	SubtypeOmniMech Subtype = "omnimech"
	// SubtypeSuperheavy is a superheavy 'Mech over 100 tons.
	SubtypeSuperheavy Subtype = "superheavy"
	// SubtypeCombatVehicle is a ground combat vehicle.
	SubtypeCombatVehicle Subtype = "combat_vehicle"
	// SubtypeBattleArmor is a battle armor squad element.
	SubtypeBattleArmor Subtype = "battle_armor"
	// SubtypeAerospaceFighter is an aerospace fighter.
	SubtypeAerospaceFighter Subtype = "aerospace_fighter"
)

// Category is the coarse classification shared by related subtypes.
type Category string

const (
	// CategoryMech groups all 'Mech subtypes.
	CategoryMech Category = "mech"
	// CategoryVehicle groups ground vehicle subtypes.
	CategoryVehicle Category = "vehicle"
	// CategoryInfantry groups infantry and battle armor subtypes.
	CategoryInfantry Category = "infantry"
	// CategoryAerospace groups aerospace subtypes.
	CategoryAerospace Category = "aerospace"
)

// TechBase identifies the technology base of a unit.
type TechBase string

const (
	// TechBaseInnerSphere is Inner Sphere technology.
	TechBaseInnerSphere TechBase = "inner_sphere"
	// TechBaseClan is Clan technology.
	TechBaseClan TechBase = "clan"
	// TechBaseMixed mixes Inner Sphere and Clan components.
	TechBaseMixed TechBase = "mixed"
)

// RulesLevel identifies the tournament legality tier of a unit.
type RulesLevel string

const (
	// RulesLevelIntroductory is introductory box-set technology.
	RulesLevelIntroductory RulesLevel = "introductory"
	// RulesLevelStandard is standard tournament-legal technology.
	RulesLevelStandard RulesLevel = "standard"
	// RulesLevelAdvanced is advanced rules technology.
	RulesLevelAdvanced RulesLevel = "advanced"
	// RulesLevelExperimental is experimental technology.
	RulesLevelExperimental RulesLevel = "experimental"
	// RulesLevelUnofficial is unofficial or house-rules technology.
	RulesLevelUnofficial RulesLevel = "unofficial"
)

// subtypeCategories maps each subtype to its coarse category.
var subtypeCategories = map[Subtype]Category{
	SubtypeBattleMech:       CategoryMech,
	SubtypeOmniMech:         CategoryMech,
	SubtypeSuperheavy:       CategoryMech,
	SubtypeCombatVehicle:    CategoryVehicle,
	SubtypeBattleArmor:      CategoryInfantry,
	SubtypeAerospaceFighter: CategoryAerospace,
}

// rulesLevelOrder ranks rules levels from most to least restrictive.
var rulesLevelOrder = map[RulesLevel]int{
	RulesLevelIntroductory: 0,
	RulesLevelStandard:     1,
	RulesLevelAdvanced:     2,
	RulesLevelExperimental: 3,
	RulesLevelUnofficial:   4,
}

// CategoryOf returns the coarse category for a subtype.
// Unknown subtypes map to the empty category.
func CategoryOf(subtype Subtype) Category {
	return subtypeCategories[subtype]
}

// ValidSubtype reports whether the subtype is a known construction type.
func ValidSubtype(subtype Subtype) bool {
	_, ok := subtypeCategories[subtype]
	return ok
}

// ValidTechBase reports whether the tech base is a known value.
func ValidTechBase(tb TechBase) bool {
	switch tb {
	case TechBaseInnerSphere, TechBaseClan, TechBaseMixed:
		return true
	}
	return false
}

// ValidRulesLevel reports whether the rules level is a known value.
func ValidRulesLevel(rl RulesLevel) bool {
	_, ok := rulesLevelOrder[rl]
	return ok
}

// RulesLevelRank returns the ordering rank for a rules level, lower being
// more restrictive. Unknown levels return an error.
func RulesLevelRank(rl RulesLevel) (int, error) {
	rank, ok := rulesLevelOrder[rl]
	if !ok {
		return 0, fmt.Errorf("unknown rules level: %q", rl)
	}
	return rank, nil
}

// WithinRulesLevel reports whether level is allowed under the given ceiling.
func WithinRulesLevel(level, ceiling RulesLevel) bool {
	levelRank, err := RulesLevelRank(level)
	if err != nil {
		return false
	}
	ceilingRank, err := RulesLevelRank(ceiling)
	if err != nil {
		return false
	}
	return levelRank <= ceilingRank
}
