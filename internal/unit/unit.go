package unit

import (
	"strings"

	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
)

var (
	// ErrIDRequired indicates a missing unit id.
	ErrIDRequired = apperrors.New(apperrors.CodeUnitIDRequired, "unit id is required")
	// ErrChassisRequired indicates a missing chassis name.
	ErrChassisRequired = apperrors.New(apperrors.CodeUnitChassisRequired, "unit chassis is required")
	// ErrSubtypeInvalid indicates an unknown subtype.
	ErrSubtypeInvalid = apperrors.New(apperrors.CodeUnitUnknownSubtype, "unit subtype is invalid")
	// ErrTechBaseInvalid indicates an unknown tech base.
	ErrTechBaseInvalid = apperrors.New(apperrors.CodeUnitUnknownTechBase, "unit tech base is invalid")
	// ErrRulesLevelInvalid indicates an unknown rules level.
	ErrRulesLevelInvalid = apperrors.New(apperrors.CodeUnitUnknownRulesLevel, "unit rules level is invalid")
)

// Location identifies an armor/structure location on a unit.
type Location string

const (
	LocationHead        Location = "HD"
	LocationCenterTorso Location = "CT"
	LocationLeftTorso   Location = "LT"
	LocationRightTorso  Location = "RT"
	LocationLeftArm     Location = "LA"
	LocationRightArm    Location = "RA"
	LocationLeftLeg     Location = "LL"
	LocationRightLeg    Location = "RL"
)

// LocationLoad carries optional per-location construction detail.
//
// The customizer layer fills these in as the design progresses; a nil or
// empty Locations slice on the Unit means the detail has not been
// supplied yet.
type LocationLoad struct {
	Location Location `json:"location"`
	// SlotsUsed is the number of occupied critical slots.
	SlotsUsed int `json:"slots_used"`
	// SlotCapacity is the number of critical slots the location offers.
	SlotCapacity int `json:"slot_capacity"`
	// ArmorPoints is the armor allocated to the location.
	ArmorPoints int `json:"armor_points"`
	// InternalStructure is the location's internal structure points.
	InternalStructure int `json:"internal_structure"`
}

// Unit is the validatable entity: a candidate combat-unit design.
type Unit struct {
	ID         string     `json:"id"`
	Chassis    string     `json:"chassis"`
	Variant    string     `json:"variant,omitempty"`
	Subtype    Subtype    `json:"subtype"`
	TechBase   TechBase   `json:"tech_base"`
	RulesLevel RulesLevel `json:"rules_level"`

	// Tonnage is the declared maximum tonnage of the design.
	Tonnage float64 `json:"tonnage"`
	// EngineRating is the fusion engine rating, zero when unset.
	EngineRating int `json:"engine_rating,omitempty"`
	// WalkMP is the declared walking movement points.
	WalkMP int `json:"walk_mp,omitempty"`
	// IntroductionYear is the earliest in-universe availability year.
	IntroductionYear int `json:"introduction_year,omitempty"`

	// AllocatedTonnage is the running weight total of installed
	// components. Nil until the customizer supplies it.
	AllocatedTonnage *float64 `json:"allocated_tonnage,omitempty"`

	// Locations holds optional per-location slot and armor detail.
	Locations []LocationLoad `json:"locations,omitempty"`
}

// Category returns the coarse category derived from the unit's subtype.
func (u *Unit) Category() Category {
	if u == nil {
		return ""
	}
	return CategoryOf(u.Subtype)
}

// Location returns the load detail for a location, if supplied.
func (u *Unit) Location(loc Location) (LocationLoad, bool) {
	if u == nil {
		return LocationLoad{}, false
	}
	for _, l := range u.Locations {
		if l.Location == loc {
			return l, true
		}
	}
	return LocationLoad{}, false
}

// HasConstructionDetail reports whether per-location detail is present.
func (u *Unit) HasConstructionDetail() bool {
	return u != nil && len(u.Locations) > 0
}

// Validate normalizes identity fields and checks classification enums.
// It guards the engine boundary; construction legality is the rule
// library's job, not this method's.
func (u *Unit) Validate() error {
	if u == nil {
		return ErrIDRequired
	}
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return ErrIDRequired
	}
	u.Chassis = strings.TrimSpace(u.Chassis)
	if u.Chassis == "" {
		return ErrChassisRequired
	}
	if !ValidSubtype(u.Subtype) {
		return ErrSubtypeInvalid
	}
	if !ValidTechBase(u.TechBase) {
		return ErrTechBaseInvalid
	}
	if !ValidRulesLevel(u.RulesLevel) {
		return ErrRulesLevelInvalid
	}
	return nil
}
