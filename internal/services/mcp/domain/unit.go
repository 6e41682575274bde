package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mechforge/mechforge/internal/catalog"
	"github.com/mechforge/mechforge/internal/platform/timeouts"
	"github.com/mechforge/mechforge/internal/unit"
)

// LocationInput is one location load in a unit payload.
type LocationInput struct {
	Location          string `json:"location" jsonschema:"location code (HD, CT, LT, RT, LA, RA, LL, RL)"`
	SlotsUsed         int    `json:"slots_used,omitempty" jsonschema:"critical slots occupied"`
	SlotCapacity      int    `json:"slot_capacity,omitempty" jsonschema:"critical slots available"`
	ArmorPoints       int    `json:"armor_points,omitempty" jsonschema:"armor points allocated"`
	InternalStructure int    `json:"internal_structure,omitempty" jsonschema:"internal structure points"`
}

// UnitInput is the wire representation of a unit design.
type UnitInput struct {
	ID               string          `json:"id" jsonschema:"unit identifier"`
	Chassis          string          `json:"chassis" jsonschema:"chassis name"`
	Variant          string          `json:"variant,omitempty" jsonschema:"variant designation"`
	Subtype          string          `json:"subtype" jsonschema:"unit subtype (battlemech, omnimech, superheavy, combat_vehicle, battle_armor, aerospace_fighter)"`
	TechBase         string          `json:"tech_base" jsonschema:"technology base (inner_sphere, clan, mixed)"`
	RulesLevel       string          `json:"rules_level" jsonschema:"rules level (introductory, standard, advanced, experimental, unofficial)"`
	Tonnage          float64         `json:"tonnage" jsonschema:"declared tonnage"`
	EngineRating     int             `json:"engine_rating,omitempty" jsonschema:"engine rating"`
	WalkMP           int             `json:"walk_mp,omitempty" jsonschema:"walking movement points"`
	IntroductionYear int             `json:"introduction_year,omitempty" jsonschema:"year the design was introduced"`
	AllocatedTonnage *float64        `json:"allocated_tonnage,omitempty" jsonschema:"tonnage consumed by installed equipment"`
	Locations        []LocationInput `json:"locations,omitempty" jsonschema:"per-location loadout"`
}

// ToUnit converts the wire payload to the domain unit.
func (in UnitInput) ToUnit() unit.Unit {
	u := unit.Unit{
		ID:               strings.TrimSpace(in.ID),
		Chassis:          strings.TrimSpace(in.Chassis),
		Variant:          strings.TrimSpace(in.Variant),
		Subtype:          unit.Subtype(in.Subtype),
		TechBase:         unit.TechBase(in.TechBase),
		RulesLevel:       unit.RulesLevel(in.RulesLevel),
		Tonnage:          in.Tonnage,
		EngineRating:     in.EngineRating,
		WalkMP:           in.WalkMP,
		IntroductionYear: in.IntroductionYear,
		AllocatedTonnage: in.AllocatedTonnage,
	}
	for _, loc := range in.Locations {
		u.Locations = append(u.Locations, unit.LocationLoad{
			Location:          unit.Location(loc.Location),
			SlotsUsed:         loc.SlotsUsed,
			SlotCapacity:      loc.SlotCapacity,
			ArmorPoints:       loc.ArmorPoints,
			InternalStructure: loc.InternalStructure,
		})
	}
	return u
}

// FromUnit converts a domain unit to the wire payload.
func FromUnit(u unit.Unit) UnitInput {
	out := UnitInput{
		ID:               u.ID,
		Chassis:          u.Chassis,
		Variant:          u.Variant,
		Subtype:          string(u.Subtype),
		TechBase:         string(u.TechBase),
		RulesLevel:       string(u.RulesLevel),
		Tonnage:          u.Tonnage,
		EngineRating:     u.EngineRating,
		WalkMP:           u.WalkMP,
		IntroductionYear: u.IntroductionYear,
		AllocatedTonnage: u.AllocatedTonnage,
	}
	for _, loc := range u.Locations {
		out.Locations = append(out.Locations, LocationInput{
			Location:          string(loc.Location),
			SlotsUsed:         loc.SlotsUsed,
			SlotCapacity:      loc.SlotCapacity,
			ArmorPoints:       loc.ArmorPoints,
			InternalStructure: loc.InternalStructure,
		})
	}
	return out
}

// UnitPutInput represents the MCP tool input for storing a unit.
type UnitPutInput struct {
	Unit UnitInput `json:"unit" jsonschema:"unit design to store"`
}

// UnitPutResult represents the MCP tool output for storing a unit.
type UnitPutResult struct {
	ID string `json:"id" jsonschema:"stored unit identifier"`
}

// UnitPutTool defines the MCP tool schema for storing a unit.
func UnitPutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "unit_put",
		Description: "Stores a unit design in the catalog, replacing any existing design with the same id.",
	}
}

// UnitPutHandler executes a unit store request.
func UnitPutHandler(store catalog.Store) mcp.ToolHandlerFor[UnitPutInput, UnitPutResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitPutInput) (*mcp.CallToolResult, UnitPutResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()

		u := input.Unit.ToUnit()
		if err := store.PutUnit(runCtx, u); err != nil {
			return nil, UnitPutResult{}, toolError("unit put failed", err)
		}
		return nil, UnitPutResult{ID: u.ID}, nil
	}
}

// UnitGetInput represents the MCP tool input for fetching a unit.
type UnitGetInput struct {
	ID string `json:"id" jsonschema:"unit identifier"`
}

// UnitGetResult represents the MCP tool output for fetching a unit.
type UnitGetResult struct {
	Found bool       `json:"found" jsonschema:"whether the unit exists"`
	Unit  *UnitInput `json:"unit,omitempty" jsonschema:"stored unit design"`
}

// UnitGetTool defines the MCP tool schema for fetching a unit.
func UnitGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "unit_get",
		Description: "Fetches a stored unit design by id.",
	}
}

// UnitGetHandler executes a unit fetch request.
func UnitGetHandler(store catalog.Store) mcp.ToolHandlerFor[UnitGetInput, UnitGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitGetInput) (*mcp.CallToolResult, UnitGetResult, error) {
		if strings.TrimSpace(input.ID) == "" {
			return nil, UnitGetResult{}, fmt.Errorf("id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()

		u, err := store.GetUnit(runCtx, input.ID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, UnitGetResult{Found: false}, nil
			}
			return nil, UnitGetResult{}, toolError("unit get failed", err)
		}

		payload := FromUnit(u)
		return nil, UnitGetResult{Found: true, Unit: &payload}, nil
	}
}

// UnitListInput represents the MCP tool input for listing units.
type UnitListInput struct {
	Filter     string `json:"filter,omitempty" jsonschema:"AIP-160 filter over chassis, variant, subtype, tech_base, rules_level, tonnage, intro_year"`
	PageSize   int    `json:"page_size,omitempty" jsonschema:"maximum units per page"`
	PageToken  string `json:"page_token,omitempty" jsonschema:"token from a previous page"`
	Descending bool   `json:"descending,omitempty" jsonschema:"reverse the insertion-order sort"`
}

// UnitListResult represents the MCP tool output for listing units.
type UnitListResult struct {
	Units         []UnitInput `json:"units" jsonschema:"one page of unit designs"`
	NextPageToken string      `json:"next_page_token,omitempty" jsonschema:"token for the following page"`
	PrevPageToken string      `json:"prev_page_token,omitempty" jsonschema:"token for the preceding page"`
	TotalSize     int         `json:"total_size" jsonschema:"total units matching the filter"`
}

// UnitListTool defines the MCP tool schema for listing units.
func UnitListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "unit_list",
		Description: "Lists stored unit designs with optional AIP-160 filtering and cursor pagination.",
	}
}

// UnitListHandler executes a unit list request.
func UnitListHandler(store catalog.Store) mcp.ToolHandlerFor[UnitListInput, UnitListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitListInput) (*mcp.CallToolResult, UnitListResult, error) {
		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()

		page, err := store.ListUnits(runCtx, catalog.ListUnitsRequest{
			Filter:     input.Filter,
			PageSize:   input.PageSize,
			PageToken:  input.PageToken,
			Descending: input.Descending,
		})
		if err != nil {
			return nil, UnitListResult{}, toolError("unit list failed", err)
		}

		result := UnitListResult{
			Units:         make([]UnitInput, 0, len(page.Units)),
			NextPageToken: page.NextPageToken,
			PrevPageToken: page.PrevPageToken,
			TotalSize:     page.TotalSize,
		}
		for _, u := range page.Units {
			result.Units = append(result.Units, FromUnit(u))
		}
		return nil, result, nil
	}
}

// UnitDeleteInput represents the MCP tool input for deleting a unit.
type UnitDeleteInput struct {
	ID string `json:"id" jsonschema:"unit identifier"`
}

// UnitDeleteResult represents the MCP tool output for deleting a unit.
type UnitDeleteResult struct {
	Deleted bool `json:"deleted" jsonschema:"whether a unit was removed"`
}

// UnitDeleteTool defines the MCP tool schema for deleting a unit.
func UnitDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "unit_delete",
		Description: "Removes a stored unit design by id.",
	}
}

// UnitDeleteHandler executes a unit delete request.
func UnitDeleteHandler(store catalog.Store) mcp.ToolHandlerFor[UnitDeleteInput, UnitDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnitDeleteInput) (*mcp.CallToolResult, UnitDeleteResult, error) {
		if strings.TrimSpace(input.ID) == "" {
			return nil, UnitDeleteResult{}, fmt.Errorf("id is required")
		}

		runCtx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
		defer cancel()

		if err := store.DeleteUnit(runCtx, input.ID); err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, UnitDeleteResult{Deleted: false}, nil
			}
			return nil, UnitDeleteResult{}, toolError("unit delete failed", err)
		}
		return nil, UnitDeleteResult{Deleted: true}, nil
	}
}
