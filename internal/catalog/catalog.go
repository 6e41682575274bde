package catalog

import (
	"context"

	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
	"github.com/mechforge/mechforge/internal/unit"
)

// ErrNotFound indicates the requested unit is missing from the catalog.
var ErrNotFound = apperrors.New(apperrors.CodeUnitNotFound, "unit not found")

// ErrInvalidPageToken indicates a malformed or stale pagination token.
var ErrInvalidPageToken = apperrors.New(apperrors.CodePageTokenInvalid, "invalid page token")

// DefaultPageSize bounds list queries when the caller does not set one.
const DefaultPageSize = 50

// MaxPageSize is the hard ceiling on a single list page.
const MaxPageSize = 500

// ListUnitsRequest describes a filtered, paginated catalog query.
type ListUnitsRequest struct {
	// Filter is an AIP-160 expression over unit fields
	// (chassis, variant, subtype, tech_base, rules_level, tonnage, intro_year).
	Filter string
	// PageSize caps the number of units returned. Zero means DefaultPageSize.
	PageSize int
	// PageToken resumes a prior query. Must carry the same filter.
	PageToken string
	// Descending reverses the insertion-order sort.
	Descending bool
}

// ListUnitsResult is one page of catalog units.
type ListUnitsResult struct {
	Units         []unit.Unit
	NextPageToken string
	PrevPageToken string
	TotalSize     int
}

// Store persists unit designs.
type Store interface {
	// PutUnit inserts or replaces a unit by id.
	PutUnit(ctx context.Context, u unit.Unit) error
	// GetUnit fetches a unit by id. Returns ErrNotFound when missing.
	GetUnit(ctx context.Context, id string) (unit.Unit, error)
	// DeleteUnit removes a unit by id. Returns ErrNotFound when missing.
	DeleteUnit(ctx context.Context, id string) error
	// ListUnits returns one page of units matching the request.
	ListUnits(ctx context.Context, req ListUnitsRequest) (ListUnitsResult, error)
	// Close releases the underlying storage handle.
	Close() error
}
