// Package archive defines persistence for validation reports.
//
// Reports are archived after a full validation pass so agents and
// operators can revisit past results for a unit design. Implementations
// live in subpackages.
package archive

import (
	"context"
	"errors"

	"github.com/mechforge/mechforge/internal/validation/engine"
)

// ErrNotFound indicates a requested report is missing.
var ErrNotFound = errors.New("report not found")

// Store persists validation reports.
type Store interface {
	PutReport(ctx context.Context, report *engine.Report) error
	GetReport(ctx context.Context, id string) (*engine.Report, error)
	ListReportsByUnit(ctx context.Context, unitID string) ([]*engine.Report, error)
	Close() error
}
