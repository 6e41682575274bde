package bbolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mechforge/mechforge/internal/archive"
	"github.com/mechforge/mechforge/internal/unit"
	"github.com/mechforge/mechforge/internal/validation/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close archive: %v", err)
		}
	})
	return store
}

func testReport(id, unitID string, valid bool) *engine.Report {
	return &engine.Report{
		ID:          id,
		UnitID:      unitID,
		Subtype:     unit.SubtypeBattleMech,
		Category:    unit.CategoryMech,
		TechBase:    unit.TechBaseInnerSphere,
		IsValid:     valid,
		GeneratedAt: time.Now().UTC(),
	}
}

func TestPutGetReport(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	report := testReport("rep-1", "mad-3r", true)
	if err := store.PutReport(ctx, report); err != nil {
		t.Fatalf("put report: %v", err)
	}

	got, err := store.GetReport(ctx, "rep-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.ID != "rep-1" || got.UnitID != "mad-3r" || !got.IsValid {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestGetReportNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetReport(context.Background(), "missing")
	if !errors.Is(err, archive.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutReportRequiresID(t *testing.T) {
	store := openTestStore(t)

	if err := store.PutReport(context.Background(), &engine.Report{}); err == nil {
		t.Fatal("expected error for report without id")
	}
}

func TestListReportsByUnit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, report := range []*engine.Report{
		testReport("rep-1", "mad-3r", false),
		testReport("rep-2", "mad-3r", true),
		testReport("rep-3", "hbk-4g", true),
	} {
		if err := store.PutReport(ctx, report); err != nil {
			t.Fatalf("put report %s: %v", report.ID, err)
		}
	}

	reports, err := store.ListReportsByUnit(ctx, "mad-3r")
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].ID != "rep-1" || reports[1].ID != "rep-2" {
		t.Fatalf("unexpected order: %s, %s", reports[0].ID, reports[1].ID)
	}

	other, err := store.ListReportsByUnit(ctx, "hbk-4g")
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(other) != 1 || other[0].ID != "rep-3" {
		t.Fatalf("unexpected reports: %+v", other)
	}
}

func TestListReportsByUnitEmpty(t *testing.T) {
	store := openTestStore(t)

	reports, err := store.ListReportsByUnit(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("list reports: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected no reports, got %d", len(reports))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
