// Package sqlite implements the unit catalog on a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mechforge/mechforge/internal/catalog"
	"github.com/mechforge/mechforge/internal/catalog/filter"
	"github.com/mechforge/mechforge/internal/catalog/sqlite/migrations"
	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
	"github.com/mechforge/mechforge/internal/platform/storage/sqlitemigrate"
	"github.com/mechforge/mechforge/internal/storage/cursor"
	"github.com/mechforge/mechforge/internal/unit"
)

// Store provides a SQLite-backed unit catalog.
type Store struct {
	sqlDB *sql.DB
}

var _ catalog.Store = (*Store)(nil)

// Open opens a SQLite catalog store at the provided path and applies
// embedded migrations before the store is handed to higher layers.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.UnitsFS, "units"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// PutUnit inserts or replaces a unit design by id. The full unit is kept
// as a JSON payload; the filterable columns are denormalized copies.
func (s *Store) PutUnit(ctx context.Context, u unit.Unit) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("marshal unit payload: %w", err)
	}

	now := toMillis(time.Now())
	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO units (id, chassis, variant, subtype, tech_base, rules_level, tonnage, intro_year, payload_json, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    chassis = excluded.chassis,
    variant = excluded.variant,
    subtype = excluded.subtype,
    tech_base = excluded.tech_base,
    rules_level = excluded.rules_level,
    tonnage = excluded.tonnage,
    intro_year = excluded.intro_year,
    payload_json = excluded.payload_json,
    updated_at = excluded.updated_at`,
		u.ID, u.Chassis, u.Variant, string(u.Subtype), string(u.TechBase), string(u.RulesLevel),
		u.Tonnage, u.IntroductionYear, string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("put unit %s: %w", u.ID, err)
	}
	return nil
}

// GetUnit fetches a unit design by id.
func (s *Store) GetUnit(ctx context.Context, id string) (unit.Unit, error) {
	if err := s.validate(ctx); err != nil {
		return unit.Unit{}, err
	}
	if strings.TrimSpace(id) == "" {
		return unit.Unit{}, fmt.Errorf("unit id is required")
	}

	var payload string
	row := s.sqlDB.QueryRowContext(ctx, "SELECT payload_json FROM units WHERE id = ?", id)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return unit.Unit{}, catalog.ErrNotFound
		}
		return unit.Unit{}, fmt.Errorf("get unit %s: %w", id, err)
	}

	var u unit.Unit
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return unit.Unit{}, fmt.Errorf("unmarshal unit %s: %w", id, err)
	}
	return u, nil
}

// DeleteUnit removes a unit design by id.
func (s *Store) DeleteUnit(ctx context.Context, id string) error {
	if err := s.validate(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("unit id is required")
	}

	res, err := s.sqlDB.ExecContext(ctx, "DELETE FROM units WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete unit %s: %w", id, err)
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// listPageSQLPlan holds the assembled SQL fragments for one list query.
type listPageSQLPlan struct {
	whereClause      string
	params           []any
	orderClause      string
	limitClause      string
	countWhereClause string
	countParams      []any
}

func buildListPageSQLPlan(cond filter.SQLCondition, cur cursor.Token, hasCursor bool, descending bool, pageSize int) listPageSQLPlan {
	whereClause := "1 = 1"
	params := []any{}

	// The cursor direction determines comparison operators; sort order is applied separately.
	if hasCursor {
		if cur.Dir == cursor.Backward {
			whereClause += " AND seq < ?"
		} else {
			whereClause += " AND seq > ?"
		}
		params = append(params, cur.Seq)
	}

	if cond.Clause != "" {
		whereClause += " AND " + cond.Clause
		params = append(params, cond.Params...)
	}

	orderClause := "ORDER BY seq ASC"
	if descending {
		orderClause = "ORDER BY seq DESC"
	}
	// Reverse sort temporarily for previous-page queries so near-edge rows are fetched first.
	if cur.Reverse {
		if descending {
			orderClause = "ORDER BY seq ASC"
		} else {
			orderClause = "ORDER BY seq DESC"
		}
	}

	countWhereClause := "1 = 1"
	countParams := []any{}
	if cond.Clause != "" {
		countWhereClause += " AND " + cond.Clause
		countParams = append(countParams, cond.Params...)
	}

	return listPageSQLPlan{
		whereClause:      whereClause,
		params:           params,
		orderClause:      orderClause,
		limitClause:      fmt.Sprintf("LIMIT %d", pageSize+1),
		countWhereClause: countWhereClause,
		countParams:      countParams,
	}
}

func orderKey(descending bool) string {
	if descending {
		return "seq desc"
	}
	return "seq asc"
}

// ListUnits returns one page of units matching the request filter, in
// insertion order. Page tokens are opaque and bound to the filter and
// sort order they were created under.
func (s *Store) ListUnits(ctx context.Context, req catalog.ListUnitsRequest) (catalog.ListUnitsResult, error) {
	if err := s.validate(ctx); err != nil {
		return catalog.ListUnitsResult{}, err
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	if pageSize > catalog.MaxPageSize {
		pageSize = catalog.MaxPageSize
	}

	cond, err := filter.ParseUnitFilter(req.Filter)
	if err != nil {
		return catalog.ListUnitsResult{}, fmt.Errorf("parse filter: %w", err)
	}

	var cur cursor.Token
	hasCursor := false
	if req.PageToken != "" {
		cur, err = cursor.Decode(req.PageToken)
		if err != nil {
			return catalog.ListUnitsResult{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "decode page token", err)
		}
		if err := cur.ValidateView(req.Filter, orderKey(req.Descending)); err != nil {
			return catalog.ListUnitsResult{}, apperrors.Wrap(apperrors.CodePageTokenInvalid, "page token view mismatch", err)
		}
		hasCursor = true
	}

	plan := buildListPageSQLPlan(cond, cur, hasCursor, req.Descending, pageSize)

	query := fmt.Sprintf(
		"SELECT seq, payload_json FROM units WHERE %s %s %s",
		plan.whereClause, plan.orderClause, plan.limitClause,
	)
	rows, err := s.sqlDB.QueryContext(ctx, query, plan.params...)
	if err != nil {
		return catalog.ListUnitsResult{}, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	type pageRow struct {
		seq     uint64
		payload string
	}
	var fetched []pageRow
	for rows.Next() {
		var r pageRow
		if err := rows.Scan(&r.seq, &r.payload); err != nil {
			return catalog.ListUnitsResult{}, fmt.Errorf("scan unit row: %w", err)
		}
		fetched = append(fetched, r)
	}
	if err := rows.Err(); err != nil {
		return catalog.ListUnitsResult{}, fmt.Errorf("read unit rows: %w", err)
	}

	hasMore := len(fetched) > pageSize
	if hasMore {
		fetched = fetched[:pageSize]
	}
	// Previous-page queries fetch in reversed order; restore display order.
	if cur.Reverse {
		for i, j := 0, len(fetched)-1; i < j; i, j = i+1, j-1 {
			fetched[i], fetched[j] = fetched[j], fetched[i]
		}
	}

	result := catalog.ListUnitsResult{}
	for _, r := range fetched {
		var u unit.Unit
		if err := json.Unmarshal([]byte(r.payload), &u); err != nil {
			return catalog.ListUnitsResult{}, fmt.Errorf("unmarshal unit row: %w", err)
		}
		result.Units = append(result.Units, u)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM units WHERE %s", plan.countWhereClause)
	if err := s.sqlDB.QueryRowContext(ctx, countQuery, plan.countParams...).Scan(&result.TotalSize); err != nil {
		return catalog.ListUnitsResult{}, fmt.Errorf("count units: %w", err)
	}

	if len(fetched) > 0 {
		firstSeq := fetched[0].seq
		lastSeq := fetched[len(fetched)-1].seq
		order := orderKey(req.Descending)

		emitNext := hasMore
		emitPrev := hasCursor && !cur.Reverse
		if cur.Reverse {
			// Coming back from a later page: the page we left is still ahead.
			emitNext = true
			emitPrev = hasMore
		}

		if emitNext {
			token, err := cursor.Encode(cursor.Next(lastSeq, req.Descending, req.Filter, order))
			if err != nil {
				return catalog.ListUnitsResult{}, fmt.Errorf("encode next page token: %w", err)
			}
			result.NextPageToken = token
		}
		if emitPrev {
			token, err := cursor.Encode(cursor.Prev(firstSeq, req.Descending, req.Filter, order))
			if err != nil {
				return catalog.ListUnitsResult{}, fmt.Errorf("encode prev page token: %w", err)
			}
			result.PrevPageToken = token
		}
	}

	return result, nil
}
