// Package bbolt provides a BoltDB-backed report archive.
package bbolt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mechforge/mechforge/internal/archive"
	"github.com/mechforge/mechforge/internal/validation/engine"
	"go.etcd.io/bbolt"
)

const reportBucket = "report"

// unitIndexPrefix namespaces unit index keys as idx/unit/{unit_id}/{report_id}.
const unitIndexPrefix = "idx/unit/"

// Store provides a BoltDB-backed report archive.
type Store struct {
	db *bbolt.DB
}

var _ archive.Store = (*Store)(nil)

// Open opens a BoltDB-backed archive at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// PutReport persists a validation report and indexes it by unit.
func (s *Store) PutReport(ctx context.Context, report *engine.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("archive is not configured")
	}
	if report == nil {
		return fmt.Errorf("report is required")
	}
	if strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("report id is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(reportBucket))
		if bucket == nil {
			return fmt.Errorf("report bucket is missing")
		}
		if err := bucket.Put(reportKey(report.ID), payload); err != nil {
			return err
		}
		if report.UnitID != "" {
			return bucket.Put(unitIndexKey(report.UnitID, report.ID), reportKey(report.ID))
		}
		return nil
	})
}

// GetReport fetches an archived report by ID.
func (s *Store) GetReport(ctx context.Context, id string) (*engine.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("report id is required")
	}

	var report engine.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(reportBucket))
		if bucket == nil {
			return fmt.Errorf("report bucket is missing")
		}
		payload := bucket.Get(reportKey(id))
		if payload == nil {
			return archive.ErrNotFound
		}
		if err := json.Unmarshal(payload, &report); err != nil {
			return fmt.Errorf("unmarshal report: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &report, nil
}

// ListReportsByUnit returns all archived reports for a unit, oldest
// report id first.
func (s *Store) ListReportsByUnit(ctx context.Context, unitID string) ([]*engine.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	if strings.TrimSpace(unitID) == "" {
		return nil, fmt.Errorf("unit id is required")
	}

	var reports []*engine.Report
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(reportBucket))
		if bucket == nil {
			return fmt.Errorf("report bucket is missing")
		}

		prefix := []byte(unitIndexPrefix + unitID + "/")
		cursor := bucket.Cursor()
		for key, ref := cursor.Seek(prefix); key != nil && bytes.HasPrefix(key, prefix); key, ref = cursor.Next() {
			payload := bucket.Get(ref)
			if payload == nil {
				continue
			}
			var report engine.Report
			if err := json.Unmarshal(payload, &report); err != nil {
				return fmt.Errorf("unmarshal report: %w", err)
			}
			reports = append(reports, &report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reports, nil
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportBucket))
		if err != nil {
			return fmt.Errorf("create report bucket: %w", err)
		}
		return nil
	})
}

func reportKey(id string) []byte {
	return []byte("report/" + id)
}

func unitIndexKey(unitID, reportID string) []byte {
	return []byte(unitIndexPrefix + unitID + "/" + reportID)
}
