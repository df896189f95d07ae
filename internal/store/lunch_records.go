package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

// FeedFilter selects feed rows in descending ID order.
type FeedFilter struct {
	// Category restricts rows to an exact category when non-empty.
	Category string
	// BeforeID restricts rows to id < BeforeID when positive.
	BeforeID int64
	// Limit is the maximum number of rows returned.
	Limit int
}

// CreateLunchRecord inserts a record and fills in its ID and timestamps.
func (s *Store) CreateLunchRecord(ctx context.Context, rec *domain.LunchRecord) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	row := lunchRecordRowFrom(rec)
	row.ID = 0
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert lunch record: %w", err)
	}

	rec.ID = row.ID
	return nil
}

// LunchRecordExists reports whether a record with the given ID exists.
func (s *Store) LunchRecordExists(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.db.NewSelect().Model((*lunchRecordRow)(nil)).Where("lr.id = ?", id).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("lunch record exists: %w", err)
	}
	return ok, nil
}

// ListFeedRecords returns up to f.Limit records ordered by ID descending.
func (s *Store) ListFeedRecords(ctx context.Context, f FeedFilter) ([]*domain.LunchRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []lunchRecordRow
	q := s.db.NewSelect().Model(&rows).OrderExpr("lr.id DESC").Limit(f.Limit)
	if f.Category != "" {
		q = q.Where("lr.category = ?", f.Category)
	}
	if f.BeforeID > 0 {
		q = q.Where("lr.id < ?", f.BeforeID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list feed records: %w", err)
	}

	records := make([]*domain.LunchRecord, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode lunch record %d: %w", rows[i].ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
