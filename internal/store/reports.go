package store

import (
	"context"
	"fmt"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

// CountUserRecords counts a user's records whose date lies in r.
func (s *Store) CountUserRecords(ctx context.Context, userID int64, r domain.DateRange) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.db.NewSelect().
		Model((*lunchRecordRow)(nil)).
		Where("lr.user_id = ?", userID).
		Where("lr.recorded_at >= ?", domain.FormatDate(r.From)).
		Where("lr.recorded_at <= ?", domain.FormatDate(r.To)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count user records: %w", err)
	}
	return n, nil
}

// CategoryCounts groups a user's records in r by non-empty category,
// ordered by category name.
func (s *Store) CategoryCounts(ctx context.Context, userID int64, r domain.DateRange) ([]domain.CategoryShare, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		Category string `bun:"category"`
		Count    int    `bun:"cnt"`
	}
	err := s.db.NewSelect().
		Model((*lunchRecordRow)(nil)).
		Column("lr.category").
		ColumnExpr("COUNT(*) AS cnt").
		Where("lr.user_id = ?", userID).
		Where("lr.recorded_at >= ?", domain.FormatDate(r.From)).
		Where("lr.recorded_at <= ?", domain.FormatDate(r.To)).
		Where("lr.category IS NOT NULL").
		Where("lr.category <> ''").
		Group("lr.category").
		OrderExpr("lr.category ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}

	out := make([]domain.CategoryShare, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CategoryShare{Category: row.Category, Count: row.Count})
	}
	return out, nil
}

// TopMenus returns at most n menu names in r, ordered by count descending
// and then by name ascending.
func (s *Store) TopMenus(ctx context.Context, userID int64, r domain.DateRange, n int) ([]domain.MenuCount, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		MenuName string `bun:"menu_name"`
		Count    int    `bun:"cnt"`
	}
	err := s.db.NewSelect().
		Model((*lunchRecordRow)(nil)).
		Column("lr.menu_name").
		ColumnExpr("COUNT(*) AS cnt").
		Where("lr.user_id = ?", userID).
		Where("lr.recorded_at >= ?", domain.FormatDate(r.From)).
		Where("lr.recorded_at <= ?", domain.FormatDate(r.To)).
		Where("lr.menu_name IS NOT NULL").
		Where("lr.menu_name <> ''").
		Group("lr.menu_name").
		OrderExpr("cnt DESC, lr.menu_name ASC").
		Limit(n).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("top menus: %w", err)
	}

	out := make([]domain.MenuCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.MenuCount{MenuName: row.MenuName, Count: row.Count})
	}
	return out, nil
}
