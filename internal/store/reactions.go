package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

// GetReaction returns the reaction a user left on a record.
func (s *Store) GetReaction(ctx context.Context, recordID, userID int64) (*domain.Reaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := new(reactionRow)
	err := s.db.NewSelect().
		Model(row).
		Where("r.lunch_record_id = ?", recordID).
		Where("r.user_id = ?", userID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reaction: %w", err)
	}
	return row.toDomain(), nil
}

// CreateReaction inserts a reaction. Returns ErrAlreadyExists when the user
// already reacted to the record.
func (s *Store) CreateReaction(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (*domain.Reaction, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := &reactionRow{
		LunchRecordID: recordID,
		UserID:        userID,
		ReactionType:  string(code),
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists.WithCause(err)
		}
		return nil, fmt.Errorf("insert reaction: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateReactionType changes the code of an existing reaction.
func (s *Store) UpdateReactionType(ctx context.Context, id int64, code domain.ReactionCode) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.NewUpdate().
		Model((*reactionRow)(nil)).
		Set("reaction_type = ?", string(code)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update reaction: %w", err)
	}
	return requireAffected(res)
}

// DeleteReaction removes a reaction by ID.
func (s *Store) DeleteReaction(ctx context.Context, id int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.NewDelete().
		Model((*reactionRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return requireAffected(res)
}

// CountReactions returns per-code counts for each record ID. Every requested
// record is present in the result, zero-filled for all allowed codes. Rows
// with codes outside the allowed set are not counted.
func (s *Store) CountReactions(ctx context.Context, recordIDs []int64) (map[int64]domain.ReactionCounts, error) {
	out := make(map[int64]domain.ReactionCounts, len(recordIDs))
	for _, id := range recordIDs {
		out[id] = domain.NewReactionCounts()
	}
	if len(recordIDs) == 0 {
		return out, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []struct {
		LunchRecordID int64  `bun:"lunch_record_id"`
		ReactionType  string `bun:"reaction_type"`
		Count         int    `bun:"cnt"`
	}
	err := s.db.NewSelect().
		Model((*reactionRow)(nil)).
		Column("r.lunch_record_id", "r.reaction_type").
		ColumnExpr("COUNT(*) AS cnt").
		Where("r.lunch_record_id IN (?)", bun.In(recordIDs)).
		Where("r.reaction_type IN (?)", bun.In(domain.AllowedReactionStrings())).
		Group("r.lunch_record_id", "r.reaction_type").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}

	for _, row := range rows {
		if counts, ok := out[row.LunchRecordID]; ok {
			counts.Add(domain.ReactionCode(row.ReactionType), row.Count)
		}
	}
	return out, nil
}

// UserReactions returns the viewer's reaction code per record, for the
// records the viewer reacted to.
func (s *Store) UserReactions(ctx context.Context, userID int64, recordIDs []int64) (map[int64]domain.ReactionCode, error) {
	out := make(map[int64]domain.ReactionCode)
	if len(recordIDs) == 0 {
		return out, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rows []reactionRow
	err := s.db.NewSelect().
		Model(&rows).
		Where("r.user_id = ?", userID).
		Where("r.lunch_record_id IN (?)", bun.In(recordIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("user reactions: %w", err)
	}

	for _, row := range rows {
		out[row.LunchRecordID] = domain.ReactionCode(row.ReactionType)
	}
	return out, nil
}
