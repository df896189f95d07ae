package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/id"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

// FeedStore is the persistence the feed needs.
type FeedStore interface {
	ListFeedRecords(ctx context.Context, f store.FeedFilter) ([]*domain.LunchRecord, error)
	CountReactions(ctx context.Context, recordIDs []int64) (map[int64]domain.ReactionCounts, error)
	UserReactions(ctx context.Context, userID int64, recordIDs []int64) (map[int64]domain.ReactionCode, error)
}

// FeedService builds the anonymized community feed.
type FeedService struct {
	store  FeedStore
	logger *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(store FeedStore, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:  store,
		logger: logger,
	}
}

// GetFeed returns one page of records in descending ID order. A non-numeric
// cursor is ignored and the newest page is returned; a numeric cursor of zero
// or less yields an empty page.
func (s *FeedService) GetFeed(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error) {
	limit := q.Limit
	if limit == 0 {
		limit = DefaultFeedLimit
	}
	if limit < 1 || limit > MaxFeedLimit {
		return nil, domainerrors.InvalidArgumentf("limit must be between 1 and %d", MaxFeedLimit)
	}

	beforeID, ok := id.ParseCursor(strings.TrimSpace(q.Cursor))
	if !ok && q.Cursor != "" {
		logger.FromContext(ctx, s.logger).Debug("ignoring malformed feed cursor", "cursor", q.Cursor)
	}
	if ok && beforeID <= 0 {
		// No record ID sorts below a non-positive cursor.
		return &domain.FeedPage{Items: []domain.FeedItem{}}, nil
	}

	// One extra row tells us whether another page exists.
	records, err := s.store.ListFeedRecords(ctx, store.FeedFilter{
		Category: strings.TrimSpace(q.Category),
		BeforeID: beforeID,
		Limit:    limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("list feed records: %w", err)
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	page := &domain.FeedPage{Items: make([]domain.FeedItem, 0, len(records))}
	if len(records) == 0 {
		return page, nil
	}

	recordIDs := make([]int64, len(records))
	for i, rec := range records {
		recordIDs[i] = rec.ID
	}

	var (
		counts map[int64]domain.ReactionCounts
		mine   map[int64]domain.ReactionCode
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.store.CountReactions(gctx, recordIDs)
		return err
	})
	if q.ViewerID != nil {
		viewerID := *q.ViewerID
		g.Go(func() error {
			var err error
			mine, err = s.store.UserReactions(gctx, viewerID, recordIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load feed reactions: %w", err)
	}

	for _, rec := range records {
		item := domain.FeedItem{
			RecordID:  rec.ID,
			CreatedAt: rec.CreatedAt,
			EatenAt:   domain.EatenAt(rec.RecordedAt),
			Category:  rec.Category,
			MenuName:  rec.MenuName,
			Reactions: counts[rec.ID],
		}
		if item.Reactions == nil {
			item.Reactions = domain.NewReactionCounts()
		}
		if code, ok := mine[rec.ID]; ok && code.Valid() {
			item.MyReaction = &code
		}
		page.Items = append(page.Items, item)
	}

	if hasMore {
		next := records[len(records)-1].ID
		page.NextCursor = &next
	}

	return page, nil
}
