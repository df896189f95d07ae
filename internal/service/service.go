// Package service holds the lunch-log business logic: the anonymized feed,
// the reaction toggle, period reports, lunch record creation, users and
// Kakao sign-in. Handlers depend on the component interfaces below.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

// Feed paging bounds.
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 50
)

// Report top-menu bounds.
const (
	DefaultTopN = 5
	MaxTopN     = 20
)

// FeedAggregator builds pages of the anonymized community feed.
type FeedAggregator interface {
	GetFeed(ctx context.Context, q domain.FeedQuery) (*domain.FeedPage, error)
}

// ReactionToggler applies the set/update/remove state machine.
type ReactionToggler interface {
	SetReaction(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (*domain.ReactionOutcome, error)
}

// ReportAggregator computes per-user period reports.
type ReportAggregator interface {
	GetPeriodReport(ctx context.Context, userID int64, period domain.Period, ref time.Time, topN int) (*domain.PeriodReport, error)
}

var (
	_ FeedAggregator   = (*FeedService)(nil)
	_ ReactionToggler  = (*ReactionService)(nil)
	_ ReportAggregator = (*ReportService)(nil)
)

// storeError converts a store miss into a NOT_FOUND domain error and wraps
// everything else.
func storeError(err error, format string, args ...any) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf(format, args...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
