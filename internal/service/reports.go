package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
)

// ReportStore is the persistence period reports need.
type ReportStore interface {
	CountUserRecords(ctx context.Context, userID int64, r domain.DateRange) (int, error)
	CategoryCounts(ctx context.Context, userID int64, r domain.DateRange) ([]domain.CategoryShare, error)
	TopMenus(ctx context.Context, userID int64, r domain.DateRange, n int) ([]domain.MenuCount, error)
}

// ReportService aggregates a user's records over a calendar period.
type ReportService struct {
	store  ReportStore
	logger *slog.Logger
}

// NewReportService creates a new report service.
func NewReportService(store ReportStore, logger *slog.Logger) *ReportService {
	return &ReportService{
		store:  store,
		logger: logger,
	}
}

// GetPeriodReport returns totals, category shares and the topN menus for the
// week, month or year containing ref. topN of zero means DefaultTopN.
func (s *ReportService) GetPeriodReport(ctx context.Context, userID int64, period domain.Period, ref time.Time, topN int) (*domain.PeriodReport, error) {
	if topN == 0 {
		topN = DefaultTopN
	}
	if topN < 1 || topN > MaxTopN {
		return nil, domainerrors.InvalidArgumentf("top_n must be between 1 and %d", MaxTopN)
	}

	dateRange, err := period.Range(ref)
	if err != nil {
		return nil, err
	}

	report := &domain.PeriodReport{
		Period:        period,
		Range:         dateRange,
		CategoryShare: []domain.CategoryShare{},
		TopMenus:      []domain.MenuCount{},
	}

	total, err := s.store.CountUserRecords(ctx, userID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("count user records: %w", err)
	}
	report.TotalRecords = total
	if total == 0 {
		return report, nil
	}

	var (
		shares []domain.CategoryShare
		menus  []domain.MenuCount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shares, err = s.store.CategoryCounts(gctx, userID, dateRange)
		return err
	})
	g.Go(func() error {
		var err error
		menus, err = s.store.TopMenus(gctx, userID, dateRange, topN)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate report: %w", err)
	}

	for i := range shares {
		shares[i].Ratio = shareRatio(shares[i].Count, total)
	}
	if shares != nil {
		report.CategoryShare = shares
	}
	if menus != nil {
		report.TopMenus = menus
	}

	logger.FromContext(ctx, s.logger).Debug("period report computed",
		"user_id", userID,
		"period", period,
		"range", dateRange.String(),
		"total", total,
	)
	return report, nil
}

// shareRatio is count/total rounded to four decimal places. Rounding works
// on the exact binary value with ties to even, so 1/32 gives 0.0312.
func shareRatio(count, total int) float64 {
	if total == 0 {
		return 0
	}
	rounded := strconv.FormatFloat(float64(count)/float64(total), 'f', 4, 64)
	ratio, err := strconv.ParseFloat(rounded, 64)
	if err != nil {
		return 0
	}
	return ratio
}
