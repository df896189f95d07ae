package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/metrics"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/validation"
)

// LunchRecordStore is the persistence lunch record creation needs.
type LunchRecordStore interface {
	CreateLunchRecord(ctx context.Context, rec *domain.LunchRecord) error
}

// CreateLunchRecordRequest is the payload for logging a lunch.
type CreateLunchRecordRequest struct {
	RecordedAt string `json:"recorded_at" validate:"required,date"`
	Category   string `json:"category,omitempty" validate:"omitempty,max=50,category"`
	MenuName   string `json:"menu_name,omitempty" validate:"omitempty,max=200"`
	Content    string `json:"content,omitempty" validate:"omitempty,max=2000"`
}

// LunchRecordService creates lunch records.
type LunchRecordService struct {
	store     LunchRecordStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewLunchRecordService creates a new lunch record service.
func NewLunchRecordService(store LunchRecordStore, validator *validation.Validator, logger *slog.Logger) *LunchRecordService {
	return &LunchRecordService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// Create normalizes and validates req, then stores it for userID.
func (s *LunchRecordService) Create(ctx context.Context, userID int64, req CreateLunchRecordRequest) (*domain.LunchRecord, error) {
	req.RecordedAt = strings.TrimSpace(req.RecordedAt)
	req.Category = domain.NormalizeCategory(req.Category)
	req.MenuName = domain.NormalizeMenuName(req.MenuName)
	req.Content = strings.TrimSpace(req.Content)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	recordedAt, err := domain.ParseDate(req.RecordedAt)
	if err != nil {
		return nil, err
	}

	rec := &domain.LunchRecord{
		UserID:     userID,
		RecordedAt: recordedAt,
		Category:   domain.OptionalString(req.Category),
		MenuName:   domain.OptionalString(req.MenuName),
		Content:    domain.OptionalString(req.Content),
	}
	if err := s.store.CreateLunchRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("create lunch record: %w", err)
	}

	metrics.LunchRecordsCreated.Inc()
	logger.FromContext(ctx, s.logger).Info("lunch record created",
		"record_id", rec.ID,
		"user_id", userID,
		"recorded_at", req.RecordedAt,
	)
	return rec, nil
}
