package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/metrics"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

// maxToggleAttempts bounds retries when a concurrent toggle by the same
// user changes the row between our read and our write.
const maxToggleAttempts = 3

// ReactionStore is the persistence the reaction toggle needs.
type ReactionStore interface {
	LunchRecordExists(ctx context.Context, id int64) (bool, error)
	GetReaction(ctx context.Context, recordID, userID int64) (*domain.Reaction, error)
	CreateReaction(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (*domain.Reaction, error)
	UpdateReactionType(ctx context.Context, id int64, code domain.ReactionCode) error
	DeleteReaction(ctx context.Context, id int64) error
	CountReactions(ctx context.Context, recordIDs []int64) (map[int64]domain.ReactionCounts, error)
}

// ReactionService toggles a user's single reaction on a lunch record.
type ReactionService struct {
	store  ReactionStore
	logger *slog.Logger
}

// NewReactionService creates a new reaction service.
func NewReactionService(store ReactionStore, logger *slog.Logger) *ReactionService {
	return &ReactionService{
		store:  store,
		logger: logger,
	}
}

// SetReaction applies the toggle:
//
//	no reaction        -> insert code   (set)
//	same code          -> delete        (removed)
//	different code     -> replace code  (updated)
//
// It returns the outcome together with fresh counts for the record.
func (s *ReactionService) SetReaction(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (*domain.ReactionOutcome, error) {
	if !code.Valid() {
		return nil, domainerrors.InvalidArgumentf("invalid reaction %q. Allowed: like, love, yummy", code)
	}

	exists, err := s.store.LunchRecordExists(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("check lunch record: %w", err)
	}
	if !exists {
		return nil, domainerrors.NotFoundf("lunch record %d not found", recordID)
	}

	log := logger.FromContext(ctx, s.logger)
	var result domain.ToggleResult
	reaction := code
	for attempt := 1; ; attempt++ {
		result, err = s.toggle(ctx, recordID, userID, code)
		if err == nil {
			break
		}
		if !isToggleRace(err) {
			return nil, err
		}
		if attempt == maxToggleAttempts {
			log.Warn("reaction toggle lost every attempt, reporting stored state",
				"record_id", recordID, "user_id", userID, "attempts", attempt)
			result, reaction, err = s.settled(ctx, recordID, userID, code)
			if err != nil {
				return nil, err
			}
			break
		}
		metrics.ReactionConflictRetries.Inc()
		log.Debug("retrying reaction toggle", "record_id", recordID, "user_id", userID, "attempt", attempt)
	}

	counts, err := s.store.CountReactions(ctx, []int64{recordID})
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	recordCounts := counts[recordID]
	if recordCounts == nil {
		recordCounts = domain.NewReactionCounts()
	}

	metrics.RecordReactionToggle(string(result))
	log.Info("reaction toggled",
		"record_id", recordID,
		"user_id", userID,
		"reaction", reaction,
		"result", result,
	)

	return &domain.ReactionOutcome{
		RecordID: recordID,
		Reaction: reaction,
		Result:   result,
		Counts:   recordCounts,
	}, nil
}

func (s *ReactionService) toggle(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (domain.ToggleResult, error) {
	existing, err := s.store.GetReaction(ctx, recordID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if _, err := s.store.CreateReaction(ctx, recordID, userID, code); err != nil {
			return "", err
		}
		return domain.ToggleSet, nil
	case err != nil:
		return "", fmt.Errorf("get reaction: %w", err)
	}

	if existing.Type == code {
		if err := s.store.DeleteReaction(ctx, existing.ID); err != nil {
			return "", err
		}
		return domain.ToggleRemoved, nil
	}

	if err := s.store.UpdateReactionType(ctx, existing.ID, code); err != nil {
		return "", err
	}
	return domain.ToggleUpdated, nil
}

// settled reads the row the concurrent writers left behind and reports it
// as the toggle result.
func (s *ReactionService) settled(ctx context.Context, recordID, userID int64, code domain.ReactionCode) (domain.ToggleResult, domain.ReactionCode, error) {
	current, err := s.store.GetReaction(ctx, recordID, userID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.ToggleRemoved, code, nil
	case err != nil:
		return "", "", fmt.Errorf("get reaction: %w", err)
	case current.Type == code:
		return domain.ToggleSet, code, nil
	default:
		return domain.ToggleUpdated, current.Type, nil
	}
}

// isToggleRace reports whether err came from another toggle winning the row.
func isToggleRace(err error) bool {
	return errors.Is(err, store.ErrAlreadyExists) || errors.Is(err, store.ErrNotFound)
}
