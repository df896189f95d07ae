package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/id"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/metrics"
)

func (s *Server) registerReactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "setReaction",
		Method:      http.MethodPost,
		Path:        "/records/{record_id}/reactions",
		Summary:     "Toggle reaction",
		Description: "Sets, replaces or removes the caller's reaction on a lunch record",
		Tags:        []string{"Community"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetReaction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReactions",
		Method:      http.MethodGet,
		Path:        "/reactions",
		Summary:     "Reaction registry",
		Description: "Returns the allowed reaction codes and their display symbols",
		Tags:        []string{"Community"},
	}, s.handleListReactions)
}

// SetReactionRequest is the request body for a reaction toggle.
type SetReactionRequest struct {
	Reaction string `json:"reaction" doc:"like | love | yummy"`
}

// SetReactionInput wraps the toggle request for Huma.
type SetReactionInput struct {
	RecordID string `path:"record_id" doc:"Record ID, 123 or rec_123"`
	Body     SetReactionRequest
}

// ReactionResponse is the toggle outcome.
type ReactionResponse struct {
	RecordID string                      `json:"recordId" doc:"Record ID, e.g. rec_123"`
	Reaction domain.ReactionCode         `json:"reaction" doc:"Reaction code applied"`
	Result   domain.ToggleResult         `json:"result" doc:"set | removed | updated"`
	Counts   map[domain.ReactionCode]int `json:"counts" doc:"Reaction counts for the record"`
}

// ReactionOutput wraps the toggle outcome for Huma.
type ReactionOutput struct {
	Body ReactionResponse
}

// ReactionTypeResponse is one registry entry.
type ReactionTypeResponse struct {
	Code   domain.ReactionCode `json:"code" doc:"Reaction code"`
	Symbol string              `json:"symbol" doc:"Display symbol"`
}

// ReactionListOutput wraps the registry for Huma.
type ReactionListOutput struct {
	Body []ReactionTypeResponse
}

func (s *Server) handleSetReaction(ctx context.Context, input *SetReactionInput) (*ReactionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	code, err := domain.ParseReactionCode(input.Body.Reaction)
	if err != nil {
		return nil, err
	}

	recordID, err := id.ParseRecordID(input.RecordID)
	if err != nil {
		return nil, domainerrors.NotFoundf("lunch record %q not found", input.RecordID)
	}

	if !s.reactionRateLimiter.Allow(strconv.FormatInt(userID, 10)) {
		metrics.RecordRateLimitHit("reactions")
		return nil, domainerrors.RateLimited("Too many reactions. Please slow down.")
	}

	outcome, err := s.services.Reactions.SetReaction(ctx, recordID, userID, code)
	if err != nil {
		return nil, err
	}

	return &ReactionOutput{
		Body: ReactionResponse{
			RecordID: id.FormatRecordID(outcome.RecordID),
			Reaction: outcome.Reaction,
			Result:   outcome.Result,
			Counts:   outcome.Counts,
		},
	}, nil
}

func (s *Server) handleListReactions(_ context.Context, _ *struct{}) (*ReactionListOutput, error) {
	codes := domain.AllowedReactions()
	out := make([]ReactionTypeResponse, 0, len(codes))
	for _, code := range codes {
		out = append(out, ReactionTypeResponse{Code: code, Symbol: code.Symbol()})
	}
	return &ReactionListOutput{Body: out}, nil
}
