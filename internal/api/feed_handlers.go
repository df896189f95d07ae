package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/id"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunityFeed",
		Method:      http.MethodGet,
		Path:        "/community/feed",
		Summary:     "Community feed",
		Description: "Returns anonymized lunch records, newest first. A bearer token adds myReaction.",
		Tags:        []string{"Community"},
	}, s.handleGetFeed)
}

// FeedInput carries feed filters and paging.
type FeedInput struct {
	Category string `query:"category" doc:"Exact category filter"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"50" doc:"Page size"`
	Cursor   string `query:"cursor" doc:"nextCursor from the previous page"`
}

// FeedItemResponse is one anonymized feed entry. It carries no owner.
type FeedItemResponse struct {
	RecordID   string                      `json:"recordId" doc:"Record ID, e.g. rec_123"`
	CreatedAt  time.Time                   `json:"createdAt" doc:"Creation timestamp"`
	EatenAt    time.Time                   `json:"eatenAt" doc:"Meal date at 00:00 UTC+9"`
	Category   *string                     `json:"category" doc:"Category code"`
	MenuName   *string                     `json:"menuName" doc:"Menu name"`
	Reactions  map[domain.ReactionCode]int `json:"reactions" doc:"Reaction counts per code"`
	MyReaction *domain.ReactionCode        `json:"myReaction" doc:"Viewer's reaction, null when none"`
}

// FeedResponse is one page of the feed.
type FeedResponse struct {
	Items      []FeedItemResponse `json:"items" doc:"Feed items"`
	NextCursor *string            `json:"nextCursor" doc:"Cursor for the next page, null on the last page"`
}

// FeedOutput wraps the feed for Huma.
type FeedOutput struct {
	Body FeedResponse
}

func (s *Server) handleGetFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	page, err := s.services.Feed.GetFeed(ctx, domain.FeedQuery{
		Category: input.Category,
		Limit:    input.Limit,
		Cursor:   input.Cursor,
		ViewerID: optionalUserID(ctx),
	})
	if err != nil {
		return nil, err
	}

	resp := FeedResponse{Items: make([]FeedItemResponse, 0, len(page.Items))}
	for _, item := range page.Items {
		resp.Items = append(resp.Items, FeedItemResponse{
			RecordID:   id.FormatRecordID(item.RecordID),
			CreatedAt:  item.CreatedAt,
			EatenAt:    item.EatenAt,
			Category:   item.Category,
			MenuName:   item.MenuName,
			Reactions:  item.Reactions,
			MyReaction: item.MyReaction,
		})
	}
	if page.NextCursor != nil {
		next := strconv.FormatInt(*page.NextCursor, 10)
		resp.NextCursor = &next
	}

	return &FeedOutput{Body: resp}, nil
}
