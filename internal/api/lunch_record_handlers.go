package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/service"
)

func (s *Server) registerLunchRecordRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createLunchRecord",
		Method:        http.MethodPost,
		Path:          "/lunch-records",
		Summary:       "Log a lunch",
		Description:   "Creates a lunch record for the authenticated user",
		Tags:          []string{"Lunch Records"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLunchRecord)
}

// CreateLunchRecordRequest is the request body for logging a lunch.
type CreateLunchRecordRequest struct {
	RecordedAt string `json:"recorded_at" doc:"Meal date (YYYY-MM-DD)"`
	Category   string `json:"category,omitempty" doc:"Category code, e.g. KOREAN"`
	MenuName   string `json:"menu_name,omitempty" doc:"Menu name"`
	Content    string `json:"content,omitempty" doc:"Free-form note (max 2000 chars)"`
}

// CreateLunchRecordInput wraps the create request for Huma.
type CreateLunchRecordInput struct {
	Body CreateLunchRecordRequest
}

// LunchRecordResponse is a stored lunch record.
type LunchRecordResponse struct {
	ID         int64     `json:"id" doc:"Record ID"`
	UserID     int64     `json:"user_id" doc:"Owner user ID"`
	RecordedAt string    `json:"recorded_at" doc:"Meal date (YYYY-MM-DD)"`
	Category   *string   `json:"category" doc:"Category code"`
	MenuName   *string   `json:"menu_name" doc:"Menu name"`
	Content    *string   `json:"content" doc:"Free-form note"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation timestamp"`
}

// LunchRecordOutput wraps the record for Huma.
type LunchRecordOutput struct {
	Body LunchRecordResponse
}

func (s *Server) handleCreateLunchRecord(ctx context.Context, input *CreateLunchRecordInput) (*LunchRecordOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.LunchRecords.Create(ctx, userID, service.CreateLunchRecordRequest{
		RecordedAt: input.Body.RecordedAt,
		Category:   input.Body.Category,
		MenuName:   input.Body.MenuName,
		Content:    input.Body.Content,
	})
	if err != nil {
		return nil, err
	}

	return &LunchRecordOutput{Body: mapLunchRecordResponse(rec)}, nil
}

func mapLunchRecordResponse(rec *domain.LunchRecord) LunchRecordResponse {
	return LunchRecordResponse{
		ID:         rec.ID,
		UserID:     rec.UserID,
		RecordedAt: domain.FormatDate(rec.RecordedAt),
		Category:   rec.Category,
		MenuName:   rec.MenuName,
		Content:    rec.Content,
		CreatedAt:  rec.CreatedAt,
	}
}
