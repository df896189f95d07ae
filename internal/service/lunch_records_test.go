package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/validation"
)

func TestLunchRecordService_Create(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	svc := NewLunchRecordService(s, validation.New(), testLogger())
	ctx := context.Background()

	user := createTestUser(t, s, 1)

	rec, err := svc.Create(ctx, user.ID, CreateLunchRecordRequest{
		RecordedAt: "2024-03-01",
		Category:   " korean ",
		MenuName:   "  bibimbap ",
		Content:    "   ",
	})
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, user.ID, rec.UserID)
	assert.Equal(t, "2024-03-01", domain.FormatDate(rec.RecordedAt))
	assert.Equal(t, "KOREAN", deref(rec.Category))
	assert.Equal(t, "bibimbap", deref(rec.MenuName))
	assert.Nil(t, rec.Content)

	stored, err := s.ListFeedRecords(ctx, store.FeedFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, rec.ID, stored[0].ID)
	assert.Equal(t, rec.Category, stored[0].Category)
	assert.Nil(t, stored[0].Content)
}

func TestLunchRecordService_Create_Validation(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	svc := NewLunchRecordService(s, validation.New(), testLogger())
	ctx := context.Background()

	user := createTestUser(t, s, 1)

	tests := []struct {
		name  string
		req   CreateLunchRecordRequest
		field string
	}{
		{"missing date", CreateLunchRecordRequest{}, "recorded_at"},
		{"bad date", CreateLunchRecordRequest{RecordedAt: "2024-02-30"}, "recorded_at"},
		{"bad category", CreateLunchRecordRequest{RecordedAt: "2024-03-01", Category: "korean food"}, "category"},
		{"long menu", CreateLunchRecordRequest{RecordedAt: "2024-03-01", MenuName: strings.Repeat("a", 201)}, "menu_name"},
		{"long content", CreateLunchRecordRequest{RecordedAt: "2024-03-01", Content: strings.Repeat("a", 2001)}, "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, user.ID, tt.req)
			require.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

			var derr *domainerrors.Error
			require.ErrorAs(t, err, &derr)
			details, ok := derr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.field)
		})
	}
}
