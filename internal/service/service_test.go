package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) (*store.Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	testStore, err := store.Open(context.Background(), store.Config{
		Driver: store.DriverSQLite,
		DSN:    filepath.Join(tmpDir, "test.db"),
	}, testLogger())
	require.NoError(t, err)

	cleanup := func() {
		testStore.Close()
		os.RemoveAll(tmpDir)
	}
	return testStore, cleanup
}

func createTestUser(t *testing.T, s *store.Store, kakaoID int64) *domain.User {
	t.Helper()
	nickname := "user"
	user := &domain.User{KakaoID: kakaoID, Nickname: &nickname}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestRecord(t *testing.T, s *store.Store, userID int64, date, category, menu string) *domain.LunchRecord {
	t.Helper()
	recordedAt, err := domain.ParseDate(date)
	require.NoError(t, err)
	rec := &domain.LunchRecord{
		UserID:     userID,
		RecordedAt: recordedAt,
		Category:   domain.OptionalString(category),
		MenuName:   domain.OptionalString(menu),
	}
	require.NoError(t, s.CreateLunchRecord(context.Background(), rec))
	return rec
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
