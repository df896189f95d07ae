package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dbPath}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedUser inserts a user with the given Kakao ID.
func seedUser(t *testing.T, s *Store, kakaoID int64) *domain.User {
	t.Helper()
	u := newUser(kakaoID, "user")
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// seedRecord inserts a lunch record for userID on date with optional category and menu.
func seedRecord(t *testing.T, s *Store, userID int64, date, category, menu string) *domain.LunchRecord {
	t.Helper()
	d, err := domain.ParseDate(date)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", date, err)
	}
	rec := &domain.LunchRecord{
		UserID:     userID,
		RecordedAt: d,
		Category:   domain.OptionalString(category),
		MenuName:   domain.OptionalString(menu),
	}
	if err := s.CreateLunchRecord(context.Background(), rec); err != nil {
		t.Fatalf("CreateLunchRecord: %v", err)
	}
	return rec
}

// getLunchRecord reads a record back by ID.
func getLunchRecord(ctx context.Context, s *Store, id int64) (*domain.LunchRecord, error) {
	row := new(lunchRecordRow)
	err := s.db.NewSelect().Model(row).Where("lr.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if s.Driver() != DriverSQLite {
		t.Errorf("Driver: got %q, want %q", s.Driver(), DriverSQLite)
	}

	var fk int
	if err := s.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"users", "lunch_records", "reactions"} {
		var name string
		err := s.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := Config{Driver: DriverSQLite, DSN: dbPath}

	for range 2 {
		s, err := Open(context.Background(), cfg, logger)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		s.Close()
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"}, nil)
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestQueryTimeout_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.GetUser(ctx, 1); err == nil {
		t.Fatal("expected error with cancelled context")
	}
}

func TestDefaultQueryTimeout(t *testing.T) {
	s := newTestStore(t)
	if s.queryTimeout != 5*time.Second {
		t.Errorf("queryTimeout: got %v, want 5s", s.queryTimeout)
	}
}
