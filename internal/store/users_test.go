package store

import (
	"context"
	"errors"
	"testing"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

func newUser(kakaoID int64, nickname string) *domain.User {
	return &domain.User{KakaoID: kakaoID, Nickname: &nickname}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, 4242)
	if u.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.KakaoID != 4242 {
		t.Errorf("KakaoID: got %d, want 4242", got.KakaoID)
	}
	if got.Nickname == nil || *got.Nickname != "user" {
		t.Errorf("Nickname: got %v", got.Nickname)
	}
	if got.Email != nil {
		t.Errorf("Email: got %v, want nil", *got.Email)
	}

	byKakao, err := s.GetUserByKakaoID(ctx, 4242)
	if err != nil {
		t.Fatalf("GetUserByKakaoID: %v", err)
	}
	if byKakao.ID != u.ID {
		t.Errorf("ID: got %d, want %d", byKakao.ID, u.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = s.GetUserByKakaoID(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateKakaoID(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, 7)

	err := s.CreateUser(context.Background(), newUser(7, "dup"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, 11)

	email := "new@example.com"
	nick := "renamed"
	u.Email = &email
	u.Nickname = &nick
	if err := s.UpdateUserProfile(ctx, u); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email == nil || *got.Email != email {
		t.Errorf("Email: got %v, want %q", got.Email, email)
	}
	if got.Nickname == nil || *got.Nickname != nick {
		t.Errorf("Nickname: got %v, want %q", got.Nickname, nick)
	}
}

func TestUpdateUserProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	u := newUser(1, "ghost")
	u.ID = 12345
	if err := s.UpdateUserProfile(context.Background(), u); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, 1)
	seedUser(t, s, 2)

	n, err := s.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if n != 2 {
		t.Errorf("CountUsers: got %d, want 2", n)
	}
}
