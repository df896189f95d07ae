package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
)

// CreateUser inserts a new user and fills in its ID and timestamps.
// Returns ErrAlreadyExists if the Kakao ID is already registered.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	row := userRowFrom(user)
	row.ID = 0
	if _, err := s.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = row.ID
	return nil
}

// GetUser returns a user by primary key.
func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.toDomain(), nil
}

// GetUserByKakaoID returns the user registered with a Kakao account ID.
func (s *Store) GetUserByKakaoID(ctx context.Context, kakaoID int64) (*domain.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("u.kakao_id = ?", kakaoID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by kakao id: %w", err)
	}
	return row.toDomain(), nil
}

// UpdateUserProfile overwrites the profile fields Kakao may change between logins.
func (s *Store) UpdateUserProfile(ctx context.Context, user *domain.User) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user.UpdatedAt = time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*userRow)(nil)).
		Set("email = ?", user.Email).
		Set("nickname = ?", user.Nickname).
		Set("profile_image_url = ?", user.ProfileImageURL).
		Set("updated_at = ?", user.UpdatedAt).
		Where("id = ?", user.ID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireAffected(res)
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.db.NewSelect().Model((*userRow)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
