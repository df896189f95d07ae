package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/metrics"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

const defaultUserCacheSize = 1024

// UserStore is the persistence the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByKakaoID(ctx context.Context, kakaoID int64) (*domain.User, error)
	UpdateUserProfile(ctx context.Context, user *domain.User) error
}

// UserService resolves users by ID or Kakao identity. Lookups by ID go
// through an LRU cache that the service keeps current on profile changes.
type UserService struct {
	store  UserStore
	cache  *lru.Cache
	logger *slog.Logger
}

// NewUserService creates a new user service with a cache of cacheSize
// entries. A non-positive size uses the default.
func NewUserService(store UserStore, cacheSize int, logger *slog.Logger) (*UserService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultUserCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create user cache: %w", err)
	}
	return &UserService{
		store:  store,
		cache:  cache,
		logger: logger,
	}, nil
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	if cached, ok := s.cache.Get(userID); ok {
		metrics.RecordUserCacheLookup(true)
		u := *cached.(*domain.User)
		return &u, nil
	}
	metrics.RecordUserCacheLookup(false)

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user %d not found", userID)
	}
	s.remember(user)
	return user, nil
}

// FindOrCreateByKakao returns the user linked to the Kakao profile, creating
// it on first login. Changed profile fields are written back on later logins.
func (s *UserService) FindOrCreateByKakao(ctx context.Context, profile *domain.KakaoProfile) (*domain.User, error) {
	user, err := s.store.GetUserByKakaoID(ctx, profile.ID)
	switch {
	case err == nil:
		return s.refreshProfile(ctx, user, profile)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get user by kakao id: %w", err)
	}

	user = &domain.User{
		KakaoID:         profile.ID,
		Email:           profile.Email,
		Nickname:        profile.Nickname,
		ProfileImageURL: profile.ProfileImageURL,
	}
	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, store.ErrAlreadyExists) {
		// A concurrent first login for the same account won the insert.
		user, err = s.store.GetUserByKakaoID(ctx, profile.ID)
		if err != nil {
			return nil, fmt.Errorf("reload user after concurrent signup: %w", err)
		}
		return s.refreshProfile(ctx, user, profile)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.FromContext(ctx, s.logger).Info("user signed up", "user_id", user.ID, "kakao_id", user.KakaoID)
	s.remember(user)
	return user, nil
}

func (s *UserService) refreshProfile(ctx context.Context, user *domain.User, profile *domain.KakaoProfile) (*domain.User, error) {
	if sameString(user.Email, profile.Email) &&
		sameString(user.Nickname, profile.Nickname) &&
		sameString(user.ProfileImageURL, profile.ProfileImageURL) {
		s.remember(user)
		return user, nil
	}

	user.Email = profile.Email
	user.Nickname = profile.Nickname
	user.ProfileImageURL = profile.ProfileImageURL
	if err := s.store.UpdateUserProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update user profile: %w", err)
	}

	logger.FromContext(ctx, s.logger).Debug("user profile refreshed", "user_id", user.ID)
	s.remember(user)
	return user, nil
}

func (s *UserService) remember(user *domain.User) {
	u := *user
	s.cache.Add(user.ID, &u)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
