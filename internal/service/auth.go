package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/auth"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/kakao"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
)

// TokenTypeBearer is the token_type returned on login.
const TokenTypeBearer = "bearer"

// OAuthProvider is the Kakao Login surface the auth service uses.
type OAuthProvider interface {
	ClientID() string
	RedirectURI() string
	AuthorizeURL(state string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*kakao.Token, error)
	UserInfo(ctx context.Context, accessToken string) (*domain.KakaoProfile, error)
}

// TokenRevoker tracks logged-out access tokens.
type TokenRevoker interface {
	Revoke(tokenID string, expiresAt time.Time) error
	IsRevoked(tokenID string) (bool, error)
}

// OAuthLink is everything a client needs to start Kakao Login.
type OAuthLink struct {
	AuthURL      string
	ClientID     string
	RedirectURI  string
	ResponseType string
	State        string
}

// LoginResult is a freshly issued session.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
	User        *domain.User
}

// Session is an authenticated request's identity.
type Session struct {
	User   *domain.User
	Claims *auth.AccessClaims
}

// AuthService runs Kakao Login and manages access tokens.
type AuthService struct {
	provider OAuthProvider
	tokens   *auth.TokenService
	states   *auth.StateService
	revoker  TokenRevoker
	users    *UserService
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	provider OAuthProvider,
	tokens *auth.TokenService,
	states *auth.StateService,
	revoker TokenRevoker,
	users *UserService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		provider: provider,
		tokens:   tokens,
		states:   states,
		revoker:  revoker,
		users:    users,
		logger:   logger,
	}
}

// OAuthLink builds the Kakao authorize link with a fresh state token.
func (s *AuthService) OAuthLink() (*OAuthLink, error) {
	state, err := s.states.Issue()
	if err != nil {
		return nil, fmt.Errorf("issue oauth state: %w", err)
	}

	authURL, err := s.provider.AuthorizeURL(state)
	if err != nil {
		return nil, mapProviderError(err)
	}

	return &OAuthLink{
		AuthURL:      authURL,
		ClientID:     s.provider.ClientID(),
		RedirectURI:  s.provider.RedirectURI(),
		ResponseType: "code",
		State:        state,
	}, nil
}

// Login exchanges the authorization code Kakao redirected with, signs the
// user in (creating the account on first login) and issues an access token.
// A non-empty state must be one this server issued.
func (s *AuthService) Login(ctx context.Context, code, state string) (*LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domainerrors.InvalidArgument("authorization code is required")
	}
	if state != "" {
		if err := s.states.Verify(state); err != nil {
			logger.FromContext(ctx, s.logger).Warn("rejected oauth state", "error", err)
			return nil, domainerrors.InvalidArgument("invalid or expired oauth state").WithCause(err)
		}
	}

	token, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, mapProviderError(err)
	}

	profile, err := s.provider.UserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, mapProviderError(err)
	}

	user, err := s.users.FindOrCreateByKakao(ctx, profile)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to issue access token")
	}

	logger.FromContext(ctx, s.logger).Info("user logged in", "user_id", user.ID)
	return &LoginResult{
		AccessToken: accessToken,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int(s.tokens.AccessTokenDuration().Seconds()),
		User:        user,
	}, nil
}

// KakaoUserInfo returns the Kakao profile behind a Kakao access token.
func (s *AuthService) KakaoUserInfo(ctx context.Context, accessToken string) (*domain.KakaoProfile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, domainerrors.InvalidArgument("access_token is required")
	}
	profile, err := s.provider.UserInfo(ctx, accessToken)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return profile, nil
}

// Authenticate verifies an access token and loads its user. Every failure is
// UNAUTHENTICATED except store errors other than a missing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthenticated("invalid or expired token").WithCause(err)
	}

	revoked, err := s.revoker.IsRevoked(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, domainerrors.Unauthenticated("token has been revoked")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, domainerrors.Unauthenticated("invalid token subject").WithCause(err)
	}

	user, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return nil, err
	}

	return &Session{User: user, Claims: claims}, nil
}

// Logout revokes the session's token until it would have expired.
func (s *AuthService) Logout(session *Session) error {
	if session == nil || session.Claims == nil {
		return domainerrors.ErrUnauthenticated
	}

	var expiresAt time.Time
	if session.Claims.ExpiresAt != nil {
		expiresAt = session.Claims.ExpiresAt.Time
	}
	if err := s.revoker.Revoke(session.Claims.ID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("user logged out", "user_id", session.User.ID)
	return nil
}

// mapProviderError turns Kakao client failures into domain errors.
func mapProviderError(err error) error {
	var apiErr *kakao.APIError
	switch {
	case errors.Is(err, kakao.ErrNotConfigured):
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "kakao login is not configured")
	case errors.Is(err, kakao.ErrUnavailable):
		return domainerrors.Wrap(err, domainerrors.CodeUpstream, "kakao is temporarily unavailable")
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest:
		return domainerrors.Wrap(err, domainerrors.CodeInvalidArgument, "kakao rejected the request")
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		return domainerrors.Wrap(err, domainerrors.CodeUnauthenticated, "kakao access token is invalid")
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUpstream, "kakao request failed")
	}
}
