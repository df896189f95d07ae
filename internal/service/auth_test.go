package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/auth"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	domainerrors "github.com/hyojeonglee673-dot/massi5-backend/internal/errors"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/kakao"
)

type fakeKakao struct {
	profile     *domain.KakaoProfile
	exchangeErr error
	userInfoErr error
	codes       []string
}

func (f *fakeKakao) ClientID() string    { return "client-id" }
func (f *fakeKakao) RedirectURI() string { return "http://localhost/callback" }

func (f *fakeKakao) AuthorizeURL(state string) (string, error) {
	return "https://kauth.example/authorize?state=" + url.QueryEscape(state), nil
}

func (f *fakeKakao) ExchangeCode(_ context.Context, code string) (*kakao.Token, error) {
	f.codes = append(f.codes, code)
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &kakao.Token{AccessToken: "kakao-token", TokenType: "bearer"}, nil
}

func (f *fakeKakao) UserInfo(_ context.Context, accessToken string) (*domain.KakaoProfile, error) {
	if f.userInfoErr != nil {
		return nil, f.userInfoErr
	}
	return f.profile, nil
}

func setupTestAuthService(t *testing.T, provider *fakeKakao) (*AuthService, func()) {
	t.Helper()

	s, cleanupStore := setupTestStore(t)

	secret := []byte("0123456789abcdef0123456789abcdef")
	tokens, err := auth.NewTokenService(secret, time.Hour)
	require.NoError(t, err)
	states, err := auth.NewStateService(secret, auth.DefaultStateTTL)
	require.NoError(t, err)
	denylist, err := auth.OpenDenylist("", testLogger())
	require.NoError(t, err)
	users, err := NewUserService(s, 16, testLogger())
	require.NoError(t, err)

	svc := NewAuthService(provider, tokens, states, denylist, users, testLogger())
	cleanup := func() {
		denylist.Close()
		cleanupStore()
	}
	return svc, cleanup
}

func TestAuthService_OAuthLink(t *testing.T) {
	svc, cleanup := setupTestAuthService(t, &fakeKakao{})
	defer cleanup()

	link, err := svc.OAuthLink()
	require.NoError(t, err)
	assert.Equal(t, "client-id", link.ClientID)
	assert.Equal(t, "code", link.ResponseType)
	assert.NotEmpty(t, link.State)
	assert.Contains(t, link.AuthURL, url.QueryEscape(link.State))
}

func TestAuthService_LoginAuthenticateLogout(t *testing.T) {
	provider := &fakeKakao{profile: &domain.KakaoProfile{ID: 31, Nickname: strPtr("kim")}}
	svc, cleanup := setupTestAuthService(t, provider)
	defer cleanup()
	ctx := context.Background()

	link, err := svc.OAuthLink()
	require.NoError(t, err)

	result, err := svc.Login(ctx, " the-code ", link.State)
	require.NoError(t, err)
	assert.Equal(t, []string{"the-code"}, provider.codes)
	assert.Equal(t, TokenTypeBearer, result.TokenType)
	assert.Equal(t, 3600, result.ExpiresIn)
	assert.Equal(t, int64(31), result.User.KakaoID)

	session, err := svc.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, session.User.ID)

	require.NoError(t, svc.Logout(session))

	_, err = svc.Authenticate(ctx, result.AccessToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	provider := &fakeKakao{profile: &domain.KakaoProfile{ID: 1}}
	svc, cleanup := setupTestAuthService(t, provider)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = svc.Login(ctx, "code", "forged-state")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)
	assert.Empty(t, provider.codes, "code must not be exchanged with a bad state")
}

func TestAuthService_Login_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domainerrors.Error
	}{
		{"unavailable", kakao.ErrUnavailable, domainerrors.ErrUpstream},
		{"not configured", kakao.ErrNotConfigured, domainerrors.ErrInternal},
		{"bad code", &kakao.APIError{Status: http.StatusBadRequest, Code: "invalid_grant"}, domainerrors.ErrInvalidArgument},
		{"server error", &kakao.APIError{Status: http.StatusInternalServerError}, domainerrors.ErrUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, cleanup := setupTestAuthService(t, &fakeKakao{exchangeErr: tt.err})
			defer cleanup()

			_, err := svc.Login(context.Background(), "code", "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_KakaoUserInfo(t *testing.T) {
	provider := &fakeKakao{profile: &domain.KakaoProfile{ID: 5, Email: strPtr("a@b.c")}}
	svc, cleanup := setupTestAuthService(t, provider)
	defer cleanup()
	ctx := context.Background()

	profile, err := svc.KakaoUserInfo(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, int64(5), profile.ID)

	_, err = svc.KakaoUserInfo(ctx, " ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	provider.userInfoErr = &kakao.APIError{Status: http.StatusUnauthorized}
	_, err = svc.KakaoUserInfo(ctx, "expired")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestAuthService_Authenticate_Invalid(t *testing.T) {
	svc, cleanup := setupTestAuthService(t, &fakeKakao{})
	defer cleanup()

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	token, _, err := svc.tokens.GenerateAccessToken(12345)
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated, "unknown user")
}
