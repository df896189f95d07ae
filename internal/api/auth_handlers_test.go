package api

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestOAuthLink(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/auth/request-oauth-link")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	link := envelopeOf[OAuthLinkResponse](t, resp)
	assert.Equal(t, "test-client", link.ClientID)
	assert.Equal(t, "http://localhost/callback", link.RedirectURI)
	assert.Equal(t, "code", link.ResponseType)
	require.NotEmpty(t, link.State)

	u, err := url.Parse(link.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, link.State, u.Query().Get("state"))
	assert.Equal(t, "test-client", u.Query().Get("client_id"))
}

func TestLoginFlow(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	link := envelopeOf[OAuthLinkResponse](t, ts.api.Get("/auth/request-oauth-link"))

	resp := ts.api.Get("/auth/request-access-token-after-redirection?code=good-code&state=" + url.QueryEscape(link.State))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	login := envelopeOf[LoginResponse](t, resp)
	assert.Equal(t, "bearer", login.Token.TokenType)
	assert.Equal(t, 3600, login.Token.ExpiresIn)
	assert.Equal(t, int64(777), login.UserInfo.KakaoID)
	require.NotNil(t, login.UserInfo.Nickname)
	assert.Equal(t, "luncher", *login.UserInfo.Nickname)

	authHeader := "Authorization: Bearer " + login.Token.AccessToken

	resp = ts.api.Get("/auth/me", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	me := envelopeOf[UserResponse](t, resp)
	assert.Equal(t, login.UserInfo.ID, me.ID)

	resp = ts.api.Get("/users/" + strconv.FormatInt(me.ID, 10))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, int64(777), envelopeOf[UserResponse](t, resp).KakaoID)

	resp = ts.api.Post("/auth/logout", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/auth/me", authHeader)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_Errors(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"missing code", "", http.StatusBadRequest},
		{"forged state", "code=good-code&state=forged", http.StatusBadRequest},
		{"rejected code", "code=bad-code", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/auth/request-access-token-after-redirection?" + tt.query)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
		})
	}
}

func TestKakaoUserInfo(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/auth/user-info?access_token=kakao-access")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	profile := envelopeOf[KakaoProfileResponse](t, resp)
	assert.Equal(t, int64(777), profile.ID)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "lunch@example.com", *profile.Email)

	resp = ts.api.Get("/auth/user-info?access_token=expired")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/users/4040")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", errorOf(t, resp).Code)
}

func TestAuthMe_InvalidToken(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Get("/auth/me", "Authorization: Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
