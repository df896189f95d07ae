package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "requestOAuthLink",
		Method:      http.MethodGet,
		Path:        "/auth/request-oauth-link",
		Summary:     "Kakao login link",
		Description: "Returns the Kakao authorize URL with a signed state parameter",
		Tags:        []string{"Authentication"},
	}, s.handleRequestOAuthLink)

	huma.Register(s.api, huma.Operation{
		OperationID: "requestAccessToken",
		Method:      http.MethodGet,
		Path:        "/auth/request-access-token-after-redirection",
		Summary:     "Complete Kakao login",
		Description: "Exchanges the authorization code from the Kakao redirect and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleRequestAccessToken)

	huma.Register(s.api, huma.Operation{
		OperationID: "kakaoUserInfo",
		Method:      http.MethodGet,
		Path:        "/auth/user-info",
		Summary:     "Kakao profile",
		Description: "Returns the Kakao profile behind a Kakao access token",
		Tags:        []string{"Authentication"},
	}, s.handleKakaoUserInfo)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Logout",
		Description: "Revokes the presented access token",
		Tags:        []string{"Authentication"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogout)
}

// === DTOs ===

// OAuthLinkResponse is the Kakao authorize link.
type OAuthLinkResponse struct {
	AuthURL      string `json:"auth_url" doc:"Kakao authorize URL"`
	ClientID     string `json:"client_id" doc:"Kakao REST API key"`
	RedirectURI  string `json:"redirect_uri" doc:"Registered redirect URI"`
	ResponseType string `json:"response_type" doc:"Always code"`
	State        string `json:"state" doc:"Signed state to send back after the redirect"`
}

// OAuthLinkOutput wraps the link for Huma.
type OAuthLinkOutput struct {
	Body OAuthLinkResponse
}

// AccessTokenInput carries the Kakao redirect parameters.
type AccessTokenInput struct {
	Code  string `query:"code" doc:"Authorization code from the Kakao redirect"`
	State string `query:"state" doc:"State returned by request-oauth-link"`
}

// TokenResponse is an issued access token.
type TokenResponse struct {
	AccessToken string `json:"access_token" doc:"JWT access token"`
	TokenType   string `json:"token_type" doc:"Token type (bearer)"`
	ExpiresIn   int    `json:"expires_in" doc:"Token lifetime in seconds"`
}

// UserResponse contains user information.
type UserResponse struct {
	ID              int64   `json:"id" doc:"User ID"`
	KakaoID         int64   `json:"kakao_id" doc:"Kakao account ID"`
	Nickname        *string `json:"nickname" doc:"Nickname"`
	Email           *string `json:"email" doc:"Email address"`
	ProfileImageURL *string `json:"profile_image_url" doc:"Profile image URL"`
}

// LoginResponse contains the access token and the signed-in user.
type LoginResponse struct {
	Token    TokenResponse `json:"token"`
	UserInfo UserResponse  `json:"user_info"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// KakaoUserInfoInput carries a Kakao access token.
type KakaoUserInfoInput struct {
	AccessToken string `query:"access_token" doc:"Kakao access token"`
}

// KakaoProfileResponse is a Kakao profile.
type KakaoProfileResponse struct {
	ID              int64   `json:"id" doc:"Kakao account ID"`
	Nickname        *string `json:"nickname" doc:"Nickname"`
	Email           *string `json:"email" doc:"Email address"`
	ProfileImageURL *string `json:"profile_image_url" doc:"Profile image URL"`
}

// KakaoProfileOutput wraps the profile for Huma.
type KakaoProfileOutput struct {
	Body KakaoProfileResponse
}

// UserOutput wraps a user for Huma.
type UserOutput struct {
	Body UserResponse
}

// MessageResponse contains a simple message.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleRequestOAuthLink(_ context.Context, _ *struct{}) (*OAuthLinkOutput, error) {
	link, err := s.services.Auth.OAuthLink()
	if err != nil {
		return nil, err
	}

	return &OAuthLinkOutput{
		Body: OAuthLinkResponse{
			AuthURL:      link.AuthURL,
			ClientID:     link.ClientID,
			RedirectURI:  link.RedirectURI,
			ResponseType: link.ResponseType,
			State:        link.State,
		},
	}, nil
}

func (s *Server) handleRequestAccessToken(ctx context.Context, input *AccessTokenInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, input.Code, input.State)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Body: mapLoginResponse(result)}, nil
}

func (s *Server) handleKakaoUserInfo(ctx context.Context, input *KakaoUserInfoInput) (*KakaoProfileOutput, error) {
	profile, err := s.services.Auth.KakaoUserInfo(ctx, input.AccessToken)
	if err != nil {
		return nil, err
	}

	return &KakaoProfileOutput{
		Body: KakaoProfileResponse{
			ID:              profile.ID,
			Nickname:        profile.Nickname,
			Email:           profile.Email,
			ProfileImageURL: profile.ProfileImageURL,
		},
	}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	session, err := GetSession(ctx)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(session.User)}, nil
}

func (s *Server) handleLogout(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	session, err := GetSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.Logout(session); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Logged out successfully"}}, nil
}

// === Mappers ===

func mapLoginResponse(result *service.LoginResult) LoginResponse {
	return LoginResponse{
		Token: TokenResponse{
			AccessToken: result.AccessToken,
			TokenType:   result.TokenType,
			ExpiresIn:   result.ExpiresIn,
		},
		UserInfo: mapUserResponse(result.User),
	}
}

func mapUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		KakaoID:         u.KakaoID,
		Nickname:        u.Nickname,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}
