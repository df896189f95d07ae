// Package kakao is a small client for Kakao Login: the authorize URL, the
// authorization-code exchange and the user profile endpoint. Calls go through
// a circuit breaker so a Kakao outage fails fast instead of piling up requests.
package kakao

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/domain"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/metrics"
)

// Default Kakao endpoints.
const (
	DefaultAuthorizeURL = "https://kauth.kakao.com/oauth/authorize"
	DefaultTokenURL     = "https://kauth.kakao.com/oauth/token"
	DefaultUserInfoURL  = "https://kapi.kakao.com/v2/user/me"

	defaultHTTPTimeout = 10 * time.Second
	maxBodyBytes       = 1 << 20
	breakerName        = "kakao-api"
)

var (
	// ErrNotConfigured means the client ID or redirect URI is missing.
	ErrNotConfigured = errors.New("kakao oauth is not configured")
	// ErrUnavailable means the breaker is open and the call was not attempted.
	ErrUnavailable = errors.New("kakao api temporarily unavailable")
)

// APIError is a non-2xx response from Kakao.
type APIError struct {
	Status      int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("kakao api: status %d: %s (%s)", e.Status, e.Description, e.Code)
	}
	return fmt.Sprintf("kakao api: status %d", e.Status)
}

// Config holds the OAuth application settings.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPTimeout  time.Duration

	// Endpoint overrides, empty means the Kakao defaults.
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
}

// Token is the subset of the token endpoint response the server uses.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// Client talks to Kakao.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// New creates a client. It does not validate cfg; calls fail with
// ErrNotConfigured when required settings are missing.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if cfg.AuthorizeURL == "" {
		cfg.AuthorizeURL = DefaultAuthorizeURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = DefaultUserInfoURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}

	c.cb = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Kakao rejecting a bad code or token is not an outage.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return apiErr.Status < http.StatusInternalServerError
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return c
}

// BreakerState reports the circuit breaker state: closed, half-open or open.
func (c *Client) BreakerState() string { return c.cb.State().String() }

// ClientID returns the configured REST API key.
func (c *Client) ClientID() string { return c.cfg.ClientID }

// RedirectURI returns the configured callback URL.
func (c *Client) RedirectURI() string { return c.cfg.RedirectURI }

// AuthorizeURL builds the Kakao consent page URL. state is omitted when empty.
func (c *Client) AuthorizeURL(state string) (string, error) {
	if err := c.checkConfig(); err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	if state != "" {
		params.Set("state", state)
	}
	return c.cfg.AuthorizeURL + "?" + params.Encode(), nil
}

// ExchangeCode trades an authorization code for a Kakao access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if err := c.checkConfig(); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("code", strings.TrimSpace(code))
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}

	body, err := c.do(ctx, "token", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("decode kakao token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("kakao token response has no access_token")
	}
	return &token, nil
}

type userInfoResponse struct {
	ID           int64 `json:"id"`
	KakaoAccount *struct {
		Email   *string `json:"email"`
		Profile *struct {
			Nickname        *string `json:"nickname"`
			ProfileImageURL *string `json:"profile_image_url"`
		} `json:"profile"`
	} `json:"kakao_account"`
}

// UserInfo fetches the profile behind a Kakao access token.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*domain.KakaoProfile, error) {
	body, err := c.do(ctx, "user_info", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserInfoURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(accessToken))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	var res userInfoResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode kakao user: %w", err)
	}
	if res.ID == 0 {
		return nil, fmt.Errorf("kakao user response has no id")
	}

	profile := &domain.KakaoProfile{ID: res.ID}
	if acct := res.KakaoAccount; acct != nil {
		profile.Email = acct.Email
		if p := acct.Profile; p != nil {
			profile.Nickname = p.Nickname
			profile.ProfileImageURL = p.ProfileImageURL
		}
	}
	return profile, nil
}

// do runs one request through the breaker and returns the 2xx body.
func (c *Client) do(ctx context.Context, operation string, build func() (*http.Request, error)) ([]byte, error) {
	start := time.Now()

	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := build()
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("kakao %s: %w", operation, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read kakao %s: %w", operation, err)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, parseAPIError(resp.StatusCode, data)
		}
		return data, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordKakaoRequest(operation, "rejected", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		metrics.RecordKakaoRequest(operation, "failure", time.Since(start))
		c.logger.Warn("kakao request failed", "operation", operation, "error", err)
		return nil, err
	}

	metrics.RecordKakaoRequest(operation, "success", time.Since(start))
	return body, nil
}

func (c *Client) checkConfig() error {
	if c.cfg.ClientID == "" || c.cfg.RedirectURI == "" {
		return ErrNotConfigured
	}
	return nil
}

// parseAPIError reads both the kauth ({error, error_description}) and the
// kapi ({code, msg}) error shapes.
func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Code             int    `json:"code"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	switch {
	case payload.Error != "":
		apiErr.Code = payload.Error
		if payload.ErrorCode != "" {
			apiErr.Code = payload.ErrorCode
		}
		apiErr.Description = payload.ErrorDescription
	case payload.Msg != "":
		apiErr.Code = fmt.Sprintf("%d", payload.Code)
		apiErr.Description = payload.Msg
	}
	return apiErr
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
