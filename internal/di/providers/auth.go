package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/auth"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/config"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/kakao"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
)

// AuthKey wraps the server signing secret.
type AuthKey []byte

// ProvideAuthKey returns the configured JWT secret or loads the generated one.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.ResolveSecret(cfg.Auth.JWTSecret, cfg.App.DataPath)
	if err != nil {
		return nil, err
	}

	log.Info("Authentication key loaded",
		"configured", cfg.Auth.JWTSecret != "",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the JWT access token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideStateService provides the OAuth state token service.
func ProvideStateService(i do.Injector) (*auth.StateService, error) {
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewStateService([]byte(authKey), auth.DefaultStateTTL)
}

// DenylistHandle wraps the revocation store with shutdown capability.
type DenylistHandle struct {
	*auth.Denylist
}

// Shutdown implements do.Shutdownable.
func (h *DenylistHandle) Shutdown() error {
	return h.Close()
}

// ProvideDenylist provides the revoked token store.
func ProvideDenylist(i do.Injector) (*DenylistHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	path := filepath.Join(cfg.App.DataPath, "denylist")
	denylist, err := auth.OpenDenylist(path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Token denylist opened", "path", path)
	return &DenylistHandle{Denylist: denylist}, nil
}

// ProvideKakaoClient provides the Kakao OAuth client.
func ProvideKakaoClient(i do.Injector) (*kakao.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Kakao.ClientID == "" || cfg.Kakao.RedirectURI == "" {
		log.Warn("Kakao login is not configured; auth endpoints will fail",
			"client_id_set", cfg.Kakao.ClientID != "",
			"redirect_uri_set", cfg.Kakao.RedirectURI != "",
		)
	}

	return kakao.New(kakao.Config{
		ClientID:     cfg.Kakao.ClientID,
		ClientSecret: cfg.Kakao.ClientSecret,
		RedirectURI:  cfg.Kakao.RedirectURI,
		HTTPTimeout:  cfg.Kakao.HTTPTimeout,
	}, log.Logger), nil
}
