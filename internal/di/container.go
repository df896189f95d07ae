// Package di provides dependency injection configuration for the lunch server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/auth"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/config"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/di/providers"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/kakao"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideStateService)
	do.Provide(injector, providers.ProvideDenylist)
	do.Provide(injector, providers.ProvideKakaoClient)

	// Business services
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideLunchRecordService)
	do.Provide(injector, providers.ProvideFeedService)
	do.Provide(injector, providers.ProvideReactionService)
	do.Provide(injector, providers.ProvideReportService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the HTTP server.
// Invoke errors surface here instead of on the first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	// Auth layer
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*auth.StateService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.DenylistHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*kakao.Client](injector); err != nil {
		return err
	}

	// Business services
	if _, err := do.Invoke[*service.AuthService](injector); err != nil {
		return err
	}

	// Server
	_, err := do.Invoke[*providers.HTTPServerHandle](injector)
	return err
}
