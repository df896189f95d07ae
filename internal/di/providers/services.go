package providers

import (
	"github.com/samber/do/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/auth"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/kakao"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/service"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/validation"
)

// ProvideUserService provides the cached user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, userCacheSize, log.Logger)
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	kakaoClient := do.MustInvoke[*kakao.Client](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	stateService := do.MustInvoke[*auth.StateService](i)
	denylist := do.MustInvoke[*DenylistHandle](i)
	userService := do.MustInvoke[*service.UserService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(kakaoClient, tokenService, stateService, denylist.Denylist, userService, log.Logger), nil
}

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideLunchRecordService provides the lunch record service.
func ProvideLunchRecordService(i do.Injector) (*service.LunchRecordService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLunchRecordService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideFeedService provides the community feed service.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(storeHandle.Store, log.Logger), nil
}

// ProvideReactionService provides the reaction toggle service.
func ProvideReactionService(i do.Injector) (*service.ReactionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReactionService(storeHandle.Store, log.Logger), nil
}

// ProvideReportService provides the period report service.
func ProvideReportService(i do.Injector) (*service.ReportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReportService(storeHandle.Store, log.Logger), nil
}
