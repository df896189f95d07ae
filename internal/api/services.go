package api

import "github.com/hyojeonglee673-dot/massi5-backend/internal/service"

// Services groups the business logic the API server calls.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	LunchRecords *service.LunchRecordService
	Feed         service.FeedAggregator
	Reactions    service.ReactionToggler
	Reports      service.ReportAggregator

	// Kakao reports the OAuth client's breaker for /health. Optional.
	Kakao ProviderStatus
}

// ProviderStatus exposes an upstream client's circuit breaker state.
type ProviderStatus interface {
	BreakerState() string
}
