package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the record store and the Kakao client. Always 200; read status.",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"healthy, degraded or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Round trip for the check"`
	Message string `json:"message,omitempty" doc:"Why the component is not healthy"`
}

// HealthResponse is the overall status plus one entry per component.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Worst component status"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component status"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
	}
	if s.services.Kakao != nil {
		components["kakao"] = checkProvider(s.services.Kakao)
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     worstStatus(components),
			Components: components,
		},
	}, nil
}

// checkDatabase pings the record store.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start).String()

	if err != nil {
		logger.FromContext(ctx, s.logger).Warn("health check: database ping failed", "error", err)
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: "database ping failed"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency}
}

// checkProvider maps the breaker state. Logins fail fast while it is open,
// but the rest of the API keeps working, so the worst case is degraded.
func checkProvider(p ProviderStatus) ComponentHealth {
	switch state := p.BreakerState(); state {
	case "closed":
		return ComponentHealth{Status: statusHealthy}
	default:
		return ComponentHealth{Status: statusDegraded, Message: "circuit breaker " + state}
	}
}

func worstStatus(components map[string]ComponentHealth) string {
	rank := map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}
	worst := statusHealthy
	for _, c := range components {
		if rank[c.Status] > rank[worst] {
			worst = c.Status
		}
	}
	return worst
}
