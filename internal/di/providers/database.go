package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/hyojeonglee673-dot/massi5-backend/internal/config"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/logger"
	"github.com/hyojeonglee673-dot/massi5-backend/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	db, err := store.Open(ctx, store.Config{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.URL,
		QueryTimeout: cfg.Database.QueryTimeout,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	users, err := db.CountUsers(ctx)
	if err != nil {
		log.Warn("Failed to count users", "error", err)
	} else {
		log.Info("Database initialized", "driver", db.Driver(), "users", users)
	}

	return &StoreHandle{Store: db}, nil
}
