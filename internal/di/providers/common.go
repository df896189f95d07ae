package providers

import "time"

const (
	// shutdownTimeout is the maximum time to wait for graceful shutdown of services.
	shutdownTimeout = 30 * time.Second

	// userCacheSize bounds the number of profiles kept in the user LRU.
	userCacheSize = 1024
)
