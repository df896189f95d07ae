package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const denylistPrefix = "revoked:"

// Denylist records revoked access token IDs until the tokens would have
// expired anyway. Entries vanish through badger's TTL.
type Denylist struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time
}

// OpenDenylist opens the denylist at path. An empty path keeps it in memory.
func OpenDenylist(path string, logger *slog.Logger) (*Denylist, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil            // Disable Badger's internal logging
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open denylist: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Denylist{db: db, logger: logger, now: time.Now}, nil
}

// Revoke denies tokenID until expiresAt. Already expired tokens are ignored.
func (d *Denylist) Revoke(tokenID string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}

	err := d.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(denylistPrefix+tokenID), nil).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	d.logger.Debug("token revoked", "jti", tokenID, "ttl", ttl)
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *Denylist) IsRevoked(tokenID string) (bool, error) {
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(denylistPrefix + tokenID))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}

// Close closes the underlying database.
func (d *Denylist) Close() error {
	return d.db.Close()
}
