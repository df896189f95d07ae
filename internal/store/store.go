// Package store persists users, lunch records and reactions through bun.
// SQLite (modernc, pure Go) is the default backend; PostgreSQL is selected
// with Driver "postgres".
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"

	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultQueryTimeout = 5 * time.Second

// Config selects and tunes the database backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is a file path for sqlite or a postgres:// URL.
	DSN string
	// QueryTimeout bounds every single store call. Zero means 5s.
	QueryTimeout time.Duration
}

// Store provides bun-backed persistence for the lunch service.
type Store struct {
	db           *bun.DB
	driver       string
	queryTimeout time.Duration
	logger       *slog.Logger
}

// Open connects to the configured backend and creates the schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}

	var db *bun.DB
	switch cfg.Driver {
	case "", DriverSQLite:
		cfg.Driver = DriverSQLite
		sqldb, err := sql.Open("sqlite", sqliteDSN(cfg.DSN))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// One writer at a time; a small pool still helps concurrent readers.
		sqldb.SetMaxOpenConns(4)
		sqldb.SetMaxIdleConns(2)
		sqldb.SetConnMaxLifetime(time.Hour)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	s := &Store{
		db:           db,
		driver:       cfg.Driver,
		queryTimeout: cfg.QueryTimeout,
		logger:       logger,
	}

	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger.Info("store opened", "driver", cfg.Driver)
	return s, nil
}

// sqliteDSN appends the connection pragmas so every pooled connection gets them.
func sqliteDSN(path string) string {
	if path == "" {
		path = "massi5.db"
	}
	return "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(ON)" +
		"&_pragma=busy_timeout(5000)"
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the backend name.
func (s *Store) Driver() string {
	return s.driver
}

// Ping checks that the database answers within the query timeout.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.db.PingContext(ctx)
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

var schemaModels = []any{
	(*userRow)(nil),
	(*lunchRecordRow)(nil),
	(*reactionRow)(nil),
}

var schemaIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_lunch_records_user_recorded ON lunch_records(user_id, recorded_at)",
	"CREATE INDEX IF NOT EXISTS idx_lunch_records_category_id ON lunch_records(category, id)",
	"CREATE INDEX IF NOT EXISTS idx_reactions_record ON reactions(lunch_record_id)",
}

func (s *Store) createSchema(ctx context.Context) error {
	for _, model := range schemaModels {
		q := s.db.NewCreateTable().
			Model(model).
			IfNotExists()

		switch model.(type) {
		case *lunchRecordRow:
			q = q.ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
		case *reactionRow:
			q = q.ForeignKey(`("lunch_record_id") REFERENCES "lunch_records" ("id") ON DELETE CASCADE`).
				ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
		}

		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, idx := range schemaIndexes {
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
