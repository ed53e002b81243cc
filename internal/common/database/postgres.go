package database

import (
	"context"
	"database/sql"
	"fmt"

	"property-search/internal/common/config"

	_ "github.com/lib/pq"
)

// OpenPostgres opens the snapshot database and verifies it answers. The pool
// is sized from cfg; the handle is closed again when the ping fails.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	return db, nil
}

func configurePool(db *sql.DB, cfg config.PostgresConfig) {
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.ConnLifetime > 0 {
		lifetime := config.GetDuration(cfg.ConnLifetime)
		db.SetConnMaxLifetime(lifetime)
		db.SetConnMaxIdleTime(lifetime)
	}
}
