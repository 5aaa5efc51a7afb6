package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// Config captures the runtime configuration for the relational store.
type Config struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `json:"driver"`
	// DSN is the connection string, e.g. "file::memory:?cache=shared".
	DSN          string `json:"dsn"`
	MaxOpenConns int    `json:"max_open_conns,omitempty"`
}

// Open connects to the configured store and wraps it in a bun.DB with the
// matching dialect.
func Open(cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite3"
	}

	sqlDB, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	switch driver {
	case "sqlite3":
		// Shared-cache in-memory databases need a single connection or
		// every new conn sees an empty database.
		if strings.Contains(cfg.DSN, ":memory:") && cfg.MaxOpenConns == 0 {
			sqlDB.SetMaxOpenConns(1)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Driver)
	}
}
