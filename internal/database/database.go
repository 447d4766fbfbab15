package database

import (
	"context"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/kdesch5000/observium-mcp/internal/config"
)

// DB wraps the inventory database connection. The engine only ever issues
// SELECT queries against it.
type DB struct {
	*sqlx.DB
}

func New(cfg *config.Config) (*DB, error) {
	db, err := sqlx.Connect("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db}, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// HealthCheck verifies query execution, not just the connection.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	err := db.DB.QueryRowContext(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("database health check returned unexpected value: %d", result)
	}
	return nil
}
