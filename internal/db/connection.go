package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds database configuration
type Config struct {
	DatabaseURL string
}

// Connection is a pgx pool together with the manifest queries
type Connection struct {
	*Queries
	pool *pgxpool.Pool
	cfg  Config
}

// NewConnection opens a pool with pgx default settings and pings it
func NewConnection(ctx context.Context, cfg Config) (*Connection, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{
		Queries: New(pool),
		pool:    pool,
		cfg:     cfg,
	}, nil
}

// RunMigrations applies all pending migrations. golang-migrate's postgres
// driver works on database/sql, so it gets its own lib/pq handle.
func (c *Connection) RunMigrations(ctx context.Context) error {
	sqlDB, err := sql.Open("postgres", c.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping migration connection: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Migrations completed successfully")
	return nil
}

// Close closes the database connection pool
func (c *Connection) Close() {
	c.pool.Close()
}

// Pool returns the underlying connection pool
func (c *Connection) Pool() *pgxpool.Pool {
	return c.pool
}

// Health checks if the database is reachable
func (c *Connection) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return c.pool.Ping(ctx)
}

// WaitForConnection retries NewConnection with exponential backoff
func WaitForConnection(ctx context.Context, cfg Config, maxRetries int) (*Connection, error) {
	var conn *Connection
	var err error

	backoff := time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = NewConnection(ctx, cfg)
		if err == nil {
			return conn, nil
		}

		slog.Debug("Database not ready", "attempt", i+1, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			if backoff > 30*time.Second {
				backoff = 30 * time.Second
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", maxRetries, err)
}

// Open connects with retries and applies migrations
func Open(ctx context.Context, cfg Config) (*Connection, error) {
	conn, err := WaitForConnection(ctx, cfg, 5)
	if err != nil {
		return nil, err
	}
	if err := conn.RunMigrations(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
