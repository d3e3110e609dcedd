// Package client provides the pooled database client that executes rendered
// statements for the resource layer.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx PostgreSQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/stuck-lehnert/cloud/query/sqlgen"
)

// Executor runs rendered statements and opens transactions. *Client and *Tx
// implement it.
type Executor interface {
	// Query runs stmt and returns every result row keyed by column name.
	Query(ctx context.Context, stmt sqlgen.Fragment) ([]map[string]any, error)

	// Transaction runs fn inside a transaction that is rolled back if fn
	// returns an error or panics and committed otherwise.
	Transaction(ctx context.Context, fn func(tx Executor) error) error
}

// Config holds client settings.
type Config struct {
	Provider        string
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	Middlewares     []Middleware
}

// Option configures a Client.
type Option func(*Config)

// WithProvider sets the provider: postgres, pgx or sqlite.
func WithProvider(provider string) Option {
	return func(c *Config) { c.Provider = provider }
}

// WithDatabaseURL sets the connection string.
func WithDatabaseURL(url string) Option {
	return func(c *Config) { c.DatabaseURL = url }
}

// WithMaxOpenConns limits open connections.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) { c.MaxOpenConns = n }
}

// WithMaxIdleConns limits idle connections.
func WithMaxIdleConns(n int) Option {
	return func(c *Config) { c.MaxIdleConns = n }
}

// WithConnMaxLifetime limits the lifetime of a pooled connection.
func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *Config) { c.ConnMaxLifetime = d }
}

// WithQueryTimeout bounds every single query. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) { c.QueryTimeout = d }
}

// WithMiddleware appends query middleware.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Config) { c.Middlewares = append(c.Middlewares, mw...) }
}

// DefaultConfig returns the pool defaults.
func DefaultConfig() Config {
	return Config{
		Provider:        "postgres",
		MaxOpenConns:    10,
		MaxIdleConns:    3,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Client executes statements on a pooled *sql.DB.
type Client struct {
	db     *sql.DB
	config Config
}

// DriverName maps a provider name to its registered database/sql driver.
func DriverName(provider string) (string, error) {
	switch provider {
	case "postgresql", "postgres":
		return "postgres", nil
	case "pgx":
		return "pgx", nil
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	driver, err := DriverName(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}

	db, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db, config: cfg}, nil
}

// New wraps an existing connection pool. Pool limits in opts are ignored;
// the caller owns the pool settings.
func New(db *sql.DB, opts ...Option) *Client {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Client{db: db, config: cfg}
}

// Use appends query middleware. It must not be called concurrently with
// queries.
func (c *Client) Use(mw ...Middleware) {
	c.config.Middlewares = append(c.config.Middlewares, mw...)
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.config.Provider
}

// DB returns the underlying pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Query runs stmt on a pooled connection.
func (c *Client) Query(ctx context.Context, stmt sqlgen.Fragment) ([]map[string]any, error) {
	return c.run(ctx, c.db, stmt, false)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (c *Client) run(ctx context.Context, q queryer, stmt sqlgen.Fragment, inTx bool) ([]map[string]any, error) {
	info := QueryInfo{SQL: stmt.SQL, Args: stmt.Args, InTransaction: inTx}

	handler := func(ctx context.Context, info QueryInfo) QueryResult {
		start := time.Now()
		rows, err := c.query(ctx, q, info)
		return QueryResult{Rows: rows, Err: err, Duration: time.Since(start)}
	}

	res := chain(c.config.Middlewares, handler)(ctx, info)
	return res.Rows, res.Err
}

func (c *Client) query(ctx context.Context, q queryer, info QueryInfo) ([]map[string]any, error) {
	if c.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.QueryTimeout)
		defer cancel()
	}

	rows, err := q.QueryContext(ctx, info.SQL, info.Args...)
	if err != nil {
		return nil, &ExecutionError{SQL: info.SQL, Err: err}
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, &ExecutionError{SQL: info.SQL, Err: err}
	}
	return out, nil
}

var _ Executor = (*Client)(nil)
