// Package database holds the PostgreSQL connection pool shared by the
// introspection and apply commands.
package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	mu   sync.Mutex
	pool *pgxpool.Pool
)

// GetPool returns the process-wide pool, creating and pinging it on first
// use. Later calls return the same pool whatever url they pass.
func GetPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return pool, nil
	}
	if url == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	pool = p
	return pool, nil
}

// ClosePool closes the pool (should be called on application shutdown).
func ClosePool() {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}
