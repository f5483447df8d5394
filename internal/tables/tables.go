// Package tables caches table metadata for the bulk import steps.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dynoinc/skyload/internal/database"
)

// State is the lifecycle state of a table.
type State string

const (
	StateNew      State = "NEW"
	StateOnline   State = "ONLINE"
	StateOffline  State = "OFFLINE"
	StateDeleting State = "DELETING"
)

// ErrNotFound is returned for tables that do not exist.
var ErrNotFound = errors.New("table not found")

// Config holds the cache settings.
type Config struct {
	CacheSize int `split_words:"true" default:"1024"`
}

// Getter loads a single table.
type Getter interface {
	GetTable(ctx context.Context, tableID string) (database.Table, error)
}

// Cache is a read-through cache of table states. Invalidate drops every
// entry so the next read observes the latest committed state.
type Cache struct {
	db    Getter
	cache *lru.Cache[string, State]
}

func NewCache(cfg Config, db Getter) (*Cache, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = 1024
	}

	cache, err := lru.New[string, State](size)
	if err != nil {
		return nil, fmt.Errorf("creating table cache: %w", err)
	}

	return &Cache{db: db, cache: cache}, nil
}

// State returns the current state of tableID.
func (c *Cache) State(ctx context.Context, tableID string) (State, error) {
	if s, ok := c.cache.Get(tableID); ok {
		return s, nil
	}

	t, err := c.db.GetTable(ctx, tableID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, tableID)
	}
	if err != nil {
		return "", fmt.Errorf("loading table %s: %w", tableID, err)
	}

	s := State(t.State)
	c.cache.Add(tableID, s)
	return s, nil
}

// Invalidate drops all cached tables.
func (c *Cache) Invalidate() {
	c.cache.Purge()
}

// Forget drops a single cached table.
func (c *Cache) Forget(tableID string) {
	c.cache.Remove(tableID)
}

// notifyChannel is the Postgres channel table state changes are sent on.
const notifyChannel = "table_state"

// Watch keeps c in sync with state changes committed by other processes.
func Watch(ctx context.Context, db *pgxpool.Pool, c *Cache) error {
	return database.Watch(ctx, db, notifyChannel, func(tableID string) error {
		if tableID == "" {
			c.Invalidate()
			return nil
		}

		slog.DebugContext(ctx, "table state changed", "table_id", tableID)
		c.Forget(tableID)
		return nil
	})
}
