// Package store persists carts, saved designs, wishlists and orders in a
// local SQLite database. It is the explicit load/save boundary for state
// that the rest of printshop keeps in memory.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps the printshop database.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	log    *zap.Logger
}

// Open creates or opens the database at path and ensures the schema exists.
// A nil logger discards output.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite has a single writer and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, log: log}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	log.Debug("store opened", zap.String("path", path))
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// initSchema creates the database schema.
func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	-- Single-row cart snapshot
	CREATE TABLE IF NOT EXISTS cart (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		state_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	-- Saved designs
	CREATE TABLE IF NOT EXISTS designs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		product_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_designs_product ON designs(product_id);
	CREATE INDEX IF NOT EXISTS idx_designs_created ON designs(created_at);

	-- Wishlist, ordered by position
	CREATE TABLE IF NOT EXISTS wishlist (
		product_id TEXT PRIMARY KEY,
		position INTEGER NOT NULL
	);

	-- Orders
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}
