// Package sqlite stores books in a SQLite table, one table per collection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/adfharrison1/bookshelf/pkg/domain"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Connector opens the database file at Path.
type Connector struct {
	path       string
	collection string
}

// NewConnector creates a connector for the given database path and table.
func NewConnector(path, collection string) *Connector {
	return &Connector{path: path, collection: collection}
}

// Connect opens, pings and migrates the database.
func (c *Connector) Connect(ctx context.Context) (domain.Session, error) {
	if strings.TrimSpace(c.path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if !tableNamePattern.MatchString(c.collection) {
		return nil, fmt.Errorf("invalid collection name %q", c.collection)
	}

	dsn := c.path
	if c.path != MemoryPath {
		dsn = filepath.Clean(c.path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if c.path == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{db: db, table: c.collection}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	zap.S().Debugf("SQLite database %s ready, table %s", c.path, c.collection)
	return &Session{db: db, store: store}, nil
}

// Session wraps an open database handle.
type Session struct {
	db    *sql.DB
	store *Store
}

// Books implements domain.Session.
func (s *Session) Books() domain.BookStore { return s.store }

// Close closes the database handle.
func (s *Session) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL CHECK (title <> ''),
		author TEXT NOT NULL CHECK (author <> ''),
		genre TEXT NOT NULL CHECK (genre <> ''),
		published_year INTEGER NOT NULL,
		price REAL NOT NULL CHECK (price >= 0),
		in_stock INTEGER NOT NULL,
		pages INTEGER NOT NULL CHECK (pages > 0),
		publisher TEXT NOT NULL CHECK (publisher <> '')
	)`, quote(s.table))
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
