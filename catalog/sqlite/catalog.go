package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/tidwall/btree"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/mwantia/fileobj/data"
)

// SQLiteCatalog provides a persistent catalog using SQLite with two layers:
//
// Layer 1: In-memory B-tree for fast key → etag lookups (keys map)
// Layer 2: SQLite table (fileobj_catalog) for content and metadata
//
// This architecture enables:
// - Fast existence probes via B-tree (O(log n)) without touching the database
// - Persistent content across runs
// - Single-file deployment including the scratch ':memory:' form
type SQLiteCatalog struct {
	mu sync.RWMutex

	name string
	db   *sql.DB

	// In-memory B-tree for fast key lookups
	keys *btree.Map[string, string]
}

// NewSQLiteCatalog creates a new SQLite-backed catalog.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLiteCatalog(name, dbPath string) (*SQLiteCatalog, error) {
	if name == "" {
		name = "sqlite"
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// In-memory databases exist per connection, so the pool must stay at one
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, err
	}

	catalog := &SQLiteCatalog{
		name: name,
		db:   db,
		keys: btree.NewMap[string, string](0),
	}

	if err := catalog.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return catalog, nil
}

// initSchema creates the database schema.
func (sc *SQLiteCatalog) initSchema() error {
	schema := `
	-- Catalog storage
	CREATE TABLE IF NOT EXISTS fileobj_catalog (
		key TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		content_type TEXT,
		etag TEXT NOT NULL,
		modify_time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fileobj_catalog_etag ON fileobj_catalog(etag);
	`

	_, err := sc.db.Exec(schema)
	return err
}

// Name returns the identifier name defined for this catalog
func (sc *SQLiteCatalog) Name() string {
	return sc.name
}

// Open is part of the lifecycle behavious and gets called when opening this catalog.
func (sc *SQLiteCatalog) Open(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	// Verify database connection
	if err := sc.db.PingContext(ctx); err != nil {
		return err
	}

	// Load all keys into memory B-tree
	rows, err := sc.db.QueryContext(ctx, "SELECT key, etag FROM fileobj_catalog")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, etag string
		if err := rows.Scan(&key, &etag); err != nil {
			return err
		}
		sc.keys.Set(key, etag)
	}

	return rows.Err()
}

// Close is part of the lifecycle behaviour and gets called when closing this catalog.
func (sc *SQLiteCatalog) Close(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.keys.Clear()
	return sc.db.Close()
}

// Put stores content under a key, replacing any previous version.
func (sc *SQLiteCatalog) Put(ctx context.Context, key string, content []byte) (*data.ResourceStat, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	stat := data.NewStat(key, int64(len(content)))

	_, err := sc.db.ExecContext(ctx, `
		INSERT INTO fileobj_catalog (key, content, size, content_type, etag, modify_time)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			content = excluded.content,
			size = excluded.size,
			content_type = excluded.content_type,
			etag = excluded.etag,
			modify_time = excluded.modify_time`,
		key, content, stat.Size, string(stat.ContentType), stat.ETag, stat.ModifyTime.UnixNano())
	if err != nil {
		return nil, err
	}

	sc.keys.Set(key, stat.ETag)

	return stat, nil
}

// Get opens a fresh reader over the stored content.
func (sc *SQLiteCatalog) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if _, exists := sc.keys.Get(key); !exists {
		return nil, fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	var content []byte
	err := sc.db.QueryRowContext(ctx,
		"SELECT content FROM fileobj_catalog WHERE key = ?", key).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
		}

		return nil, err
	}

	return io.NopCloser(bytes.NewReader(content)), nil
}

// Stat reports metadata for a stored resource.
func (sc *SQLiteCatalog) Stat(ctx context.Context, key string) (*data.ResourceStat, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	if _, exists := sc.keys.Get(key); !exists {
		return nil, fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	return sc.scanStat(sc.db.QueryRowContext(ctx, `
		SELECT key, size, content_type, etag, modify_time
		FROM fileobj_catalog WHERE key = ?`, key))
}

// List reports all stored resources under a key prefix in lexical order.
func (sc *SQLiteCatalog) List(ctx context.Context, prefix string) ([]*data.ResourceStat, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	rows, err := sc.db.QueryContext(ctx, `
		SELECT key, size, content_type, etag, modify_time
		FROM fileobj_catalog WHERE key LIKE ? || '%' ORDER BY key`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]*data.ResourceStat, 0)
	for rows.Next() {
		stat, err := sc.scanStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	return stats, rows.Err()
}

// Delete removes a stored resource.
func (sc *SQLiteCatalog) Delete(ctx context.Context, key string) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	result, err := sc.db.ExecContext(ctx,
		"DELETE FROM fileobj_catalog WHERE key = ?", key)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: catalog key '%s'", data.ErrNotExist, key)
	}

	sc.keys.Delete(key)

	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanStat maps a catalog row onto a ResourceStat.
func (sc *SQLiteCatalog) scanStat(row scanner) (*data.ResourceStat, error) {
	var (
		stat        data.ResourceStat
		contentType sql.NullString
		modifyTime  int64
	)

	err := row.Scan(&stat.Key, &stat.Size, &contentType, &stat.ETag, &modifyTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, data.ErrNotExist
		}

		return nil, err
	}

	stat.ContentType = data.ContentType(contentType.String)
	stat.ModifyTime = time.Unix(0, modifyTime)

	return &stat, nil
}
