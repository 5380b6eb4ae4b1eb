// Package kernelcache is the on-disk kernel cache collaborator named by
// spec.md §1/§6: a narrow interface in front of a real file-backed SQLite
// table, keyed by the content hash of a compile's (source, header, footer,
// properties, compiler version), storing the rewritten source plus its
// metadata.Map so a repeat compile of unchanged input skips lexing,
// parsing, validating and lowering entirely.
//
// Grounded on the teacher's own database wiring (sentra-language-sentra's
// internal/database/db_manager.go: database/sql over a driver registered
// with a blank import, one *sql.DB per process, SetMaxOpenConns-style pool
// tuning) and on cmd/funxy/main.go's moduleCache (a process-lifetime
// cache-by-key map guarding re-evaluation of an unchanged module) — this
// package is that same idea made durable across process runs via SQLite
// instead of an in-memory map.
package kernelcache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/occa-go/okl/internal/config"
	"github.com/occa-go/okl/internal/metadata"
)

const schema = `
CREATE TABLE IF NOT EXISTS kernels (
	key        TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

// Cache is a handle on one on-disk kernel cache database.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and ensures
// its schema exists. path may be ":memory:" for a process-lifetime cache
// with no on-disk footprint, useful for tests and one-shot CLI runs.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("kernelcache: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite serializes writers; avoid SQLITE_BUSY churn
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("kernelcache: migrate schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Entry is one compiled kernel as stored in (or loaded from) the cache.
type Entry struct {
	Source   string
	Metadata metadata.Map
}

// Key deterministically hashes one compile request's identity: the
// source text, header/footer wrapping, every property that can affect
// codegen, and the compiler version (so upgrading occ invalidates stale
// entries rather than serving output an older compiler produced).
func Key(source, header, footer string, props config.Properties) string {
	h := sha256.New()
	fmt.Fprintf(h, "version:%s\n", config.Version)
	fmt.Fprintf(h, "header:%s\nfooter:%s\nsource:%s\n", header, footer, source)

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "prop:%s=%v\n", k, props[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get looks up a previously cached compile by key. ok is false on a cache
// miss; it is not an error — a miss just means the caller must compile.
func (c *Cache) Get(key string) (entry Entry, ok bool, err error) {
	var source, metaJSON string
	row := c.db.QueryRow(`SELECT source, metadata FROM kernels WHERE key = ?`, key)
	switch err := row.Scan(&source, &metaJSON); {
	case errors.Is(err, sql.ErrNoRows):
		return Entry{}, false, nil
	case err != nil:
		return Entry{}, false, fmt.Errorf("kernelcache: get %s: %w", key, err)
	}

	meta, err := metadata.FromJSON([]byte(metaJSON))
	if err != nil {
		return Entry{}, false, fmt.Errorf("kernelcache: decode metadata for %s: %w", key, err)
	}
	return Entry{Source: source, Metadata: meta}, true, nil
}

// Put stores (or replaces) the compiled output for key.
func (c *Cache) Put(key string, entry Entry) error {
	metaJSON, err := entry.Metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("kernelcache: encode metadata for %s: %w", key, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO kernels (key, source, metadata, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET source = excluded.source, metadata = excluded.metadata, created_at = excluded.created_at`,
		key, entry.Source, string(metaJSON), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("kernelcache: put %s: %w", key, err)
	}
	return nil
}
