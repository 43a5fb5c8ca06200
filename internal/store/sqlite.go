package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // pure-Go sqlite driver, no cgo

	"github.com/kickai/kickai/internal/kerrors"
)

// SQLiteStore is a document Store backed by one table per collection, each
// storing a single JSON blob per row keyed by id (SPEC_FULL.md §6).
type SQLiteStore struct {
	db *sql.DB

	mu          sync.Mutex
	collections map[string]*sqliteCollection
}

// OpenSQLiteStore opens (creating if necessary) the sqlite database at
// path. Use ":memory:" for an ephemeral, process-local database.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, kerrors.Unavailable("opening sqlite database", err)
	}
	if err := db.Ping(); err != nil {
		return nil, kerrors.Unavailable("pinging sqlite database", err)
	}
	return &SQLiteStore{db: db, collections: make(map[string]*sqliteCollection)}, nil
}

// Collection returns (creating the backing table if necessary) the named
// collection.
func (s *SQLiteStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return c
	}
	c := &sqliteCollection{db: s.db, table: sanitizeTableName(name)}
	if err := c.ensureTable(context.Background()); err != nil {
		// Collection() has no error return per the Store interface; a
		// failing CREATE TABLE surfaces on first real operation instead.
		c.createErr = err
	}
	s.collections[name] = c
	return c
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sanitizeTableName(name string) string {
	// Collection names are generated internally (TenantCollectionName /
	// GlobalTeams) from team IDs already bounded to 20 chars of
	// [A-Za-z0-9_-]; this is a defensive backstop, not an input-validation
	// boundary.
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

type sqliteCollection struct {
	db        *sql.DB
	table     string
	createErr error
}

func (c *sqliteCollection) ensureTable(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, body TEXT NOT NULL)`, c.table))
	return err
}

func (c *sqliteCollection) Get(ctx context.Context, id string) (map[string]any, bool, error) {
	if c.createErr != nil {
		return nil, false, kerrors.Unavailable("collection table unavailable", c.createErr)
	}
	row := c.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT body FROM %s WHERE id = ?`, c.table), id)
	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, kerrors.Unavailable("reading document", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, false, kerrors.Corruption("stored document is not valid JSON", err)
	}
	return doc, true, nil
}

func (c *sqliteCollection) Put(ctx context.Context, id string, doc map[string]any) error {
	if c.createErr != nil {
		return kerrors.Unavailable("collection table unavailable", c.createErr)
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return kerrors.Validation("document is not JSON-serializable", err)
	}
	_, err = c.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, body) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET body = excluded.body`, c.table),
		id, string(body))
	if err != nil {
		return kerrors.Unavailable("writing document", err)
	}
	return nil
}

func (c *sqliteCollection) Delete(ctx context.Context, id string) error {
	if c.createErr != nil {
		return kerrors.Unavailable("collection table unavailable", c.createErr)
	}
	_, err := c.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, c.table), id)
	if err != nil {
		return kerrors.Unavailable("deleting document", err)
	}
	return nil
}

func (c *sqliteCollection) List(ctx context.Context) ([]map[string]any, error) {
	if c.createErr != nil {
		return nil, kerrors.Unavailable("collection table unavailable", c.createErr)
	}
	rows, err := c.db.QueryContext(ctx, fmt.Sprintf(`SELECT body FROM %s`, c.table))
	if err != nil {
		return nil, kerrors.Unavailable("listing documents", err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, kerrors.Unavailable("scanning document row", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, kerrors.Corruption("stored document is not valid JSON", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
