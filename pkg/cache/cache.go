// Package cache provides an SQLite-backed snapshot of the most recently
// fetched resource pages, so listings remain available when the API is
// unreachable.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache wraps the SQLite connection.
type Cache struct {
	conn *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(path string) (*Cache, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	c := &Cache{conn: conn}
	if err := c.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.conn.Close()
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		resource TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (resource, id)
	);
	`
	_, err := c.conn.Exec(schema)
	return err
}

// Put replaces the snapshot for a resource kind with the given items. The
// previous snapshot is dropped wholesale: the cache mirrors the last
// successful fetch, not an accumulated history.
func Put[T any](c *Cache, resource string, items []T, id func(T) string) error {
	tx, err := c.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshots WHERE resource = ?", resource); err != nil {
		return err
	}

	now := time.Now().Unix()
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshal snapshot row: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT INTO snapshots (resource, id, data, fetched_at) VALUES (?, ?, ?, ?)",
			resource, id(item), string(data), now,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load returns the snapshot for a resource kind, in insertion order.
func Load[T any](c *Cache, resource string) ([]T, error) {
	rows, err := c.conn.Query(
		"SELECT data FROM snapshots WHERE resource = ? ORDER BY rowid", resource)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("unmarshal snapshot row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// FetchedAt returns when the snapshot for a resource kind was taken, or the
// zero time when no snapshot exists.
func (c *Cache) FetchedAt(resource string) (time.Time, error) {
	var ts sql.NullInt64
	err := c.conn.QueryRow(
		"SELECT MAX(fetched_at) FROM snapshots WHERE resource = ?", resource).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Unix(ts.Int64, 0), nil
}
