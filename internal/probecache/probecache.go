// Package probecache persists probe results across passes so recently-tested
// streams skip the network probe. Results live in a small sqlite database
// keyed by stream URL, each entry expiring after a TTL.
package probecache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iptvcheck/iptv-check/internal/probe"
)

const schema = `
CREATE TABLE IF NOT EXISTS probes (
	url    TEXT PRIMARY KEY,
	result TEXT NOT NULL,
	at     INTEGER NOT NULL
);`

// Cache is a TTL-bounded probe result store.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// Open opens (creating if needed) the cache database at path and drops
// entries already past the TTL.
func Open(path string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("probe cache open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("probe cache schema: %w", err)
	}
	c := &Cache{db: db, ttl: ttl}
	if n, err := c.Prune(); err != nil {
		log.Printf("Probecache: prune failed: %v", err)
	} else if n > 0 {
		log.Printf("Probecache: pruned %d stale entries", n)
	}
	return c, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached result for url when it is still within the TTL.
func (c *Cache) Get(url string) (probe.Result, bool) {
	var blob string
	var at int64
	err := c.db.QueryRow(`SELECT result, at FROM probes WHERE url = ?`, url).Scan(&blob, &at)
	if err != nil {
		return probe.Result{}, false
	}
	if time.Since(time.Unix(at, 0)) > c.ttl {
		return probe.Result{}, false
	}
	var res probe.Result
	if err := json.Unmarshal([]byte(blob), &res); err != nil {
		return probe.Result{}, false
	}
	return res, true
}

// Put stores or refreshes the result for url.
func (c *Cache) Put(url string, res probe.Result) error {
	blob, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = c.db.Exec(
		`INSERT INTO probes (url, result, at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET result = excluded.result, at = excluded.at`,
		url, string(blob), time.Now().Unix(),
	)
	return err
}

// Prune deletes entries older than the TTL.
func (c *Cache) Prune() (int64, error) {
	cutoff := time.Now().Add(-c.ttl).Unix()
	r, err := c.db.Exec(`DELETE FROM probes WHERE at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return r.RowsAffected()
}
