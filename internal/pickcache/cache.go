package pickcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"mediasort/internal/logging"
)

// Entry represents a remembered classification for one source name.
type Entry struct {
	Kind       string    `json:"kind"` // "movie" or "tv", with _kids variants
	Title      string    `json:"title"`
	Year       int       `json:"year,omitempty"`
	MetadataID int64     `json:"metadata_id,omitempty"`
	CachedAt   time.Time `json:"cached_at"`
}

// Cache provides thread-safe access to the pick memo. Mutations only mark
// the cache dirty; nothing touches disk until Flush.
type Cache struct {
	path    string
	enabled bool
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
	dirty   bool
}

// New creates a cache instance. When disabled or path is empty all
// operations are no-ops. A malformed or missing cache file starts empty.
func New(path string, enabled bool, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "pickcache")

	c := &Cache{
		path:    path,
		enabled: enabled && path != "",
		logger:  logger,
		entries: make(map[string]Entry),
	}

	if !c.enabled {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load pick cache",
			logging.String(logging.FieldEventType, "pickcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"))
	}

	return c
}

// Enabled reports whether the cache persists anything.
func (c *Cache) Enabled() bool { return c.enabled }

// Lookup returns the remembered entry for the given key if present.
func (c *Cache) Lookup(key string) (Entry, bool) {
	key = Key(key)
	if key == "" || !c.enabled {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	return entry, found
}

// Remember stores an entry in memory and marks the cache dirty.
func (c *Cache) Remember(key string, entry Entry) {
	key = Key(key)
	if key == "" || !c.enabled || entry.Title == "" {
		return
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry
	c.dirty = true
}

// Forget removes an entry and marks the cache dirty when it existed.
func (c *Cache) Forget(key string) {
	key = Key(key)
	if key == "" || !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		delete(c.entries, key)
		c.dirty = true
	}
}

// Clear drops all entries and marks the cache dirty.
func (c *Cache) Clear() {
	if !c.enabled {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > 0 {
		c.entries = make(map[string]Entry)
		c.dirty = true
	}
}

// Count returns the number of remembered entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// List returns a copy of all entries keyed by source name.
func (c *Cache) List() map[string]Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Entry, len(c.entries))
	for key, entry := range c.entries {
		out[key] = entry
	}
	return out
}

// Flush persists the cache when it is enabled and dirty.
func (c *Cache) Flush() error {
	if !c.enabled {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("persist pick cache: %w", err)
	}
	c.dirty = false

	c.logger.Debug("flushed pick cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// Key normalizes a raw cache key: trimmed and casefolded.
func Key(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for key, entry := range entries {
		if Key(key) != "" && entry.Title != "" {
			c.entries[Key(key)] = entry
		}
	}

	c.logger.Debug("loaded pick cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache to disk atomically. Caller holds the write lock.
func (c *Cache) save() error {
	// encoding/json sorts map keys, so output is deterministic.
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
