package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCacheTTL is how long a cached review stays valid
const DefaultCacheTTL = 30 * 24 * time.Hour

// Cache stores reviews as JSON files keyed by a hash of the request.
// Entries older than the TTL, measured by file modification time, are
// treated as missing.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	Request  CodeReviewRequest `json:"request"`
	Review   CodeReview        `json:"review"`
	CachedAt time.Time         `json:"cached_at"`
}

// NewCache creates the cache directory if needed. A non-positive ttl
// selects DefaultCacheTTL.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl, now: time.Now}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string {
	return c.dir
}

// Key returns the cache key of a request
func Key(req CodeReviewRequest) string {
	data, _ := json.Marshal(req)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (c *Cache) path(req CodeReviewRequest) string {
	return filepath.Join(c.dir, Key(req)+".json")
}

func (c *Cache) expired(info os.FileInfo) bool {
	return c.now().Sub(info.ModTime()) > c.ttl
}

// Get returns a cached review, if present and not expired
func (c *Cache) Get(req CodeReviewRequest) (CodeReview, bool) {
	path := c.path(req)
	info, err := os.Stat(path)
	if err != nil || c.expired(info) {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Review == nil {
		return nil, false
	}
	return entry.Review, true
}

// Set stores a review
func (c *Cache) Set(req CodeReviewRequest, review CodeReview) error {
	data, err := json.MarshalIndent(cacheEntry{
		Request:  req,
		Review:   review,
		CachedAt: c.now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := os.WriteFile(c.path(req), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// ClearExpired removes expired entries and returns how many were removed
func (c *Cache) ClearExpired() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !c.expired(info) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
