// Package cache memoizes provider-backed responses so repeat reads within a
// TTL do not hit stats.nba.com. Only three route families are cached:
// rosters, standings, and the live scoreboard.
package cache

import (
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"
)

// TTLs per route family. Rosters and standings move slowly during a season;
// the live scoreboard changes constantly so it gets a short window.
const (
	TTLRoster     = 1 * time.Hour
	TTLStandings  = 30 * time.Minute
	TTLScoreboard = 1 * time.Minute
)

const evictInterval = 5 * time.Minute

// RosterKey identifies one team's roster for one season.
func RosterKey(abbrev, season string) string {
	return "roster:" + abbrev + ":" + season
}

// StandingsKey identifies one season's standings under one conference filter.
func StandingsKey(season, conference string) string {
	return "standings:" + season + ":" + conference
}

// ScoreboardKey identifies the live scoreboard. There is only one: the
// upstream feed covers the current day.
func ScoreboardKey() string {
	return "scoreboard:today"
}

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Cache is a thread-safe in-memory TTL cache.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
}

// New creates a cache. Pass enabled=false for a no-op cache that still
// computes ETags, so conditional requests keep working when caching is off.
func New(enabled bool) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		enabled: enabled,
	}
	if enabled {
		go c.evictLoop()
	}
	return c
}

// Get retrieves a cached payload and its ETag.
func (c *Cache) Get(key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a payload with a TTL and returns its ETag.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: time.Now().Add(ttl),
	}
	return etag
}

// Usage is the cache occupancy snapshot reported by the health endpoint.
type Usage struct {
	Enabled     bool `json:"enabled"`
	TotalKeys   int  `json:"total_keys"`
	ActiveKeys  int  `json:"active_keys"`
	ExpiredKeys int  `json:"expired_keys"`
}

// Stats reports current cache occupancy.
func (c *Cache) Stats() Usage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := time.Now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return Usage{
		Enabled:     c.enabled,
		TotalKeys:   len(c.entries),
		ActiveKeys:  active,
		ExpiredKeys: len(c.entries) - active,
	}
}

// evictLoop periodically removes expired entries.
func (c *Cache) evictLoop() {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for range ticker.C {
		c.evict()
	}
}

func (c *Cache) evict() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// ComputeETag generates a weak ETag from response data.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch reports whether an If-None-Match header matches the current
// ETag. Handles "*" and comma-separated candidate lists.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}
