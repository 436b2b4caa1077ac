/* cache.go
 * Contains the SummaryCache interface and the in-memory implementation. Summaries are keyed on (user, game type)
 * and are invalidated whenever a new match is recorded for that pair
 * Authors: Zachary Bower
 */

package cache

import (
	"context"
	"fmt"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"sync"
	"time"
)

// SummaryCache stores computed match summaries. Every (user, game type) pair has a generation that Invalidate
// advances. A summary computed from data read at one generation is only stored while the pair is still at that
// generation, so an invalidation that lands mid-computation is never overwritten by the older result
type SummaryCache interface {
	// Get returns the cached summary and true, or false if nothing is cached for the pair
	Get(ctx context.Context, userID string, gameType shared.GameType) (logic.MatchSummary, bool, error)
	// Generation returns the pair's current generation. Read it before fetching the data a summary is built from
	Generation(ctx context.Context, userID string, gameType shared.GameType) (uint64, error)
	// Set stores the summary if the pair is still at generation, and reports whether it was stored
	Set(ctx context.Context, userID string, gameType shared.GameType, generation uint64, summary logic.MatchSummary) (bool, error)
	Invalidate(ctx context.Context, userID string, gameType shared.GameType) error
}

// Key returns the cache key for a (user, game type) pair
func Key(userID string, gameType shared.GameType) string {
	return fmt.Sprintf("companion:summary:%s:%s", userID, gameType)
}

// GenerationKey returns the key holding the generation of a (user, game type) pair
func GenerationKey(userID string, gameType shared.GameType) string {
	return fmt.Sprintf("companion:summary-generation:%s:%s", userID, gameType)
}

type memoryEntry struct {
	summary logic.MatchSummary
	expires time.Time
}

// MemoryCache is a process local SummaryCache. A ttl of 0 keeps entries until they are invalidated
type MemoryCache struct {
	mu          sync.RWMutex
	ttl         time.Duration
	entries     map[string]memoryEntry
	generations map[string]uint64
	now         func() time.Time
}

var _ SummaryCache = (*MemoryCache)(nil)

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:         ttl,
		entries:     make(map[string]memoryEntry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, userID string, gameType shared.GameType) (logic.MatchSummary, bool, error) {
	key := Key(userID, gameType)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return logic.MatchSummary{}, false, nil
	}
	if c.expired(entry) {
		c.mu.Lock()
		// a Set may have replaced the entry since the read lock was released
		if current, ok := c.entries[key]; ok && c.expired(current) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return logic.MatchSummary{}, false, nil
	}
	return copySummary(entry.summary), true, nil
}

func (c *MemoryCache) Generation(_ context.Context, userID string, gameType shared.GameType) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[Key(userID, gameType)], nil
}

func (c *MemoryCache) Set(_ context.Context, userID string, gameType shared.GameType, generation uint64, summary logic.MatchSummary) (bool, error) {
	key := Key(userID, gameType)
	entry := memoryEntry{summary: copySummary(summary)}
	if c.ttl > 0 {
		entry.expires = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != generation {
		return false, nil
	}
	c.entries[key] = entry
	return true, nil
}

func (c *MemoryCache) Invalidate(_ context.Context, userID string, gameType shared.GameType) error {
	key := Key(userID, gameType)

	c.mu.Lock()
	delete(c.entries, key)
	c.generations[key]++
	c.mu.Unlock()
	return nil
}

// Len returns the number of cached summaries, expired or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) expired(entry memoryEntry) bool {
	return !entry.expires.IsZero() && c.now().After(entry.expires)
}

// RecentForm is the only reference field on a summary, callers must not be able to mutate the cached copy through it
func copySummary(s logic.MatchSummary) logic.MatchSummary {
	form := make([]shared.Result, len(s.RecentForm))
	copy(form, s.RecentForm)
	s.RecentForm = form
	return s
}
