/* cache_test.go
 * Contains unit tests for cache.go
 * Authors: Zachary Bower
 */

package cache

import (
	"context"
	"gaming-companion/api/logic"
	"gaming-companion/api/shared"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() logic.MatchSummary {
	return logic.MatchSummary{
		TotalMatches:     3,
		Wins:             2,
		Losses:           1,
		WinRate:          67,
		AverageKDA:       logic.AverageKDA{Kills: 18.3, Deaths: 12, Assists: 5.7},
		FavoriteMap:      "Ascent",
		LongestWinStreak: 2,
		RecentForm:       []shared.Result{shared.Win, shared.Win, shared.Loss},
		RankProgress:     logic.RankProgress{StartRank: "N/A", CurrentRank: "Gold 2", PeakRank: "Gold 2"},
	}
}

// set stores the sample summary at the pair's current generation
func set(t *testing.T, c *MemoryCache, userID string, gameType shared.GameType) {
	t.Helper()
	ctx := context.Background()
	generation, err := c.Generation(ctx, userID, gameType)
	require.NoError(t, err)
	stored, err := c.Set(ctx, userID, gameType, generation, sampleSummary())
	require.NoError(t, err)
	require.True(t, stored)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "companion:summary:user1:valorant", Key("user1", shared.Valorant))
	assert.Equal(t, "companion:summary:user1:cs2", Key("user1", shared.CS2))
	assert.Equal(t, "companion:summary-generation:user1:cs2", GenerationKey("user1", shared.CS2))
}

// region MemoryCache tests

func TestMemoryCache_MissThenHit(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "user1", shared.Valorant)
	require.NoError(t, err)
	assert.False(t, ok)

	set(t, c, "user1", shared.Valorant)

	got, ok, err := c.Get(ctx, "user1", shared.Valorant)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sampleSummary(), got)

	// Other game type is a separate entry
	_, ok, _ = c.Get(ctx, "user1", shared.CS2)
	assert.False(t, ok)
}

func TestMemoryCache_Invalidate(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	set(t, c, "user1", shared.Valorant)
	set(t, c, "user1", shared.CS2)
	require.NoError(t, c.Invalidate(ctx, "user1", shared.Valorant))

	_, ok, _ := c.Get(ctx, "user1", shared.Valorant)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "user1", shared.CS2)
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	set(t, c, "user1", shared.Valorant)

	now = now.Add(30 * time.Second)
	_, ok, _ := c.Get(ctx, "user1", shared.Valorant)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "user1", shared.Valorant)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_InvalidateAdvancesGeneration(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	generation, err := c.Generation(ctx, "user1", shared.Valorant)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), generation)

	require.NoError(t, c.Invalidate(ctx, "user1", shared.Valorant))
	require.NoError(t, c.Invalidate(ctx, "user1", shared.Valorant))

	generation, _ = c.Generation(ctx, "user1", shared.Valorant)
	assert.Equal(t, uint64(2), generation)
	generation, _ = c.Generation(ctx, "user1", shared.CS2)
	assert.Equal(t, uint64(0), generation)
}

// TestMemoryCache_SetAfterInvalidateRefused tests that a summary computed before an invalidation is not stored
func TestMemoryCache_SetAfterInvalidateRefused(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	generation, err := c.Generation(ctx, "user1", shared.Valorant)
	require.NoError(t, err)

	// a match is recorded while the summary is being computed
	require.NoError(t, c.Invalidate(ctx, "user1", shared.Valorant))

	stored, err := c.Set(ctx, "user1", shared.Valorant, generation, sampleSummary())
	require.NoError(t, err)
	assert.False(t, stored)

	_, ok, _ := c.Get(ctx, "user1", shared.Valorant)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

// TestMemoryCache_ExpiredDeleteKeepsFreshEntry tests that a Set landing between the expiry check and the delete
// is kept
func TestMemoryCache_ExpiredDeleteKeepsFreshEntry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	set(t, c, "user1", shared.Valorant)

	now = now.Add(2 * time.Minute)
	fresh := sampleSummary()
	fresh.TotalMatches = 4

	raced := false
	c.now = func() time.Time {
		if !raced {
			raced = true
			_, _ = c.Set(ctx, "user1", shared.Valorant, 0, fresh)
		}
		return now
	}

	_, ok, err := c.Get(ctx, "user1", shared.Valorant)
	require.NoError(t, err)
	assert.False(t, ok)
	require.True(t, raced)

	got, ok, err := c.Get(ctx, "user1", shared.Valorant)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, got.TotalMatches)
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()
	set(t, c, "user1", shared.Valorant)

	got, _, _ := c.Get(ctx, "user1", shared.Valorant)
	got.RecentForm[0] = shared.Loss

	again, _, _ := c.Get(ctx, "user1", shared.Valorant)
	assert.Equal(t, shared.Win, again.RecentForm[0])
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = c.Set(ctx, "user1", shared.Valorant, 0, sampleSummary())
			} else {
				_, _, _ = c.Get(ctx, "user1", shared.Valorant)
				_ = c.Invalidate(ctx, "user1", shared.Valorant)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 1)
}

// endregion
