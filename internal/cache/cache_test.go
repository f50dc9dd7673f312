package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New[string](time.Minute, 10)

	c.Set("a", "alpha")
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New[int](50*time.Millisecond, 10)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", 42)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	c.now = func() time.Time { return base.Add(51 * time.Millisecond) }
	_, ok = c.Get("k")
	assert.False(t, ok)

	// Expired entries stay resident until overwritten
	assert.Equal(t, 1, c.Len())
}

func TestCacheOverwriteRefreshesTTL(t *testing.T) {
	c := New[int](50*time.Millisecond, 10)

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set("k", 1)

	c.now = func() time.Time { return base.Add(40 * time.Millisecond) }
	c.Set("k", 2)

	c.now = func() time.Time { return base.Add(80 * time.Millisecond) }
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCacheEvictsOldestInserted(t *testing.T) {
	c := New[int](time.Minute, 3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touching "a" via Get must not protect it from eviction
	_, _ = c.Get("a")

	c.Set("d", 4)
	_, ok := c.Get("a")
	assert.False(t, ok, "oldest-inserted key should be evicted")
	for _, k := range []string{"b", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}

	c.Set("e", 5)
	_, ok = c.Get("b")
	assert.False(t, ok, "eviction follows insertion order")
	assert.Equal(t, 3, c.Len())
}

func TestCacheDelete(t *testing.T) {
	c := New[int](time.Minute, 3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)

	// Slot freed by Delete is usable without evicting "b"
	c.Set("c", 3)
	c.Set("d", 4)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

type countingObserver struct {
	hits, misses map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{hits: map[string]int{}, misses: map[string]int{}}
}

func (o *countingObserver) RecordCacheHit(cache string)  { o.hits[cache]++ }
func (o *countingObserver) RecordCacheMiss(cache string) { o.misses[cache]++ }

func TestCacheObserverCountsHitsAndMisses(t *testing.T) {
	obs := newCountingObserver()
	c := New[int](50*time.Millisecond, 10).Observe("listing", obs)

	base := time.Now()
	c.now = func() time.Time { return base }

	_, _ = c.Get("k")
	c.Set("k", 1)
	_, _ = c.Get("k")

	// Expiry counts as a miss too.
	c.now = func() time.Time { return base.Add(51 * time.Millisecond) }
	_, _ = c.Get("k")

	assert.Equal(t, 1, obs.hits["listing"])
	assert.Equal(t, 2, obs.misses["listing"])
}

func TestCacheWithoutObserver(t *testing.T) {
	c := New[int](time.Minute, 10)
	assert.NotPanics(t, func() {
		_, _ = c.Get("k")
		c.Set("k", 1)
		_, _ = c.Get("k")
	})
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New[int](time.Minute, 50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%60)
				c.Set(key, n)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
