package cache

import (
	"testing"
	"time"

	"finance-server/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryCache_SetGetInvalidate(t *testing.T) {
	sc := NewSummaryCache(time.Minute)

	_, ok := sc.Get(1)
	assert.False(t, ok)

	sc.Set(1, sc.Generation(1), []entities.MonthSummary{{Month: "Sep/2025", Income: 10}})
	got, ok := sc.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Sep/2025", got[0].Month)

	// callers cannot mutate the cached slice
	got[0].Income = 999
	again, _ := sc.Get(1)
	assert.Equal(t, 10.0, again[0].Income)

	_, ok = sc.Get(2)
	assert.False(t, ok, "entries are per user")

	sc.Invalidate(1)
	_, ok = sc.Get(1)
	assert.False(t, ok)

	stats := sc.Stats()
	assert.Equal(t, 2, stats["hits"])
	assert.Equal(t, 3, stats["misses"])
}

func TestSummaryCache_Expiry(t *testing.T) {
	sc := NewSummaryCache(time.Millisecond)
	sc.Set(7, sc.Generation(7), []entities.MonthSummary{{Month: "Jan/2025"}})
	time.Sleep(5 * time.Millisecond)

	_, ok := sc.Get(7)
	assert.False(t, ok)
}

func TestSummaryCache_SetAfterInvalidateIsDropped(t *testing.T) {
	sc := NewSummaryCache(time.Minute)

	gen := sc.Generation(4)
	// a mutation lands while the summary is being computed
	sc.Invalidate(4)
	sc.Set(4, gen, []entities.MonthSummary{{Month: "Sep/2025", Income: 10}})

	_, ok := sc.Get(4)
	assert.False(t, ok)

	sc.Set(4, sc.Generation(4), []entities.MonthSummary{{Month: "Sep/2025", Income: 15}})
	got, ok := sc.Get(4)
	require.True(t, ok)
	assert.Equal(t, 15.0, got[0].Income)
}
