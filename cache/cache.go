package cache

import (
	"finance-server/entities"
	"sync"
	"time"
)

type summaryEntry struct {
	months   []entities.MonthSummary
	cachedAt time.Time
}

// SummaryCache keeps each user's monthly summary until one of their
// transactions changes or the entry outlives ttl.
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[uint]summaryEntry // map[userID]entry
	gens    map[uint]uint64       // bumped on every Invalidate
	ttl     time.Duration
	hits    int
	misses  int
}

func NewSummaryCache(ttl time.Duration) *SummaryCache {
	return &SummaryCache{
		entries: make(map[uint]summaryEntry),
		gens:    make(map[uint]uint64),
		ttl:     ttl,
	}
}

// Get returns a copy of the cached summary for userID.
func (sc *SummaryCache) Get(userID uint) ([]entities.MonthSummary, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	entry, ok := sc.entries[userID]
	if !ok || (sc.ttl > 0 && time.Since(entry.cachedAt) > sc.ttl) {
		delete(sc.entries, userID)
		sc.misses++
		return nil, false
	}
	sc.hits++

	out := make([]entities.MonthSummary, len(entry.months))
	copy(out, entry.months)
	return out, true
}

// Generation returns userID's invalidation counter. Read it before loading
// the rows a summary is computed from and hand it back to Set.
func (sc *SummaryCache) Generation(userID uint) uint64 {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.gens[userID]
}

// Set stores months unless userID was invalidated after gen was read, in
// which case the summary may predate the change and is dropped.
func (sc *SummaryCache) Set(userID uint, gen uint64, months []entities.MonthSummary) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.gens[userID] != gen {
		return
	}
	stored := make([]entities.MonthSummary, len(months))
	copy(stored, months)
	sc.entries[userID] = summaryEntry{months: stored, cachedAt: time.Now()}
}

func (sc *SummaryCache) Invalidate(userID uint) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gens[userID]++
	delete(sc.entries, userID)
}

// Stats returns statistics about the current cache
func (sc *SummaryCache) Stats() map[string]interface{} {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	return map[string]interface{}{
		"cached_users": len(sc.entries),
		"hits":         sc.hits,
		"misses":       sc.misses,
		"ttl_seconds":  sc.ttl.Seconds(),
	}
}
