package faqstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/pkg/util"
)

type memoryRecord struct {
	entry     faq.CacheEntry
	expiresAt time.Time
}

// MemoryTier is an in-memory durable tier for tests/dev.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]memoryRecord
	now     util.Clock
}

// NewMemoryTier constructs a tier backed by process memory.
func NewMemoryTier(clock util.Clock) *MemoryTier {
	return &MemoryTier{
		entries: make(map[string]memoryRecord),
		now:     clock.OrDefault(),
	}
}

// Get implements faq.Tier.
func (t *MemoryTier) Get(_ context.Context, key string) (faq.CacheEntry, bool, error) {
	t.mu.RLock()
	record, ok := t.entries[key]
	t.mu.RUnlock()
	if !ok {
		return faq.CacheEntry{}, false, nil
	}
	if t.hasExpired(record.expiresAt) {
		t.mu.Lock()
		delete(t.entries, key)
		t.mu.Unlock()
		return faq.CacheEntry{}, false, nil
	}
	return record.entry, true, nil
}

// Set caches the entry with optional TTL.
func (t *MemoryTier) Set(_ context.Context, entry faq.CacheEntry, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = t.now().Add(ttl)
	}
	t.mu.Lock()
	t.entries[entry.Key] = memoryRecord{entry: entry, expiresAt: exp}
	t.mu.Unlock()
	return nil
}

func (t *MemoryTier) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !t.now().Before(ts)
}

var _ faq.Tier = (*MemoryTier)(nil)
