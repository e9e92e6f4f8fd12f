package faqstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/faqfilter/internal/domain/faq"
)

// LRUTier is the process-local fast tier. Entries expire after the ttl given
// at construction; the per-call ttl on Set is ignored.
type LRUTier struct {
	cache *expirable.LRU[string, faq.CacheEntry]
}

// NewLRUTier constructs a bounded fast tier.
func NewLRUTier(size int, ttl time.Duration) *LRUTier {
	if size <= 0 {
		size = 512
	}
	return &LRUTier{cache: expirable.NewLRU[string, faq.CacheEntry](size, nil, ttl)}
}

// Get implements faq.Tier.
func (t *LRUTier) Get(_ context.Context, key string) (faq.CacheEntry, bool, error) {
	entry, ok := t.cache.Get(key)
	return entry, ok, nil
}

// Set implements faq.Tier.
func (t *LRUTier) Set(_ context.Context, entry faq.CacheEntry, _ time.Duration) error {
	t.cache.Add(entry.Key, entry)
	return nil
}

// Len reports the number of live entries.
func (t *LRUTier) Len() int {
	return t.cache.Len()
}

var _ faq.Tier = (*LRUTier)(nil)
