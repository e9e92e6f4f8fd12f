package faq

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yanqian/faqfilter/pkg/util"
)

const (
	tierFast    = "fast"
	tierDurable = "durable"
)

// Tier is one cache storage layer.
type Tier interface {
	Get(ctx context.Context, key string) (CacheEntry, bool, error)
	Set(ctx context.Context, entry CacheEntry, ttl time.Duration) error
}

// CacheObserver receives cache and build events, typically for metrics.
type CacheObserver interface {
	CacheLookup(tier, result string)
	Build(outcome string)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(string, string) {}
func (nopObserver) Build(string)               {}
func (nopObserver) FilterRequest(string)       {}

// CacheOptions tunes a MarkupCache.
type CacheOptions struct {
	VersionTag string
	TTL        time.Duration
	Observer   CacheObserver
	Clock      util.Clock
}

// MarkupCache is the two-tier markup cache: a fast tier backed by a durable
// tier, both with the same TTL. A durable hit is copied back into the fast
// tier by Resync.
type MarkupCache struct {
	version  string
	ttl      time.Duration
	fast     Tier
	durable  Tier
	builder  Builder
	observer CacheObserver
	now      util.Clock
	logger   *slog.Logger
	group    singleflight.Group
}

// NewMarkupCache composes the tiers around builder. A nil tier is treated as
// always empty.
func NewMarkupCache(fast, durable Tier, builder Builder, opts CacheOptions, logger *slog.Logger) *MarkupCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCacheTTL
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &MarkupCache{
		version:  opts.VersionTag,
		ttl:      opts.TTL,
		fast:     fast,
		durable:  durable,
		builder:  builder,
		observer: opts.Observer,
		now:      opts.Clock.OrDefault(),
		logger:   logger.With("component", "faq.cache"),
	}
}

// CacheKey derives the key for {version, selection, locale}. It is a pure
// function; bumping version orphans every earlier key.
func CacheKey(version string, sel Selection, locale string) string {
	return "faq_markup:" + url.QueryEscape(version) + ":" + sel.String() + ":" + url.QueryEscape(strings.ToLower(locale))
}

// Key is CacheKey with the configured version tag.
func (c *MarkupCache) Key(sel Selection, locale string) string {
	return CacheKey(c.version, sel, locale)
}

// TTL returns the lifetime applied to both tiers.
func (c *MarkupCache) TTL() time.Duration {
	return c.ttl
}

// Get looks in the fast tier, then the durable tier. A durable hit is
// resynced into the fast tier before returning.
func (c *MarkupCache) Get(ctx context.Context, key string) (CacheEntry, bool) {
	if entry, ok := c.lookup(ctx, tierFast, c.fast, key); ok {
		return entry, true
	}
	entry, ok := c.lookup(ctx, tierDurable, c.durable, key)
	if !ok {
		return CacheEntry{}, false
	}
	c.Resync(ctx, entry)
	return entry, true
}

// Set writes html under key into both tiers and returns the stored entry.
func (c *MarkupCache) Set(ctx context.Context, key, html string) CacheEntry {
	entry := CacheEntry{Key: key, HTML: html, InsertedAt: c.now()}
	c.store(ctx, tierFast, c.fast, entry)
	c.store(ctx, tierDurable, c.durable, entry)
	return entry
}

// Resync repopulates the fast tier from a durable entry with the full TTL.
func (c *MarkupCache) Resync(ctx context.Context, entry CacheEntry) {
	entry.InsertedAt = c.now()
	c.store(ctx, tierFast, c.fast, entry)
}

// GetOrBuild returns cached markup for the selection, building and storing
// it on a miss. It never fails; concurrent misses for one key share a build.
func (c *MarkupCache) GetOrBuild(ctx context.Context, sel Selection, locale string) string {
	if !sel.Valid() {
		return c.builder.Build(ctx, sel, locale).HTML
	}
	key := c.Key(sel, locale)
	if entry, ok := c.Get(ctx, key); ok {
		return entry.HTML
	}
	// the shared build outlives any single caller's cancellation
	buildCtx := context.WithoutCancel(ctx)
	v, _, _ := c.group.Do(key, func() (any, error) {
		res := c.builder.Build(buildCtx, sel, locale)
		if res.Degraded {
			c.observer.Build("degraded")
			return res.HTML, nil
		}
		c.observer.Build("ok")
		c.Set(buildCtx, key, res.HTML)
		return res.HTML, nil
	})
	return v.(string)
}

func (c *MarkupCache) lookup(ctx context.Context, name string, tier Tier, key string) (CacheEntry, bool) {
	if tier == nil {
		return CacheEntry{}, false
	}
	entry, ok, err := tier.Get(ctx, key)
	if err != nil {
		c.logger.Warn("markup cache read failed", "tier", name, "key", key, "error", err)
		ok = false
	}
	if ok && entry.Expired(c.now(), c.ttl) {
		ok = false
	}
	if !ok {
		c.observer.CacheLookup(name, "miss")
		return CacheEntry{}, false
	}
	c.observer.CacheLookup(name, "hit")
	return entry, true
}

func (c *MarkupCache) store(ctx context.Context, name string, tier Tier, entry CacheEntry) {
	if tier == nil {
		return
	}
	if err := tier.Set(ctx, entry, c.ttl); err != nil {
		c.logger.Warn("markup cache write failed", "tier", name, "key", entry.Key, "error", err)
	}
}
