package faqstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/pkg/util"
)

// PostgresTier keeps markup entries in the faq_markup_cache table.
type PostgresTier struct {
	pool *pgxpool.Pool
	now  util.Clock
}

// NewPostgresTier constructs the tier.
func NewPostgresTier(pool *pgxpool.Pool, clock util.Clock) *PostgresTier {
	return &PostgresTier{pool: pool, now: clock.OrDefault()}
}

// Get implements faq.Tier. Rows past expires_at read as a miss.
func (t *PostgresTier) Get(ctx context.Context, key string) (faq.CacheEntry, bool, error) {
	row := t.pool.QueryRow(ctx, `
		SELECT cache_key, html, inserted_at
		FROM faq_markup_cache
		WHERE cache_key = $1
		  AND (expires_at IS NULL OR expires_at > $2)
	`, key, t.now())
	var entry faq.CacheEntry
	if err := row.Scan(&entry.Key, &entry.HTML, &entry.InsertedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return faq.CacheEntry{}, false, nil
		}
		return faq.CacheEntry{}, false, err
	}
	return entry, true, nil
}

// Set implements faq.Tier.
func (t *PostgresTier) Set(ctx context.Context, entry faq.CacheEntry, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = entry.InsertedAt.Add(ttl)
	}
	_, err := t.pool.Exec(ctx, `
		INSERT INTO faq_markup_cache (cache_key, html, inserted_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cache_key) DO UPDATE
		SET html = EXCLUDED.html,
		    inserted_at = EXCLUDED.inserted_at,
		    expires_at = EXCLUDED.expires_at
	`, entry.Key, entry.HTML, entry.InsertedAt, expiresAt)
	return err
}

var _ faq.Tier = (*PostgresTier)(nil)
