package faqstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faqfilter/internal/domain/faq"
)

// ValkeyTier persists markup entries in a Valkey-compatible database.
type ValkeyTier struct {
	client valkey.Client
	prefix string
}

// NewValkeyTier constructs a durable tier backed by Valkey.
func NewValkeyTier(client valkey.Client, prefix string) *ValkeyTier {
	if prefix == "" {
		prefix = "faqfilter"
	}
	return &ValkeyTier{client: client, prefix: prefix}
}

// Get implements faq.Tier.
func (t *ValkeyTier) Get(ctx context.Context, key string) (faq.CacheEntry, bool, error) {
	cmd := t.client.B().Get().Key(t.entryKey(key)).Build()
	payload, err := t.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return faq.CacheEntry{}, false, nil
		}
		return faq.CacheEntry{}, false, err
	}
	var entry faq.CacheEntry
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		return faq.CacheEntry{}, false, err
	}
	return entry, true, nil
}

// Set implements faq.Tier.
func (t *ValkeyTier) Set(ctx context.Context, entry faq.CacheEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	builder := t.client.B().Set().Key(t.entryKey(entry.Key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return t.client.Do(ctx, cmd).Error()
}

func (t *ValkeyTier) entryKey(key string) string {
	return t.prefix + ":" + key
}

var _ faq.Tier = (*ValkeyTier)(nil)
