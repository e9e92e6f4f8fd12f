package faqstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/pkg/util"
)

// R2Config describes an S3-compatible bucket.
type R2Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
}

// R2Tier stores markup entries as JSON objects in Cloudflare R2 via the S3 API.
// Object stores carry no expiry, so Get checks insertedAt against the ttl
// given at construction.
type R2Tier struct {
	client *minio.Client
	bucket string
	prefix string
	now    util.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu         sync.Mutex
	bucketInit bool
}

// NewR2Tier constructs the tier.
func NewR2Tier(cfg R2Config, ttl time.Duration, clock util.Clock, logger *slog.Logger) (*R2Tier, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(cfg.Endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(cfg.Endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       useSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "faq-markup"
	}
	return &R2Tier{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		now:    clock.OrDefault(),
		ttl:    ttl,
		logger: logger.With("component", "faqstore.r2"),
	}, nil
}

// Get implements faq.Tier. Missing objects read as a miss.
func (t *R2Tier) Get(ctx context.Context, key string) (faq.CacheEntry, bool, error) {
	obj, err := t.client.GetObject(ctx, t.bucket, t.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return t.miss(err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return t.miss(err)
	}
	var entry faq.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return faq.CacheEntry{}, false, err
	}
	if entry.Expired(t.now(), t.ttl) {
		return faq.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// Set implements faq.Tier.
func (t *R2Tier) Set(ctx context.Context, entry faq.CacheEntry, _ time.Duration) error {
	if err := t.ensureBucket(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = t.client.PutObject(ctx, t.bucket, t.objectKey(entry.Key), bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType:      "application/json",
		DisableMultipart: true,
	})
	return err
}

func (t *R2Tier) ensureBucket(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bucketInit {
		return nil
	}
	exists, err := t.client.BucketExists(ctx, t.bucket)
	if err == nil && exists {
		t.bucketInit = true
		return nil
	}
	err = t.client.MakeBucket(ctx, t.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	if err == nil {
		t.logger.Info("r2 bucket created", "bucket", t.bucket)
	}
	t.bucketInit = true
	return nil
}

func (t *R2Tier) miss(err error) (faq.CacheEntry, bool, error) {
	if isNotFound(err) {
		return faq.CacheEntry{}, false, nil
	}
	return faq.CacheEntry{}, false, err
}

func (t *R2Tier) objectKey(key string) string {
	return t.prefix + "/" + url.PathEscape(key) + ".json"
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if idx := strings.Index(raw, "/"); idx >= 0 {
		raw = raw[:idx]
	}
	return raw
}

var _ faq.Tier = (*R2Tier)(nil)
