package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/internal/domain/token"
	"github.com/yanqian/faqfilter/internal/infra/config"
	"github.com/yanqian/faqfilter/internal/infra/faqrepo"
	"github.com/yanqian/faqfilter/internal/infra/faqstore"
	httpiface "github.com/yanqian/faqfilter/internal/interface/http"
	"github.com/yanqian/faqfilter/pkg/metrics"
	"github.com/yanqian/faqfilter/pkg/util"
)

// durableTier distinguishes the durable tier from the fast one for Wire.
type durableTier struct {
	faq.Tier
}

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		VersionTag:       cfg.Widget.VersionTag,
		CacheTTL:         cfg.Cache.TTL,
		SchemaMaxEntries: cfg.Widget.SchemaMaxEntries,
		ShowSchema:       cfg.Widget.ShowSchema,
		Endpoint:         httpiface.FilterPath,
		Action:           cfg.Token.Action,
	}
}

func provideTokenConfig(cfg *config.Config) token.Config {
	return token.Config{
		Secret: cfg.Token.Secret,
		TTL:    cfg.Token.TTL,
		Action: cfg.Token.Action,
	}
}

func provideTokenManager(svc token.Service) faq.TokenManager {
	return svc
}

func provideCatalog(cfg *config.Config) *faq.Catalog {
	return faq.NewCatalog(cfg.Widget.DefaultLocale)
}

func provideContentRepository(cfg *config.Config, logger *slog.Logger) (faq.ContentRepository, func()) {
	fallback := provideSeedRepository(cfg, logger)
	dsn := strings.TrimSpace(cfg.Content.Postgres.DSN)
	if dsn == "" {
		logger.Info("faq content postgres dsn not set, using memory repository")
		return fallback, func() {}
	}
	pool, err := openPool(dsn, cfg.Content.Postgres, logger)
	if err != nil {
		logger.Error("faq content postgres unavailable, using memory repository", "error", err)
		return fallback, func() {}
	}
	logger.Info("faq content postgres repository enabled")
	return faqrepo.NewPostgresRepository(pool), pool.Close
}

func provideSeedRepository(cfg *config.Config, logger *slog.Logger) *faqrepo.MemoryRepository {
	path := strings.TrimSpace(cfg.Content.SeedFile)
	if path == "" {
		return faqrepo.NewMemoryRepository(faqrepo.Seed{})
	}
	seed, err := faqrepo.LoadSeed(path)
	if err != nil {
		logger.Error("failed to load faq seed file, starting empty", "path", path, "error", err)
		return faqrepo.NewMemoryRepository(faqrepo.Seed{})
	}
	logger.Info("faq seed loaded", "path", path, "entries", len(seed.Entries), "categories", len(seed.Categories))
	return faqrepo.NewMemoryRepository(seed)
}

func provideDurableTier(cfg *config.Config, logger *slog.Logger) (durableTier, func()) {
	fallback := durableTier{faqstore.NewMemoryTier(util.NowUTC)}
	durable := cfg.Cache.Durable
	switch durable.Driver {
	case config.DriverValkey:
		opt, err := buildValkeyOptions(durable.Valkey.Addr)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory tier", "error", err)
			return fallback, func() {}
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory tier", "error", err)
			return fallback, func() {}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory tier", "error", err)
			client.Close()
			return fallback, func() {}
		}
		logger.Info("faq valkey tier enabled", "addr", durable.Valkey.Addr)
		return durableTier{faqstore.NewValkeyTier(client, durable.Valkey.Prefix)}, client.Close
	case config.DriverPostgres:
		pool, err := openPool(strings.TrimSpace(durable.Postgres.DSN), durable.Postgres, logger)
		if err != nil {
			logger.Error("cache postgres unavailable, falling back to memory tier", "error", err)
			return fallback, func() {}
		}
		logger.Info("faq postgres tier enabled")
		return durableTier{faqstore.NewPostgresTier(pool, util.NowUTC)}, pool.Close
	case config.DriverR2:
		r2 := durable.R2
		tier, err := faqstore.NewR2Tier(faqstore.R2Config{
			Endpoint:  r2.Endpoint,
			AccessKey: r2.AccessKey,
			SecretKey: r2.SecretKey,
			Bucket:    r2.Bucket,
			Region:    r2.Region,
			Prefix:    r2.Prefix,
		}, cfg.Cache.TTL, util.NowUTC, logger)
		if err != nil {
			logger.Error("failed to init r2 tier, falling back to memory tier", "error", err)
			return fallback, func() {}
		}
		logger.Info("faq r2 tier enabled", "bucket", r2.Bucket)
		return durableTier{tier}, func() {}
	default:
		return fallback, func() {}
	}
}

func provideMarkupCache(cfg *config.Config, repo faq.ContentRepository, catalog *faq.Catalog, durable durableTier, registry *metrics.Registry, logger *slog.Logger) *faq.MarkupCache {
	fast := faqstore.NewLRUTier(cfg.Cache.FastMaxEntries, cfg.Cache.TTL)
	builder := faq.NewMarkupBuilder(repo, catalog, logger)
	return faq.NewMarkupCache(fast, durable.Tier, builder, faq.CacheOptions{
		VersionTag: cfg.Widget.VersionTag,
		TTL:        cfg.Cache.TTL,
		Observer:   registry,
		Clock:      util.NowUTC,
	}, logger)
}

func openPool(dsn string, pgCfg config.PostgresConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if pgCfg.MaxConns > 0 {
		poolConfig.MaxConns = pgCfg.MaxConns
	}
	if pgCfg.MinConns > 0 {
		poolConfig.MinConns = pgCfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Debug("postgres pool ready", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
