package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	cache   *faq.MarkupCache
	catalog *faq.Catalog
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, cache *faq.MarkupCache, catalog *faq.Catalog) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, cache: cache, catalog: catalog}
}

// Run warms the default markup, starts the HTTP server and blocks until
// ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.warm(ctx)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "durable_cache", a.cfg.Cache.Durable.Driver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// warm builds the unfiltered list under the catalog's default key, the same
// key requests without a locale resolve to.
func (a *App) warm(ctx context.Context) {
	if a.cache == nil || a.catalog == nil {
		return
	}
	start := time.Now()
	locale, _ := a.catalog.Default()
	a.cache.GetOrBuild(ctx, faq.SelectionAll, locale)
	a.logger.Info("faq markup cache warmed", "locale", locale, "elapsed_ms", time.Since(start).Milliseconds())
}
