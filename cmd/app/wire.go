//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faqfilter/internal/bootstrap"
	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/internal/domain/token"
	"github.com/yanqian/faqfilter/internal/infra/config"
	httpiface "github.com/yanqian/faqfilter/internal/interface/http"
	"github.com/yanqian/faqfilter/pkg/logger"
	"github.com/yanqian/faqfilter/pkg/metrics"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewRegistry,
		provideFAQConfig,
		provideTokenConfig,
		provideTokenManager,
		provideCatalog,
		provideContentRepository,
		provideDurableTier,
		provideMarkupCache,
		token.NewService,
		faq.NewService,
		wire.Bind(new(faq.Observer), new(*metrics.Registry)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
