package faq

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"strings"

	apperrors "github.com/yanqian/faqfilter/pkg/errors"
)

// Service exposes the widget's server-side operations.
type Service interface {
	// Filter answers a client fetch. The only error is an authorization failure.
	Filter(ctx context.Context, req FilterRequest) (FilterResponse, error)
	// Render produces the full widget markup for one placement.
	Render(ctx context.Context, req RenderRequest) (RenderResult, error)
}

// TokenManager issues and verifies the request token embedded in the widget.
type TokenManager interface {
	Issue(ctx context.Context) (string, error)
	Verify(ctx context.Context, token string) error
}

// Observer extends CacheObserver with endpoint outcomes.
type Observer interface {
	CacheObserver
	FilterRequest(outcome string)
}

type service struct {
	cfg      Config
	repo     ContentRepository
	cache    *MarkupCache
	schema   *SchemaBuilder
	catalog  *Catalog
	tokens   TokenManager
	observer Observer
	logger   *slog.Logger
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo ContentRepository, cache *MarkupCache, catalog *Catalog, tokens TokenManager, observer Observer, logger *slog.Logger) Service {
	if observer == nil {
		observer = nopObserver{}
	}
	if cfg.SchemaMaxEntries < 1 {
		cfg.SchemaMaxEntries = 1
	}
	return &service{
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		schema:   NewSchemaBuilder(repo, logger),
		catalog:  catalog,
		tokens:   tokens,
		observer: observer,
		logger:   logger.With("component", "faq.service"),
	}
}

func (s *service) Filter(ctx context.Context, req FilterRequest) (FilterResponse, error) {
	if strings.TrimSpace(req.Token) == "" {
		s.observer.FilterRequest("unauthorized")
		return FilterResponse{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token missing", nil)
	}
	if err := s.tokens.Verify(ctx, req.Token); err != nil {
		s.observer.FilterRequest("unauthorized")
		return FilterResponse{}, apperrors.Wrap(apperrors.CodeInvalidToken, "token verification failed", err)
	}

	sel := ParseSelection(req.Selection)
	locale, _ := s.catalog.Match(req.Locale)
	payload := s.cache.GetOrBuild(ctx, sel, locale)

	s.observer.FilterRequest("ok")
	return FilterResponse{HTML: BindInstance(payload, req.InstanceID)}, nil
}

func (s *service) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	instanceID := SanitizeInstanceID(req.InstanceID)
	if strings.TrimSpace(req.InstanceID) == "" {
		instanceID = NewInstanceID()
	}
	locale, msgs := s.catalog.Match(req.Locale)

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		s.logger.Warn("faq category lookup failed", "error", err)
		categories = nil
	}
	available := PublishedCategories(categories)

	requested := SelectionAll
	if raw := strings.TrimSpace(req.Category); raw != "" {
		requested = ParseSelection(raw)
	}
	sel := ResolveSelection(requested, available)

	token, err := s.tokens.Issue(ctx)
	if err != nil {
		return RenderResult{InstanceID: instanceID}, apperrors.Wrap(apperrors.CodeTokenError, "failed to issue request token", err)
	}

	view := widgetView{
		InstanceID: instanceID,
		Endpoint:   s.cfg.Endpoint,
		Action:     s.cfg.Action,
		Token:      token,
		Messages:   msgs,
		Categories: available,
		Current:    msgs.AllCategories,
		Results:    template.HTML(BindInstance(s.cache.GetOrBuild(ctx, sel, locale), instanceID)),
	}
	if !sel.All {
		view.SelectedID = sel.CategoryID
		for _, c := range available {
			if c.ID == sel.CategoryID {
				view.Current = c.Name
			}
		}
	}
	if s.cfg.ShowSchema {
		if doc, ok := s.schema.Build(ctx, s.cfg.SchemaMaxEntries); ok {
			encoded, err := json.Marshal(doc)
			if err != nil {
				s.logger.Warn("faq schema encode failed", "error", err)
			} else {
				view.Schema = template.JS(encoded)
			}
		}
	}

	var buf bytes.Buffer
	if err := widgetTemplate.Execute(&buf, view); err != nil {
		return RenderResult{InstanceID: instanceID}, apperrors.Wrap("render_error", "failed to render widget", err)
	}
	return RenderResult{HTML: template.HTML(buf.String()), InstanceID: instanceID, Rendered: true}, nil
}
