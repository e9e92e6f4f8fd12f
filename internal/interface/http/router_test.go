package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/faqfilter/internal/domain/faq"
	"github.com/yanqian/faqfilter/internal/domain/token"
	"github.com/yanqian/faqfilter/internal/infra/config"
	"github.com/yanqian/faqfilter/internal/infra/faqrepo"
	"github.com/yanqian/faqfilter/internal/infra/faqstore"
	"github.com/yanqian/faqfilter/pkg/metrics"
)

const testSecret = "router-secret"

type routerFixture struct {
	server *http.Server
	tokens token.Service
	repo   *faqrepo.MemoryRepository
}

func newRouterUnderTest(t *testing.T, seed faqrepo.Seed, secret string) *routerFixture {
	t.Helper()
	logger := newTestLogger()
	repo := faqrepo.NewMemoryRepository(seed)
	tokens := token.NewService(token.Config{Secret: secret})
	registry := metrics.NewRegistry()
	catalog := faq.NewCatalog("en")
	faqCfg := faq.Config{
		VersionTag:       "1",
		CacheTTL:         time.Hour,
		SchemaMaxEntries: 10,
		ShowSchema:       true,
		Endpoint:         FilterPath,
		Action:           token.DefaultAction,
	}
	cache := faq.NewMarkupCache(
		faqstore.NewLRUTier(16, time.Hour),
		faqstore.NewMemoryTier(nil),
		faq.NewMarkupBuilder(repo, catalog, logger),
		faq.CacheOptions{VersionTag: faqCfg.VersionTag, TTL: faqCfg.CacheTTL, Observer: registry},
		logger,
	)
	svc := faq.NewService(faqCfg, repo, cache, catalog, tokens, registry, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return &routerFixture{
		server: NewRouter(cfg, NewHandler(svc, registry, faqCfg, logger)),
		tokens: tokens,
		repo:   repo,
	}
}

func (f *routerFixture) validToken(t *testing.T) string {
	t.Helper()
	tok, err := f.tokens.Issue(context.Background())
	require.NoError(t, err)
	return tok
}

func orderedSeed() faqrepo.Seed {
	return faqrepo.Seed{
		Categories: []faqrepo.SeedCategory{{ID: 1, Name: "Billing"}},
		Entries: []faqrepo.SeedEntry{
			{ID: 1, Question: "Third question", Answer: "<p>three</p>", Order: 3, Categories: []int64{1}},
			{ID: 2, Question: "First question", Answer: "<p>one</p>", Order: 1, Categories: []int64{1}},
			{ID: 3, Question: "Second question", Answer: "<p>two</p>", Order: 2, Categories: []int64{1}},
		},
	}
}

func TestRouter_FilterRejectsInvalidToken(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)

	for _, tok := range []string{"", "forged"} {
		recorder := postForm(f.server, url.Values{
			"action":     {token.DefaultAction},
			"token":      {tok},
			"selection":  {"all"},
			"instanceId": {"faq-1"},
		})
		require.Equal(t, http.StatusForbidden, recorder.Code)

		body := decodeEnvelope(t, recorder.Body.Bytes())
		require.Equal(t, false, body["success"])
		data := body["data"].(map[string]any)
		require.Equal(t, "invalid_token", data["code"])
		require.NotContains(t, data, "html")
	}
}

func TestRouter_FilterEmptyResultIsSuccess(t *testing.T) {
	f := newRouterUnderTest(t, faqrepo.Seed{}, testSecret)

	recorder := postForm(f.server, url.Values{
		"action":     {token.DefaultAction},
		"token":      {f.validToken(t)},
		"selection":  {"all"},
		"instanceId": {"faq-1"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	html := successHTML(t, recorder)
	require.Contains(t, html, "No FAQs found.")
	doc := parseHTML(t, html)
	require.Equal(t, 0, doc.Find("button").Length())
	require.Equal(t, 1, doc.Find(".faq-filter__empty").Length())
}

func TestRouter_FilterOrdersEntries(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)

	recorder := postForm(f.server, url.Values{
		"action":     {token.DefaultAction},
		"token":      {f.validToken(t)},
		"selection":  {"all"},
		"instanceId": {"faq-1"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)

	doc := parseHTML(t, successHTML(t, recorder))
	var questions []string
	doc.Find(".faq-filter__toggle").Each(func(_ int, s *goquery.Selection) {
		questions = append(questions, strings.TrimSpace(s.Text()))
	})
	require.Equal(t, []string{"First question", "Second question", "Third question"}, questions)
}

func TestRouter_FilterAcceptsJSON(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)
	payload, err := json.Marshal(map[string]string{
		"action":     token.DefaultAction,
		"token":      f.validToken(t),
		"selection":  "1",
		"instanceId": "faq-json",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, FilterPath, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	f.server.Handler.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	doc := parseHTML(t, successHTML(t, recorder))
	id, ok := doc.Find(".faq-filter__toggle").First().Attr("id")
	require.True(t, ok)
	require.True(t, strings.HasPrefix(id, "faq-json-"))
}

func TestRouter_FilterRejectsUnknownAction(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)

	recorder := postForm(f.server, url.Values{
		"action": {"something_else"},
		"token":  {f.validToken(t)},
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", body["data"].(map[string]any)["code"])
}

func TestRouter_PageIncludesAssetsWhenRendered(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)

	recorder := get(f.server, "/faq?instance=faq-page&category=1")
	require.Equal(t, http.StatusOK, recorder.Code)

	doc := parseHTML(t, recorder.Body.String())
	require.Equal(t, 1, doc.Find("#faq-page.faq-filter").Length())
	tok, ok := doc.Find(".faq-filter").Attr("data-token")
	require.True(t, ok)
	require.NotEmpty(t, tok)
	require.Equal(t, 1, doc.Find(`script[src="/static/faq-filter.js"]`).Length())
	require.Equal(t, 1, doc.Find(`link[href="/static/faq-filter.css"]`).Length())
	require.Equal(t, 1, doc.Find(`script[type="application/ld+json"]`).Length())
}

func TestRouter_PageSkipsAssetsWhenWidgetFails(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), "")

	recorder := get(f.server, "/faq")
	require.Equal(t, http.StatusOK, recorder.Code)

	doc := parseHTML(t, recorder.Body.String())
	require.Equal(t, 0, doc.Find(".faq-filter").Length())
	require.Equal(t, 0, doc.Find("script").Length())
	require.Equal(t, 0, doc.Find("link").Length())
}

func TestRouter_StaticAssets(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)

	recorder := get(f.server, "/static/faq-filter.js")
	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	require.Contains(t, body, "aria-expanded")
	require.Contains(t, body, "new Set()", "bound toggles are tracked by id")
	require.Contains(t, body, "bound.clear()")
	require.NotContains(t, body, "dataset.bound")
}

func TestRouter_MetricsAndHealth(t *testing.T) {
	f := newRouterUnderTest(t, orderedSeed(), testSecret)
	postForm(f.server, url.Values{
		"action":    {token.DefaultAction},
		"token":     {f.validToken(t)},
		"selection": {"all"},
	})

	recorder := get(f.server, "/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `faq_filter_requests_total{outcome="ok"} 1`)
	require.Contains(t, recorder.Body.String(), `faq_markup_builds_total{outcome="ok"} 1`)

	recorder = get(f.server, "/healthz")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestIPRateLimiter_RefillsOverTime(t *testing.T) {
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{Enabled: true, RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	require.True(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))
	require.True(t, limiter.allow("10.0.0.2"), "limits are per client")

	now = now.Add(time.Second)
	require.True(t, limiter.allow("10.0.0.1"))
}

func TestResolveOrigin(t *testing.T) {
	require.Equal(t, "*", resolveOrigin("https://a.example", nil))
	require.Equal(t, "https://a.example", resolveOrigin("https://a.example", []string{"https://b.example", "https://a.example"}))
	require.Equal(t, "https://b.example", resolveOrigin("https://c.example", []string{"https://b.example"}))
}

func postForm(server *http.Server, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, FilterPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func get(server *http.Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func successHTML(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeEnvelope(t, recorder.Body.Bytes())
	require.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	html, ok := data["html"].(string)
	require.True(t, ok)
	return html
}

func decodeEnvelope(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
