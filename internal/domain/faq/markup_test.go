package faq

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseFragment(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func newBuilderUnderTest(repo ContentRepository) *MarkupBuilder {
	return NewMarkupBuilder(repo, NewCatalog("en"), newTestLogger())
}

func TestMarkupBuilderEmptyProducesSinglePlaceholder(t *testing.T) {
	res := newBuilderUnderTest(&stubRepo{}).Build(context.Background(), SelectionAll, "en")
	require.False(t, res.Degraded)
	require.Contains(t, res.HTML, "No FAQs found.")

	doc := parseFragment(t, res.HTML)
	require.Equal(t, 1, doc.Find(".faq-filter__empty").Length())
	require.Equal(t, 0, doc.Find("button").Length())
	require.Equal(t, 0, doc.Find(".faq-filter__list").Length())
}

func TestMarkupBuilderOrdersByOrderField(t *testing.T) {
	res := newBuilderUnderTest(&stubRepo{entries: sampleEntries()}).Build(context.Background(), SelectionAll, "en")
	doc := parseFragment(t, res.HTML)

	var questions []string
	doc.Find("button.faq-filter__toggle").Each(func(_ int, sel *goquery.Selection) {
		questions = append(questions, sel.Text())
	})
	require.Equal(t, []string{"First?", "Second?", "Third?"}, questions)
}

func TestMarkupBuilderTogglePanelContract(t *testing.T) {
	res := newBuilderUnderTest(&stubRepo{entries: sampleEntries()}).Build(context.Background(), SelectionAll, "en")
	html := BindInstance(res.HTML, "faq-a")
	doc := parseFragment(t, html)

	toggles := doc.Find("button.faq-filter__toggle")
	require.Equal(t, 3, toggles.Length())
	toggles.Each(func(i int, toggle *goquery.Selection) {
		id, _ := toggle.Attr("id")
		expanded, _ := toggle.Attr("aria-expanded")
		controls, _ := toggle.Attr("aria-controls")
		require.Equal(t, "false", expanded)
		require.True(t, strings.HasPrefix(id, "faq-a-"))

		panel := doc.Find("#" + controls)
		require.Equal(t, 1, panel.Length())
		labelledBy, _ := panel.Attr("aria-labelledby")
		require.Equal(t, id, labelledBy)
		_, hidden := panel.Attr("hidden")
		require.True(t, hidden)
	})
	first, _ := toggles.First().Attr("id")
	require.Equal(t, "faq-a-11-0", first)
	require.NotContains(t, html, instancePlaceholder)
}

func TestMarkupBuilderFiltersByCategory(t *testing.T) {
	repo := &stubRepo{entries: sampleEntries()}
	res := newBuilderUnderTest(repo).Build(context.Background(), CategorySelection(2), "en")
	doc := parseFragment(t, res.HTML)
	require.Equal(t, 2, doc.Find("button").Length())
	require.Equal(t, []Selection{CategorySelection(2)}, repo.selections)
}

func TestMarkupBuilderLookupFailureIsDegradedPlaceholder(t *testing.T) {
	repo := &stubRepo{err: errors.New("db down")}
	res := newBuilderUnderTest(repo).Build(context.Background(), SelectionAll, "en")
	require.True(t, res.Degraded)
	require.Contains(t, res.HTML, "No FAQs found.")
}

func TestMarkupBuilderInvalidSelectionSkipsRepository(t *testing.T) {
	repo := &stubRepo{entries: sampleEntries()}
	res := newBuilderUnderTest(repo).Build(context.Background(), ParseSelection("abc"), "en")
	require.Contains(t, res.HTML, "No FAQs found.")
	require.Zero(t, repo.callCount())
}

func TestMarkupBuilderLocalizedPlaceholder(t *testing.T) {
	res := newBuilderUnderTest(&stubRepo{}).Build(context.Background(), SelectionAll, "de")
	require.Contains(t, res.HTML, "Keine FAQs gefunden.")
}

func TestMarkupBuilderEscapesQuestion(t *testing.T) {
	repo := &stubRepo{entries: []Entry{{ID: 1, Question: `<img src=x onerror=alert(1)>`, AnswerHTML: "<em>ok</em>"}}}
	res := newBuilderUnderTest(repo).Build(context.Background(), SelectionAll, "en")
	require.NotContains(t, res.HTML, "<img")
	require.Contains(t, res.HTML, "<em>ok</em>")
}

func TestIdentifiersNeverCollideAcrossInstances(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, Entry{ID: 10, Question: "Dup id?", AnswerHTML: "x", Order: 4})
	res := newBuilderUnderTest(&stubRepo{entries: entries}).Build(context.Background(), SelectionAll, "en")

	page := BindInstance(res.HTML, "faq-one") + BindInstance(res.HTML, "faq-two")
	doc := parseFragment(t, page)

	seen := make(map[string]struct{})
	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	})
	require.Len(t, seen, 16)
}

func TestSanitizeInstanceID(t *testing.T) {
	require.Equal(t, "faq-1", SanitizeInstanceID(" faq-1 "))
	require.Equal(t, "faq", SanitizeInstanceID("  "))

	scrubbed := SanitizeInstanceID(`a"b<script>x`)
	require.Regexp(t, `^abscriptx-[0-9a-f]{8}$`, scrubbed)
	require.NotEqual(t, "abscriptx", scrubbed, "an altered id never equals a clean one")

	long := SanitizeInstanceID(strings.Repeat("a", 200))
	require.Len(t, long, maxInstanceIDLen)
	require.NotEqual(t, long, SanitizeInstanceID(strings.Repeat("a", 201)))
	require.Equal(t, strings.Repeat("b", maxInstanceIDLen), SanitizeInstanceID(strings.Repeat("b", maxInstanceIDLen)))
}

func TestSanitizeInstanceIDKeepsDistinctIDsDistinct(t *testing.T) {
	pairs := [][2]string{
		{"faq.a", "faq:a"},
		{"faq.a", "faqa"},
		{"!!", "??"},
		{"widget 1", "widget1"},
	}
	for _, pair := range pairs {
		require.NotEqual(t, SanitizeInstanceID(pair[0]), SanitizeInstanceID(pair[1]), "%q vs %q", pair[0], pair[1])
	}
	require.Regexp(t, `^faq-[0-9a-f]{8}$`, SanitizeInstanceID("!!"))
}

func TestSanitizeInstanceIDIdempotent(t *testing.T) {
	for _, raw := range []string{"faq-1", `a"b<script>x`, "!!", "  ", strings.Repeat("z.", 80)} {
		once := SanitizeInstanceID(raw)
		require.Equal(t, once, SanitizeInstanceID(once), "raw %q", raw)
		require.LessOrEqual(t, len(once), maxInstanceIDLen)
	}
}

func TestNewInstanceIDUnique(t *testing.T) {
	a, b := NewInstanceID(), NewInstanceID()
	require.NotEqual(t, a, b)
	require.Equal(t, a, SanitizeInstanceID(a))
	require.True(t, strings.HasPrefix(a, "faq-"))
}
