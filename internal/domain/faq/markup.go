package faq

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// instancePlaceholder stands in for the widget instance id inside cached
// markup so one payload serves every instance; BindInstance swaps it out.
const instancePlaceholder = "__faq_instance__"

const (
	maxInstanceIDLen  = 64
	instanceDigestLen = 8
)

var listTemplate = template.Must(template.New("list").Parse(
	`{{if .Items}}<div class="faq-filter__list">` +
		`{{range .Items}}<div class="faq-filter__item">` +
		`<h3 class="faq-filter__question"><button type="button" class="faq-filter__toggle" id="{{.ToggleID}}" aria-expanded="false" aria-controls="{{.PanelID}}">{{.Question}}</button></h3>` +
		`<div class="faq-filter__answer" id="{{.PanelID}}" role="region" aria-labelledby="{{.ToggleID}}" hidden>{{.Answer}}</div>` +
		`</div>{{end}}</div>` +
		`{{else}}<p class="faq-filter__empty">{{.Empty}}</p>{{end}}`))

type listItem struct {
	ToggleID string
	PanelID  string
	Question string
	Answer   template.HTML
}

// BuildResult is the output of one markup build. Degraded marks a placeholder
// produced because the repository failed; such output must not be cached.
type BuildResult struct {
	HTML     string
	Degraded bool
}

// Builder renders the results region for a selection.
type Builder interface {
	Build(ctx context.Context, sel Selection, locale string) BuildResult
}

// MarkupBuilder renders entries as an accordion of toggle/panel pairs.
type MarkupBuilder struct {
	repo    ContentRepository
	catalog *Catalog
	logger  *slog.Logger
}

// NewMarkupBuilder constructs a builder over repo.
func NewMarkupBuilder(repo ContentRepository, catalog *Catalog, logger *slog.Logger) *MarkupBuilder {
	return &MarkupBuilder{
		repo:    repo,
		catalog: catalog,
		logger:  logger.With("component", "faq.markup"),
	}
}

// Build never fails: lookup errors and empty results both produce the
// single placeholder element.
func (b *MarkupBuilder) Build(ctx context.Context, sel Selection, locale string) BuildResult {
	_, msgs := b.catalog.Match(locale)
	if !sel.Valid() {
		return BuildResult{HTML: renderList(nil, msgs.Empty)}
	}
	entries, err := b.repo.Entries(ctx, sel)
	if err != nil {
		b.logger.Warn("faq entry lookup failed", "selection", sel.String(), "error", err)
		return BuildResult{HTML: renderList(nil, msgs.Empty), Degraded: true}
	}
	SortEntries(entries)
	return BuildResult{HTML: renderList(entries, msgs.Empty)}
}

func renderList(entries []Entry, empty string) string {
	items := make([]listItem, 0, len(entries))
	for i, e := range entries {
		toggleID := instancePlaceholder + "-" + strconv.FormatInt(e.ID, 10) + "-" + strconv.Itoa(i)
		items = append(items, listItem{
			ToggleID: toggleID,
			PanelID:  toggleID + "-panel",
			Question: e.Question,
			Answer:   template.HTML(e.AnswerHTML),
		})
	}
	var buf bytes.Buffer
	if err := listTemplate.Execute(&buf, struct {
		Items []listItem
		Empty string
	}{Items: items, Empty: empty}); err != nil {
		// the template is static; only a writer failure could land here
		return `<p class="faq-filter__empty">` + template.HTMLEscapeString(empty) + `</p>`
	}
	return buf.String()
}

// BindInstance stamps the sanitized instance id into a cached payload.
func BindInstance(payload, instanceID string) string {
	return strings.ReplaceAll(payload, instancePlaceholder, SanitizeInstanceID(instanceID))
}

// SanitizeInstanceID keeps the characters valid in an HTML id and CSS
// selector. An id that had to be altered gets a short digest of the raw
// value appended, so distinct raw ids stay distinct. A blank id becomes "faq".
func SanitizeInstanceID(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "faq"
	}
	var builder strings.Builder
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			builder.WriteRune(r)
		}
	}
	clean := builder.String()
	if clean == trimmed && len(clean) <= maxInstanceIDLen {
		return clean
	}
	digest := uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed)).String()[:instanceDigestLen]
	if clean == "" {
		clean = "faq"
	}
	if limit := maxInstanceIDLen - instanceDigestLen - 1; len(clean) > limit {
		clean = clean[:limit]
	}
	return clean + "-" + digest
}

// NewInstanceID returns a fresh page-unique instance id.
func NewInstanceID() string {
	return "faq-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
