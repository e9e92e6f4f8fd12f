package faq

import (
	"context"
	"log/slog"
)

// SchemaDocument is the FAQPage structured-data document.
type SchemaDocument struct {
	Context    string           `json:"@context"`
	Type       string           `json:"@type"`
	MainEntity []SchemaQuestion `json:"mainEntity"`
}

// SchemaQuestion is one Question node.
type SchemaQuestion struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer SchemaAnswer `json:"acceptedAnswer"`
}

// SchemaAnswer is the accepted Answer node.
type SchemaAnswer struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// SchemaBuilder summarizes the full, unfiltered entry set.
type SchemaBuilder struct {
	repo   ContentRepository
	logger *slog.Logger
}

// NewSchemaBuilder constructs a builder over repo.
func NewSchemaBuilder(repo ContentRepository, logger *slog.Logger) *SchemaBuilder {
	return &SchemaBuilder{repo: repo, logger: logger.With("component", "faq.schema")}
}

// Build returns at most maxEntries questions (minimum 1). The boolean is false
// when nothing survives normalization; callers then omit the block entirely.
func (b *SchemaBuilder) Build(ctx context.Context, maxEntries int) (SchemaDocument, bool) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	entries, err := b.repo.Entries(ctx, SelectionAll)
	if err != nil {
		b.logger.Warn("faq schema lookup failed", "error", err)
		return SchemaDocument{}, false
	}
	SortEntries(entries)

	questions := make([]SchemaQuestion, 0, min(maxEntries, len(entries)))
	for _, e := range entries {
		if len(questions) >= maxEntries {
			break
		}
		name := PlainText(e.Question)
		text := PlainText(e.AnswerHTML)
		if name == "" || text == "" {
			continue
		}
		questions = append(questions, SchemaQuestion{
			Type:           "Question",
			Name:           name,
			AcceptedAnswer: SchemaAnswer{Type: "Answer", Text: text},
		})
	}
	if len(questions) == 0 {
		return SchemaDocument{}, false
	}
	return SchemaDocument{
		Context:    "https://schema.org",
		Type:       "FAQPage",
		MainEntity: questions,
	}, true
}
