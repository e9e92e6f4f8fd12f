package faq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSchemaBuilderNormalizesAndOrders(t *testing.T) {
	repo := &stubRepo{entries: sampleEntries()}
	doc, ok := NewSchemaBuilder(repo, newTestLogger()).Build(context.Background(), 10)
	require.True(t, ok)
	require.Equal(t, "https://schema.org", doc.Context)
	require.Equal(t, "FAQPage", doc.Type)
	require.Len(t, doc.MainEntity, 3)
	require.Equal(t, "First?", doc.MainEntity[0].Name)
	require.Equal(t, "Answer one", doc.MainEntity[0].AcceptedAnswer.Text)
	require.Equal(t, "Question", doc.MainEntity[0].Type)
	require.Equal(t, "Answer", doc.MainEntity[0].AcceptedAnswer.Type)
	require.Equal(t, []Selection{SelectionAll}, repo.selections)
}

func TestSchemaBuilderCapsAndSkipsEmpty(t *testing.T) {
	repo := &stubRepo{entries: []Entry{
		{ID: 1, Question: "  ", AnswerHTML: "<p>orphan</p>", Order: 0},
		{ID: 2, Question: "Blank answer?", AnswerHTML: "<p> </p>", Order: 1},
		{ID: 3, Question: "A?", AnswerHTML: "a", Order: 2},
		{ID: 4, Question: "B?", AnswerHTML: "b", Order: 3},
		{ID: 5, Question: "C?", AnswerHTML: "c", Order: 4},
	}}
	builder := NewSchemaBuilder(repo, newTestLogger())

	doc, ok := builder.Build(context.Background(), 2)
	require.True(t, ok)
	require.Len(t, doc.MainEntity, 2)
	for _, q := range doc.MainEntity {
		require.NotEmpty(t, q.Name)
		require.NotEmpty(t, q.AcceptedAnswer.Text)
	}

	doc, ok = builder.Build(context.Background(), 0)
	require.True(t, ok)
	require.Len(t, doc.MainEntity, 1, "maxEntries is at least one")
}

func TestSchemaBuilderAbsentWhenNothingSurvives(t *testing.T) {
	builder := NewSchemaBuilder(&stubRepo{entries: []Entry{{ID: 1, Question: "Q?", AnswerHTML: "<br>"}}}, newTestLogger())
	_, ok := builder.Build(context.Background(), 5)
	require.False(t, ok)

	_, ok = NewSchemaBuilder(&stubRepo{err: errors.New("boom")}, newTestLogger()).Build(context.Background(), 5)
	require.False(t, ok)
}

func TestSchemaDocumentWireFormat(t *testing.T) {
	doc, ok := NewSchemaBuilder(&stubRepo{entries: sampleEntries()[:1]}, newTestLogger()).Build(context.Background(), 1)
	require.True(t, ok)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"@context":"https://schema.org",
		"@type":"FAQPage",
		"mainEntity":[{"@type":"Question","name":"Third?","acceptedAnswer":{"@type":"Answer","text":"Answer three"}}]
	}`, string(raw))
}
