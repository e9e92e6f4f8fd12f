package faqrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faqfilter/internal/domain/faq"
)

// PostgresRepository implements faq.ContentRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Entries returns published entries, optionally restricted to one category.
func (r *PostgresRepository) Entries(ctx context.Context, sel faq.Selection) ([]faq.Entry, error) {
	if !sel.Valid() {
		return nil, nil
	}
	var categoryID any
	if !sel.All {
		categoryID = sel.CategoryID
	}
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.question, e.answer_html, e.sort_order,
		       COALESCE(array_agg(ec.category_id) FILTER (WHERE ec.category_id IS NOT NULL), '{}')
		FROM faq_entries e
		LEFT JOIN faq_entry_categories ec ON ec.entry_id = e.id
		WHERE e.status = 'publish'
		  AND ($1::bigint IS NULL OR EXISTS (
		        SELECT 1 FROM faq_entry_categories f
		        WHERE f.entry_id = e.id AND f.category_id = $1))
		GROUP BY e.id, e.question, e.answer_html, e.sort_order
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Categories returns every category with its published entry count.
func (r *PostgresRepository) Categories(ctx context.Context) ([]faq.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, COUNT(e.id)
		FROM faq_categories c
		LEFT JOIN faq_entry_categories ec ON ec.category_id = c.id
		LEFT JOIN faq_entries e ON e.id = ec.entry_id AND e.status = 'publish'
		GROUP BY c.id, c.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []faq.Category
	for rows.Next() {
		var (
			c     faq.Category
			count int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &count); err != nil {
			return nil, err
		}
		c.Count = int(count)
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (faq.Entry, error) {
	var (
		entry faq.Entry
		order int32
	)
	if err := row.Scan(&entry.ID, &entry.Question, &entry.AnswerHTML, &order, &entry.CategoryIDs); err != nil {
		return faq.Entry{}, err
	}
	entry.Order = int(order)
	return entry, nil
}

var _ faq.ContentRepository = (*PostgresRepository)(nil)
