package faq

import "context"

// ContentRepository is the read side of the FAQ content store. Only published
// entries are visible through it.
type ContentRepository interface {
	// Entries returns the entries matching sel. Order is not guaranteed.
	Entries(ctx context.Context, sel Selection) ([]Entry, error)
	// Categories returns every category with its published entry count.
	Categories(ctx context.Context) ([]Category, error)
}
