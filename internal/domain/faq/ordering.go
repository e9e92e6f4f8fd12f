package faq

import "sort"

// SortEntries orders entries by Order ascending, then ID ascending.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Order == entries[j].Order {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Order < entries[j].Order
	})
}

// PublishedCategories keeps categories with entries, sorted by name then id.
func PublishedCategories(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Count > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
