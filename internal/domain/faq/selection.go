package faq

import (
	"strconv"
	"strings"
)

const selectionAllValue = "all"

// Selection is the category filter: either All or one category id.
// The zero value is an invalid selection.
type Selection struct {
	All        bool
	CategoryID int64
}

// SelectionAll matches every published entry.
var SelectionAll = Selection{All: true}

// CategorySelection selects a single category.
func CategorySelection(id int64) Selection {
	return Selection{CategoryID: id}
}

// Valid reports whether the selection can reach a storage lookup.
func (s Selection) Valid() bool {
	return s.All || s.CategoryID > 0
}

// String is the wire and cache-key form: "all", a decimal id, or "invalid".
func (s Selection) String() string {
	switch {
	case s.All:
		return selectionAllValue
	case s.CategoryID > 0:
		return strconv.FormatInt(s.CategoryID, 10)
	default:
		return "invalid"
	}
}

// ParseSelection maps the raw request value. "all" selects everything and any
// other value must be a positive decimal id. Anything else yields the invalid
// selection; it is not corrected to All here.
func ParseSelection(raw string) Selection {
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, selectionAllValue) {
		return SelectionAll
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return Selection{}
	}
	return CategorySelection(id)
}

// ResolveSelection is the render-time validation step: a selection that does
// not name a category with at least one published entry collapses to All.
func ResolveSelection(requested Selection, categories []Category) Selection {
	if requested.All || !requested.Valid() {
		return SelectionAll
	}
	for _, c := range categories {
		if c.ID == requested.CategoryID && c.Count > 0 {
			return requested
		}
	}
	return SelectionAll
}
