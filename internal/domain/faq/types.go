package faq

import (
	"html/template"
	"time"
)

// Entry is one published FAQ item as returned by the content repository.
type Entry struct {
	ID          int64
	Question    string
	AnswerHTML  string
	Order       int
	CategoryIDs []int64
}

// Category groups entries. Count is the number of published entries in it.
type Category struct {
	ID    int64
	Name  string
	Count int
}

// CacheEntry is the unit stored in both cache tiers.
type CacheEntry struct {
	Key        string    `json:"key"`
	HTML       string    `json:"html"`
	InsertedAt time.Time `json:"insertedAt"`
}

// Expired reports whether the entry has outlived ttl at now. A zero ttl never expires.
func (e CacheEntry) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 || e.InsertedAt.IsZero() {
		return false
	}
	return !now.Before(e.InsertedAt.Add(ttl))
}

// FilterRequest is the decoded client fetch for one widget instance.
type FilterRequest struct {
	Token      string
	Selection  string
	InstanceID string
	Locale     string
}

// FilterResponse carries the markup for the results region.
type FilterResponse struct {
	HTML string `json:"html"`
}

// RenderRequest describes one widget placement on a page.
type RenderRequest struct {
	InstanceID string
	Category   string
	Locale     string
}

// RenderResult is the server-rendered widget. Rendered is false when nothing
// was emitted, and is what the page composer uses to decide on assets.
type RenderResult struct {
	HTML       template.HTML
	InstanceID string
	Rendered   bool
}

// AssetPlan lists the front-end assets a page needs.
type AssetPlan struct {
	Script bool
	Style  bool
}

// PlanAssets enables the widget assets when at least one instance rendered.
func PlanAssets(results ...RenderResult) AssetPlan {
	for _, r := range results {
		if r.Rendered {
			return AssetPlan{Script: true, Style: true}
		}
	}
	return AssetPlan{}
}
