package client

import (
	"errors"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnknownToggle is returned when a toggle id is not bound.
var ErrUnknownToggle = errors.New("client: unknown toggle")

const toggleSelector = ".faq-filter__toggle"

// Toggle describes one toggle control found in markup.
type Toggle struct {
	ID       string
	PanelID  string
	Expanded bool
}

// FindToggles lists the toggle controls in markup in document order.
func FindToggles(markup string) ([]Toggle, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}
	var out []Toggle
	doc.Find(toggleSelector).Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok || id == "" {
			return
		}
		out = append(out, Toggle{
			ID:       id,
			PanelID:  s.AttrOr("aria-controls", ""),
			Expanded: s.AttrOr("aria-expanded", "false") == "true",
		})
	})
	return out, nil
}

// UnboundToggles filters toggles to those not present in bound.
func UnboundToggles(toggles []Toggle, bound map[string]bool) []Toggle {
	var out []Toggle
	for _, t := range toggles {
		if !bound[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// Accordion tracks the expanded state of each bound toggle. Items are
// independent; several may be expanded at once.
type Accordion struct {
	mu       sync.Mutex
	expanded map[string]bool
	panels   map[string]string
}

// NewAccordion creates an accordion with nothing bound.
func NewAccordion() *Accordion {
	return &Accordion{
		expanded: make(map[string]bool),
		panels:   make(map[string]string),
	}
}

// Rebind syncs the bound set to markup: toggles that disappeared are
// released, new ones are bound in the state their markup declares, and
// toggles already bound keep their state. It returns the number newly bound.
func (a *Accordion) Rebind(markup string) (int, error) {
	toggles, err := FindToggles(markup)
	if err != nil {
		return 0, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	present := make(map[string]bool, len(toggles))
	for _, t := range toggles {
		present[t.ID] = true
	}
	for id := range a.expanded {
		if !present[id] {
			delete(a.expanded, id)
			delete(a.panels, id)
		}
	}
	bound := make(map[string]bool, len(a.expanded))
	for id := range a.expanded {
		bound[id] = true
	}
	fresh := UnboundToggles(toggles, bound)
	for _, t := range fresh {
		a.expanded[t.ID] = t.Expanded
		a.panels[t.ID] = t.PanelID
	}
	return len(fresh), nil
}

// Toggle flips one item and returns its new expanded state.
func (a *Accordion) Toggle(id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	state, ok := a.expanded[id]
	if !ok {
		return false, ErrUnknownToggle
	}
	a.expanded[id] = !state
	return !state, nil
}

// Expanded reports the state of one item.
func (a *Accordion) Expanded(id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	state, ok := a.expanded[id]
	if !ok {
		return false, ErrUnknownToggle
	}
	return state, nil
}

// Panel returns the panel id controlled by a toggle.
func (a *Accordion) Panel(id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	panel, ok := a.panels[id]
	if !ok {
		return "", ErrUnknownToggle
	}
	return panel, nil
}

// Bound reports how many toggles are bound.
func (a *Accordion) Bound() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.expanded)
}
