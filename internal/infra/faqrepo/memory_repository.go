package faqrepo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/faqfilter/internal/domain/faq"
)

const statusPublish = "publish"

// Seed is the on-disk shape of a content seed file.
type Seed struct {
	Categories []SeedCategory `yaml:"categories"`
	Entries    []SeedEntry    `yaml:"entries"`
}

// SeedCategory is a category row in a seed file.
type SeedCategory struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// SeedEntry is an entry row in a seed file. Status defaults to publish.
type SeedEntry struct {
	ID         int64   `yaml:"id"`
	Question   string  `yaml:"question"`
	Answer     string  `yaml:"answer"`
	Order      int     `yaml:"order"`
	Status     string  `yaml:"status"`
	Categories []int64 `yaml:"categories"`
}

// LoadSeed reads a YAML seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed content.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file: %w", err)
	}
	return seed, nil
}

// MemoryRepository is an in-memory ContentRepository used for tests/dev.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories []SeedCategory
	entries    []SeedEntry
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository(seed Seed) *MemoryRepository {
	r := &MemoryRepository{}
	r.Replace(seed)
	return r
}

// Replace swaps the whole content set.
func (r *MemoryRepository) Replace(seed Seed) {
	categories := append([]SeedCategory(nil), seed.Categories...)
	entries := make([]SeedEntry, 0, len(seed.Entries))
	for _, e := range seed.Entries {
		e.Categories = append([]int64(nil), e.Categories...)
		entries = append(entries, e)
	}
	r.mu.Lock()
	r.categories = categories
	r.entries = entries
	r.mu.Unlock()
}

// Entries implements faq.ContentRepository.
func (r *MemoryRepository) Entries(_ context.Context, sel faq.Selection) ([]faq.Entry, error) {
	if !sel.Valid() {
		return nil, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]faq.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if !published(e) {
			continue
		}
		if !sel.All && !containsID(e.Categories, sel.CategoryID) {
			continue
		}
		out = append(out, faq.Entry{
			ID:          e.ID,
			Question:    e.Question,
			AnswerHTML:  e.Answer,
			Order:       e.Order,
			CategoryIDs: append([]int64(nil), e.Categories...),
		})
	}
	return out, nil
}

// Categories implements faq.ContentRepository.
func (r *MemoryRepository) Categories(_ context.Context) ([]faq.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[int64]int, len(r.categories))
	for _, e := range r.entries {
		if !published(e) {
			continue
		}
		for _, id := range e.Categories {
			counts[id]++
		}
	}
	out := make([]faq.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, faq.Category{ID: c.ID, Name: c.Name, Count: counts[c.ID]})
	}
	return out, nil
}

func published(e SeedEntry) bool {
	status := strings.TrimSpace(e.Status)
	return status == "" || strings.EqualFold(status, statusPublish)
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

var _ faq.ContentRepository = (*MemoryRepository)(nil)
