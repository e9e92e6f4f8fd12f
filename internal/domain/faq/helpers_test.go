package faq

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRepo struct {
	mu         sync.Mutex
	entries    []Entry
	categories []Category
	err        error
	calls      int
	selections []Selection
}

func (r *stubRepo) Entries(_ context.Context, sel Selection) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.selections = append(r.selections, sel)
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if sel.All {
			out = append(out, e)
			continue
		}
		for _, id := range e.CategoryIDs {
			if id == sel.CategoryID {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (r *stubRepo) Categories(context.Context) ([]Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]Category(nil), r.categories...), nil
}

func (r *stubRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type stubTier struct {
	mu      sync.Mutex
	entries map[string]CacheEntry
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newStubTier() *stubTier {
	return &stubTier{entries: make(map[string]CacheEntry), ttls: make(map[string]time.Duration)}
}

func (t *stubTier) Get(_ context.Context, key string) (CacheEntry, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gets++
	if t.getErr != nil {
		return CacheEntry{}, false, t.getErr
	}
	entry, ok := t.entries[key]
	return entry, ok, nil
}

func (t *stubTier) Set(_ context.Context, entry CacheEntry, ttl time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sets++
	if t.setErr != nil {
		return t.setErr
	}
	t.entries[entry.Key] = entry
	t.ttls[entry.Key] = ttl
	return nil
}

func (t *stubTier) has(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

type countingBuilder struct {
	mu     sync.Mutex
	inner  Builder
	builds int
}

func (b *countingBuilder) Build(ctx context.Context, sel Selection, locale string) BuildResult {
	b.mu.Lock()
	b.builds++
	b.mu.Unlock()
	return b.inner.Build(ctx, sel, locale)
}

func (b *countingBuilder) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.builds
}

type recordingObserver struct {
	mu       sync.Mutex
	lookups  map[string]int
	builds   map[string]int
	requests map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		lookups:  make(map[string]int),
		builds:   make(map[string]int),
		requests: make(map[string]int),
	}
}

func (o *recordingObserver) CacheLookup(tier, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lookups[tier+":"+result]++
}

func (o *recordingObserver) Build(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.builds[outcome]++
}

func (o *recordingObserver) FilterRequest(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.requests[outcome]++
}

func sampleEntries() []Entry {
	return []Entry{
		{ID: 10, Question: "Third?", AnswerHTML: "<p>Answer three</p>", Order: 3, CategoryIDs: []int64{1}},
		{ID: 11, Question: "First?", AnswerHTML: "<p>Answer one</p>", Order: 1, CategoryIDs: []int64{1, 2}},
		{ID: 12, Question: "Second?", AnswerHTML: "<p>Answer two</p>", Order: 2, CategoryIDs: []int64{2}},
	}
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
