package client

import "sync"

type sessionKey struct {
	instanceID string
	selection  string
}

// SessionCache holds markup already fetched during this session. It may be
// shared by every controller on a page.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[sessionKey]string
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{entries: make(map[sessionKey]string)}
}

// Get returns the markup stored for the pair.
func (s *SessionCache) Get(instanceID, selection string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	html, ok := s.entries[sessionKey{instanceID, selection}]
	return html, ok
}

// Put stores markup for the pair.
func (s *SessionCache) Put(instanceID, selection, html string) {
	s.mu.Lock()
	s.entries[sessionKey{instanceID, selection}] = html
	s.mu.Unlock()
}

// Len reports the number of stored entries.
func (s *SessionCache) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
