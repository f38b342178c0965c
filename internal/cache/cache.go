// Package cache stores suggest answers of the dev API server.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dsjohal14/quitoemprende/internal/libs/textnorm"
	"github.com/dsjohal14/quitoemprende/internal/scope/catalog"
)

var ErrCacheMiss = errors.New("cache miss")

// SuggestCache caches suggestion sets by key
type SuggestCache interface {
	Get(ctx context.Context, key string) (catalog.SuggestionSet, error)
	Set(ctx context.Context, key string, set catalog.SuggestionSet, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key builds the cache key of a suggest query; accents and case do not split entries
func Key(query string) string {
	return "suggest:" + textnorm.Query(query)
}

type memoryEntry struct {
	set     catalog.SuggestionSet
	expires time.Time
}

// Memory is an in-process SuggestCache
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (catalog.SuggestionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return catalog.SuggestionSet{}, ErrCacheMiss
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return catalog.SuggestionSet{}, ErrCacheMiss
	}
	return e.set, nil
}

// Set stores set under key; a ttl of zero never expires
func (m *Memory) Set(_ context.Context, key string, set catalog.SuggestionSet, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{set: set}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
