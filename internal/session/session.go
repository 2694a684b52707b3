// Package session holds per-viewer browse state: pagination cursors and the
// debounced search stream. Cursors only move forward.
package session

import (
	"context"
	"sync"
	"time"

	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
)

type Session struct {
	ID string

	store  *catalog.Store
	stream *query.Stream

	mu       sync.Mutex
	cursors  map[string]int
	lastSeen time.Time
}

func New(id string, store *catalog.Store, stream *query.Stream, now time.Time) *Session {
	return &Session{
		ID:       id,
		store:    store,
		stream:   stream,
		cursors:  map[string]int{},
		lastSeen: now,
	}
}

// Cursor is the current page of category, 1 if never advanced.
func (s *Session) Cursor(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorLocked(category)
}

func (s *Session) cursorLocked(category string) int {
	if p, ok := s.cursors[category]; ok {
		return p
	}
	return 1
}

// Cursors returns a copy of every cursor that has been set.
func (s *Session) Cursors() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.cursors))
	for k, v := range s.cursors {
		out[k] = v
	}
	return out
}

// LoadMore advances the category cursor by one and returns the new page.
// There is no upper bound; pages past the end are simply empty.
func (s *Session) LoadMore(category string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.cursorLocked(category) + 1
	s.cursors[category] = next
	return next
}

// Row is the category page at the session's cursor.
func (s *Session) Row(category string) catalog.Page {
	return s.store.Page(category, s.Cursor(category), catalog.DefaultPageSize)
}

func (s *Session) SetQuery(q string) query.Result { return s.stream.Update(q) }

func (s *Session) Search() query.Result { return s.stream.Snapshot() }

func (s *Session) WaitSearch(ctx context.Context) (query.Result, error) {
	return s.stream.Wait(ctx)
}

func (s *Session) Close() { s.stream.Close() }

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
