package store

import (
	"sync"

	"github.com/elitceler/streetcause-admin/pkg/core/model"
)

// listState is the shared collection state: the items of the last completed
// fetch, its pagination block (nil when the endpoint returned none), a loading
// flag and the last error message. A mutex serializes state application; it
// does not sequence requests, so two overlapping fetches resolve
// last-writer-wins.
type listState[T any] struct {
	mu        sync.Mutex
	items     []T
	meta      *model.Meta
	loading   bool
	lastError string
}

func (s *listState[T]) beginFetch() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

// applyPage replaces the collection wholesale from a completed fetch.
func (s *listState[T]) applyPage(p page[T]) {
	s.mu.Lock()
	s.items = p.Items
	s.meta = p.Meta
	s.loading = false
	s.mu.Unlock()
}

// failFetch records the error and stops loading. Items and meta are left
// untouched: nothing was mutated, so there is nothing to roll back.
func (s *listState[T]) failFetch(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.loading = false
	s.mu.Unlock()
}

// failAction records an error from a mutation without touching the loading
// flag; mutations never show a spinner.
func (s *listState[T]) failAction(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// removeConfirmed drops all items matching the predicate and decrements the
// total count by the number removed, when pagination is present.
func (s *listState[T]) removeConfirmed(match func(T) bool) {
	s.mu.Lock()
	kept := s.items[:0:0]
	removed := 0
	for _, item := range s.items {
		if match(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	if s.meta != nil {
		s.meta.TotalItems -= removed
	}
	s.mu.Unlock()
}

// Items returns a copy of the current items.
func (s *listState[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Meta returns a copy of the pagination block, or nil when the last response
// carried none. Nil means "render the full list without page controls".
func (s *listState[T]) Meta() *model.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.meta == nil {
		return nil
	}
	meta := *s.meta
	return &meta
}

// Loading reports whether a fetch is in flight.
func (s *listState[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the most recent failure message, empty when the last
// operation succeeded.
func (s *listState[T]) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}
