// Package page implements the client's paginated collection state: an
// in-memory mirror of a server-side page sequence with direction-aware
// merging and identity de-duplication.
//
// One Fetcher instance backs one view (a conversation, the match list, the
// notification drawer); instances are never shared between views.
package page

import (
	"context"
	"sync"
)

// Merge selects how pages beyond the first combine with existing items.
type Merge int

const (
	// MergeReplace swaps the whole item list on every page (match list,
	// where the view shows exactly one page at a time).
	MergeReplace Merge = iota

	// MergePrepend inserts the new page above existing items. Chat history
	// loads backward (older pages go on top); the notification drawer loads
	// forward (newer batches go on top). Both merge the same way.
	MergePrepend
)

// Result is one fetched page plus the server's authoritative page count.
type Result[T any] struct {
	Items      []T
	TotalPages int
}

// FetchFunc loads one page of the collection for the given scope.
type FetchFunc[T any] func(ctx context.Context, scope string, page int) (Result[T], error)

type Fetcher[T any] struct {
	fetch FetchFunc[T]
	key   func(T) string
	merge Merge

	mu         sync.Mutex
	scope      string
	items      []T
	seen       map[string]struct{}
	page       int
	totalPages int
	loading    bool
	gen        int
}

// NewFetcher builds a fetcher; key extracts the identity used for
// de-duplication across merges.
func NewFetcher[T any](fetch FetchFunc[T], key func(T) string, merge Merge) *Fetcher[T] {
	return &Fetcher[T]{
		fetch:      fetch,
		key:        key,
		merge:      merge,
		seen:       make(map[string]struct{}),
		totalPages: 1,
	}
}

// Reset clears all state for a new scope (different conversation, different
// search term). A fetch still in flight for the old scope is discarded when
// it lands.
func (f *Fetcher[T]) Reset(scope string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scope = scope
	f.items = nil
	f.seen = make(map[string]struct{})
	f.page = 0
	f.totalPages = 1
	f.loading = false
	f.gen++
}

// FetchPage loads page n and merges it. Returns false without fetching when
// a fetch is already in flight, or n is out of the known range. A fetch
// error leaves existing items untouched.
func (f *Fetcher[T]) FetchPage(ctx context.Context, n int) (bool, error) {
	f.mu.Lock()
	if f.loading || n < 1 || n > f.totalPages {
		f.mu.Unlock()
		return false, nil
	}
	f.loading = true
	gen := f.gen
	scope := f.scope
	f.mu.Unlock()

	result, err := f.fetch(ctx, scope, n)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gen != gen {
		// Scope changed mid-flight; the result belongs to a dead view.
		return false, nil
	}
	f.loading = false

	if err != nil {
		return false, err
	}

	if result.TotalPages > 0 {
		f.totalPages = result.TotalPages
	}

	switch {
	case n == 1 || f.merge == MergeReplace:
		f.items = nil
		f.seen = make(map[string]struct{})
		f.appendLocked(result.Items)
		f.page = n
	default:
		f.prependLocked(result.Items)
		if n > f.page {
			f.page = n
		}
	}
	return true, nil
}

// FetchNext loads the page after the highest one seen so far.
func (f *Fetcher[T]) FetchNext(ctx context.Context) (bool, error) {
	f.mu.Lock()
	next := f.page + 1
	f.mu.Unlock()
	return f.FetchPage(ctx, next)
}

// HasMore reports whether pages beyond the current one remain.
func (f *Fetcher[T]) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page < f.totalPages
}

// Items returns a copy of the merged list in display order.
func (f *Fetcher[T]) Items() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Fetcher[T]) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

func (f *Fetcher[T]) TotalPages() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.totalPages
}

func (f *Fetcher[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Push appends one item at the bottom (a newly arrived chat message).
// Returns false when the identity is already present.
func (f *Fetcher[T]) Push(item T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(item)
	if _, dup := f.seen[k]; dup {
		return false
	}
	f.seen[k] = struct{}{}
	f.items = append(f.items, item)
	return true
}

// Unshift inserts one item at the top (a pushed notification).
// Returns false when the identity is already present.
func (f *Fetcher[T]) Unshift(item T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := f.key(item)
	if _, dup := f.seen[k]; dup {
		return false
	}
	f.seen[k] = struct{}{}
	f.items = append([]T{item}, f.items...)
	return true
}

// Swap replaces the first item matching the predicate, re-keying the
// identity set (optimistic send reconciliation). Returns false when nothing
// matched.
func (f *Fetcher[T]) Swap(match func(T) bool, item T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if match(existing) {
			delete(f.seen, f.key(existing))
			f.seen[f.key(item)] = struct{}{}
			f.items[i] = item
			return true
		}
	}
	return false
}

// Remove deletes the first item matching the predicate (a failed optimistic
// send). Returns false when nothing matched.
func (f *Fetcher[T]) Remove(match func(T) bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.items {
		if match(existing) {
			delete(f.seen, f.key(existing))
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true
		}
	}
	return false
}

// Each calls fn for every item in display order under the lock.
func (f *Fetcher[T]) Each(fn func(item T) T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		f.items[i] = fn(f.items[i])
	}
}

func (f *Fetcher[T]) appendLocked(items []T) {
	for _, item := range items {
		k := f.key(item)
		if _, dup := f.seen[k]; dup {
			continue
		}
		f.seen[k] = struct{}{}
		f.items = append(f.items, item)
	}
}

func (f *Fetcher[T]) prependLocked(items []T) {
	fresh := make([]T, 0, len(items))
	for _, item := range items {
		k := f.key(item)
		if _, dup := f.seen[k]; dup {
			continue
		}
		f.seen[k] = struct{}{}
		fresh = append(fresh, item)
	}
	f.items = append(fresh, f.items...)
}
