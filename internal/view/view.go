// Package view holds the derived search/pagination state over a scored
// email batch. It performs no I/O.
package view

import (
	"strings"
	"sync"

	"github.com/dkathe/phishdash/internal/types"
)

// DefaultPageSize matches the dashboard's item count per page.
const DefaultPageSize = 5

// Ellipsis marks a collapsed run in a page-number sequence.
const Ellipsis = 0

// State is the filterable, paginated working set of the dashboard.
//
// Batches are applied through tokens issued by Begin: a scan applies its
// results only if no newer scan has started since, so a stale in-flight
// batch can never overwrite a fresher one.
type State struct {
	mu         sync.Mutex
	batch      []types.ScoredEmail
	searchTerm string
	page       int
	pageSize   int
	latest     uint64
}

// NewState creates view state with the given page size.
func NewState(pageSize int) *State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &State{page: 1, pageSize: pageSize}
}

// Begin registers a new scan and returns its token. Any batch applied with
// an older token is discarded.
func (s *State) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// ApplyBatch replaces the working set if token is still the latest one.
// Replacing the batch resets the page to 1. Returns false for stale tokens.
func (s *State) ApplyBatch(token uint64, batch []types.ScoredEmail) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		return false
	}
	s.batch = batch
	s.page = 1
	return true
}

// SetBatch replaces the working set unconditionally (single-scan callers).
func (s *State) SetBatch(batch []types.ScoredEmail) {
	s.ApplyBatch(s.Begin(), batch)
}

// Clear empties the working set, as on sign-out.
func (s *State) Clear() {
	s.SetBatch(nil)
}

// SetSearch updates the search term and resets the page to 1.
func (s *State) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
	s.page = 1
}

// SetPage moves to a 1-indexed page, clamped to the filtered range.
func (s *State) SetPage(page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := totalPages(len(s.filteredLocked()), s.pageSize)
	switch {
	case page < 1:
		s.page = 1
	case page > total:
		s.page = total
	default:
		s.page = page
	}
}

// Page returns the current 1-indexed page.
func (s *State) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// RemoveByID drops a single email from the working set after a confirmed
// spam move. Unknown IDs are a no-op.
func (s *State) RemoveByID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.batch[:0]
	for _, e := range s.batch {
		if e.Email.ID != id {
			kept = append(kept, e)
		}
	}
	s.batch = kept
}

// Filtered returns the emails matching the search term: case-insensitive
// substring match on sender, subject, or snippet.
func (s *State) Filtered() []types.ScoredEmail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filteredLocked()
}

func (s *State) filteredLocked() []types.ScoredEmail {
	if s.searchTerm == "" {
		return s.batch
	}
	term := strings.ToLower(s.searchTerm)
	var filtered []types.ScoredEmail
	for _, e := range s.batch {
		if strings.Contains(strings.ToLower(e.Email.Sender), term) ||
			strings.Contains(strings.ToLower(e.Email.Subject), term) ||
			strings.Contains(strings.ToLower(e.Email.Snippet), term) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Visible returns the current page's slice of the filtered set and the
// total page count.
func (s *State) Visible() ([]types.ScoredEmail, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filteredLocked()
	total := totalPages(len(filtered), s.pageSize)

	page := s.page
	if page > total {
		page = total
	}
	first := (page - 1) * s.pageSize
	last := first + s.pageSize
	if first >= len(filtered) {
		return nil, total
	}
	if last > len(filtered) {
		last = len(filtered)
	}
	return filtered[first:last], total
}

func totalPages(items, pageSize int) int {
	if items == 0 {
		return 1
	}
	return (items + pageSize - 1) / pageSize
}

// PageNumbers returns the page-control sequence for the given position:
// first, last, and current±1 are kept, collapsed runs become Ellipsis.
func PageNumbers(current, total int) []int {
	var seq []int
	for n := 1; n <= total; n++ {
		switch {
		case n == 1 || n == total || (n >= current-1 && n <= current+1):
			seq = append(seq, n)
		case n == 2 || n == total-1:
			seq = append(seq, Ellipsis)
		}
	}
	return seq
}
