package view

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/dkathe/phishdash/internal/types"
)

func batchOf(n int) []types.ScoredEmail {
	batch := make([]types.ScoredEmail, n)
	for i := range batch {
		batch[i] = types.ScoredEmail{Email: types.Email{
			ID:      fmt.Sprintf("id-%d", i),
			Sender:  fmt.Sprintf("sender-%d@example.com", i),
			Subject: fmt.Sprintf("subject %d", i),
		}}
	}
	return batch
}

func TestFiltered_MatchesAnyField(t *testing.T) {
	s := NewState(5)
	s.SetBatch([]types.ScoredEmail{
		{Email: types.Email{ID: "1", Sender: "a@x.com", Subject: "hello", Snippet: "one"}},
		{Email: types.Email{ID: "2", Sender: "b@y.com", Subject: "hello", Snippet: "two"}},
	})

	s.SetSearch("x.com")
	filtered := s.Filtered()
	if len(filtered) != 1 || filtered[0].Email.ID != "1" {
		t.Fatalf("filtered = %+v, want only the x.com sender", filtered)
	}

	// Case-insensitive, and snippet matches too.
	s.SetSearch("TWO")
	filtered = s.Filtered()
	if len(filtered) != 1 || filtered[0].Email.ID != "2" {
		t.Fatalf("filtered = %+v, want only the snippet match", filtered)
	}
}

func TestSetSearch_ResetsPage(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(20))
	s.SetPage(3)
	if s.Page() != 3 {
		t.Fatalf("page = %d, want 3", s.Page())
	}

	s.SetSearch("example")
	if s.Page() != 1 {
		t.Errorf("page after search change = %d, want 1", s.Page())
	}
}

func TestApplyBatch_ResetsPage(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(20))
	s.SetPage(4)

	s.SetBatch(batchOf(20))
	if s.Page() != 1 {
		t.Errorf("page after batch replacement = %d, want 1", s.Page())
	}
}

func TestVisible_Pagination(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(12))

	items, totalPages := s.Visible()
	if totalPages != 3 {
		t.Errorf("totalPages = %d, want 3", totalPages)
	}
	if len(items) != 5 || items[0].Email.ID != "id-0" {
		t.Errorf("page 1 = %d items starting %s, want 5 starting id-0", len(items), items[0].Email.ID)
	}

	s.SetPage(3)
	items, _ = s.Visible()
	if len(items) != 2 || items[0].Email.ID != "id-10" {
		t.Errorf("page 3 = %d items, want 2 starting id-10", len(items))
	}
}

func TestSetPage_Clamps(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(12))

	s.SetPage(99)
	if s.Page() != 3 {
		t.Errorf("page = %d, want clamp to 3", s.Page())
	}
	s.SetPage(-1)
	if s.Page() != 1 {
		t.Errorf("page = %d, want clamp to 1", s.Page())
	}
}

func TestVisible_EmptyBatch(t *testing.T) {
	s := NewState(5)
	items, totalPages := s.Visible()
	if len(items) != 0 || totalPages != 1 {
		t.Errorf("Visible on empty state = %d items, %d pages", len(items), totalPages)
	}
}

func TestApplyBatch_StaleTokenDiscarded(t *testing.T) {
	s := NewState(5)

	// Two scans start in quick succession; the older one finishes last.
	older := s.Begin()
	newer := s.Begin()

	if !s.ApplyBatch(newer, batchOf(3)) {
		t.Fatal("newest batch should apply")
	}
	if s.ApplyBatch(older, batchOf(8)) {
		t.Fatal("stale batch must be discarded")
	}

	items, _ := s.Visible()
	if len(items) != 3 {
		t.Errorf("visible = %d items, want the newer batch's 3", len(items))
	}
}

func TestRemoveByID(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(3))

	s.RemoveByID("id-1")
	filtered := s.Filtered()
	if len(filtered) != 2 {
		t.Fatalf("batch = %d items, want 2", len(filtered))
	}
	for _, e := range filtered {
		if e.Email.ID == "id-1" {
			t.Error("id-1 should have been removed")
		}
	}

	// Unknown ID (e.g. a failed spam move never got here) is a no-op.
	s.RemoveByID("no-such-id")
	if len(s.Filtered()) != 2 {
		t.Error("removing unknown ID must not change the batch")
	}
}

func TestClear(t *testing.T) {
	s := NewState(5)
	s.SetBatch(batchOf(7))
	s.SetSearch("example")
	s.SetPage(2)

	s.Clear()
	items, totalPages := s.Visible()
	if len(items) != 0 || totalPages != 1 {
		t.Errorf("Visible after Clear = %d items, %d pages", len(items), totalPages)
	}
	if s.Page() != 1 {
		t.Errorf("page after Clear = %d, want 1", s.Page())
	}
}

func TestPageNumbers(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		{1, 1, []int{1}},
		{1, 3, []int{1, 2, 3}},
		{5, 10, []int{1, Ellipsis, 4, 5, 6, Ellipsis, 10}},
		{1, 10, []int{1, 2, Ellipsis, 10}},
		{10, 10, []int{1, Ellipsis, 9, 10}},
	}

	for _, tc := range cases {
		got := PageNumbers(tc.current, tc.total)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("PageNumbers(%d, %d) = %v, want %v", tc.current, tc.total, got, tc.want)
		}
	}
}
