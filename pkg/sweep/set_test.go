package sweep

import (
	"slices"
	"testing"
)

func TestIndexSet(t *testing.T) {
	var s indexSet

	if !s.Empty() {
		t.Error("new set should be empty")
	}

	for _, idx := range []BufferIdx{5, 1, 3, 1, 9, 3} {
		s.Insert(idx)
	}
	if got, want := s.Values(), []BufferIdx{1, 3, 5, 9}; !slices.Equal(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if !s.Contains(3) || s.Contains(4) {
		t.Error("Contains gave wrong membership")
	}

	s.Remove(3)
	s.Remove(3) // removing a missing index is a no-op
	s.Remove(42)
	if got, want := s.Values(), []BufferIdx{1, 5, 9}; !slices.Equal(got, want) {
		t.Errorf("after Remove, Values() = %v, want %v", got, want)
	}

	snap := s.Snapshot()
	s.Insert(2)
	if got, want := snap, []BufferIdx{1, 5, 9}; !slices.Equal(got, want) {
		t.Errorf("snapshot changed after Insert: %v, want %v", got, want)
	}

	for _, idx := range []BufferIdx{1, 2, 5, 9} {
		s.Remove(idx)
	}
	if !s.Empty() {
		t.Errorf("set should be empty, got %v", s.Values())
	}
}
