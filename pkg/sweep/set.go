package sweep

import "slices"

// indexSet is an ordered set of buffer indices backed by a sorted slice.
// Active-buffer cardinality is small in practice, so binary-search inserts
// into a contiguous slice beat a tree while keeping iteration in ascending
// index order. Deterministic iteration matters: sections snapshot the set
// directly and overlap queries walk it, so an unordered structure would
// leak nondeterminism into the output.
type indexSet struct {
	idxs []BufferIdx
}

// Insert adds idx to the set. Inserting an existing index is a no-op.
func (s *indexSet) Insert(idx BufferIdx) {
	pos, found := slices.BinarySearch(s.idxs, idx)
	if !found {
		s.idxs = slices.Insert(s.idxs, pos, idx)
	}
}

// Remove deletes idx from the set. Removing a missing index is a no-op.
func (s *indexSet) Remove(idx BufferIdx) {
	pos, found := slices.BinarySearch(s.idxs, idx)
	if found {
		s.idxs = slices.Delete(s.idxs, pos, pos+1)
	}
}

// Contains reports whether idx is in the set.
func (s *indexSet) Contains(idx BufferIdx) bool {
	_, found := slices.BinarySearch(s.idxs, idx)
	return found
}

// Empty reports whether the set has no elements.
func (s *indexSet) Empty() bool { return len(s.idxs) == 0 }

// Len returns the number of elements in the set.
func (s *indexSet) Len() int { return len(s.idxs) }

// Values returns the set's elements in ascending order. The returned slice
// is a live view; callers that retain it must use Snapshot instead.
func (s *indexSet) Values() []BufferIdx { return s.idxs }

// Snapshot returns an independent copy of the set's elements in ascending
// order.
func (s *indexSet) Snapshot() []BufferIdx { return slices.Clone(s.idxs) }
