package sweep

import (
	"slices"

	"github.com/Merci306/minimalloc-merci/pkg/model"
)

// BufferIdx identifies a buffer by its position in the problem's buffer
// sequence.
type BufferIdx int

// SectionIdx identifies a section by its position in the emitted sequence.
type SectionIdx int

// CutCount is the number of buffers crossing one boundary between adjacent
// sections.
type CutCount int

// Section is the ordered, duplicate-free set of buffers simultaneously
// occupying memory during one maximal constant-activity interval of the
// time axis. Sections are emitted in increasing time order and are
// immutable once appended; downstream consumers care only about their
// sequence index, never the original time values.
type Section []BufferIdx

// Equal reports whether two sections contain the same buffers.
func (s Section) Equal(x Section) bool {
	return slices.Equal(s, x)
}

// SectionRange is a half-open range [Lower, Upper) of section indices.
// Lower <= Upper always holds for ranges produced by the sweep.
type SectionRange struct {
	Lower SectionIdx `json:"lower"`
	Upper SectionIdx `json:"upper"`
}

// SectionSpan associates a buffer with one maximal contiguous run of
// sections during which it held one constant window. A buffer passing
// through a windowed gap produces separate spans before, during, and after
// the gap; a zero-window gap produces a break with no span at all.
type SectionSpan struct {
	SectionRange SectionRange `json:"section_range"`
	Window       model.Window `json:"window"`
}

// Equal reports whether two section spans are identical.
func (s SectionSpan) Equal(x SectionSpan) bool {
	return s.SectionRange == x.SectionRange && s.Window == x.Window
}

// Partition is a maximal group of buffers whose lifespans transitively
// overlap in time (ignoring gaps), together with the contiguous range of
// sections it spans. Partitions are pairwise time-disjoint and collectively
// cover all sections exactly once, in increasing order; each can be handed
// to a placement solver independently.
type Partition struct {
	BufferIdxs   []BufferIdx  `json:"buffer_idxs"`
	SectionRange SectionRange `json:"section_range"`
}

// Equal reports whether two partitions are identical.
func (p Partition) Equal(x Partition) bool {
	return slices.Equal(p.BufferIdxs, x.BufferIdxs) && p.SectionRange == x.SectionRange
}

// Overlap records that a buffer, when co-active with the referenced partner,
// requires the given effective combined size. A partner may appear more than
// once with different sizes when window changes across gaps yield different
// effective sizes in different phases.
type Overlap struct {
	BufferIdx     BufferIdx  `json:"buffer_idx"`
	EffectiveSize model.Size `json:"effective_size"`
}

// compareOverlaps orders overlaps by partner index, then effective size.
func compareOverlaps(a, b Overlap) int {
	if a.BufferIdx != b.BufferIdx {
		if a.BufferIdx < b.BufferIdx {
			return -1
		}
		return 1
	}
	switch {
	case a.EffectiveSize < b.EffectiveSize:
		return -1
	case a.EffectiveSize > b.EffectiveSize:
		return 1
	}
	return 0
}

// BufferData aggregates the per-buffer sweep output: the buffer's section
// spans in increasing section order, and its ordered, duplicate-free overlap
// set.
type BufferData struct {
	SectionSpans []SectionSpan `json:"section_spans"`
	Overlaps     []Overlap     `json:"overlaps"`
}

// Equal reports whether two buffer data records are identical.
func (d BufferData) Equal(x BufferData) bool {
	return slices.EqualFunc(d.SectionSpans, x.SectionSpans, SectionSpan.Equal) &&
		slices.Equal(d.Overlaps, x.Overlaps)
}

// SweepResult is the aggregate output of one sweep: the full section
// sequence, the full partition sequence, and one BufferData per input
// buffer (indexed identically to the problem's buffer sequence). The result
// is built once by [Sweep] and immutable afterward; ownership transfers
// wholesale to the caller.
type SweepResult struct {
	Sections   []Section    `json:"sections"`
	Partitions []Partition  `json:"partitions"`
	BufferData []BufferData `json:"buffer_data"`
}

// Equal reports whether two sweep results are identical under value
// semantics. Two sweeps of the same problem always compare equal.
func (r SweepResult) Equal(x SweepResult) bool {
	return slices.EqualFunc(r.Sections, x.Sections, Section.Equal) &&
		slices.EqualFunc(r.Partitions, x.Partitions, Partition.Equal) &&
		slices.EqualFunc(r.BufferData, x.BufferData, BufferData.Equal)
}
