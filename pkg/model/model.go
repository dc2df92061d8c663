// Package model defines the problem instances consumed by the planner:
// buffers that need a contiguous region of memory for a contiguous span of
// discrete time steps, optionally with gaps during which their footprint
// shrinks or vanishes.
//
// All intervals are half-open: a lifespan of [0, 10) occupies time steps
// 0 through 9, and a buffer ending at time t never conflicts with one
// starting at time t. The same convention applies to windows, which are
// offset intervals within a buffer's allocated region.
//
// The model is a plain value type with no behavior beyond interval algebra
// and the pairwise [Buffer.EffectiveSize] query used by the sweep. Instances
// are treated as read-only once built; the sweep never mutates a Problem.
package model

// TimeValue is a discrete point on the time axis.
type TimeValue int64

// Offset is a position within a buffer's allocated region, in bytes.
type Offset int64

// Size is a memory amount, in bytes.
type Size int64

// Lifespan is a half-open interval [Lower, Upper) of time values.
type Lifespan struct {
	Lower TimeValue `json:"lower"`
	Upper TimeValue `json:"upper"`
}

// Overlaps reports whether the two half-open intervals share any time step.
func (l Lifespan) Overlaps(x Lifespan) bool {
	return l.Lower < x.Upper && x.Lower < l.Upper
}

// Contains reports whether x lies entirely within l.
func (l Lifespan) Contains(x Lifespan) bool {
	return l.Lower <= x.Lower && x.Upper <= l.Upper
}

// Duration returns the number of time steps covered by the lifespan.
func (l Lifespan) Duration() TimeValue {
	return l.Upper - l.Lower
}

// Window is a half-open offset interval [Lower, Upper) within a buffer's
// allocated region, describing which portion is actually in use during some
// phase of the buffer's lifetime.
type Window struct {
	Lower Offset `json:"lower"`
	Upper Offset `json:"upper"`
}

// Extent returns the size of the occupied region described by the window.
func (w Window) Extent() Size {
	return Size(w.Upper - w.Lower)
}

// Gap is a sub-interval of a buffer's lifespan with reduced footprint.
// A nil Window means the buffer needs no memory at all for the duration of
// the gap; a non-nil Window means the occupied region narrows to that window.
type Gap struct {
	Lifespan Lifespan `json:"lifespan"`
	Window   *Window  `json:"window,omitempty"`
}

// Buffer is an object requiring a contiguous region of memory for a
// contiguous span of time steps. Gaps must be sorted by start time, must
// not overlap one another, and must lie within the buffer's lifespan
// (enforced by [Problem.Validate]).
type Buffer struct {
	ID        string   `json:"id"`
	Lifespan  Lifespan `json:"lifespan"`
	Size      Size     `json:"size"`
	Alignment Size     `json:"alignment,omitempty"` // 0 means byte-aligned
	Gaps      []Gap    `json:"gaps,omitempty"`
}

// FullWindow returns the window a buffer occupies outside any windowed gap:
// its full size starting at offset 0.
func (b Buffer) FullWindow() Window {
	return Window{Lower: 0, Upper: Offset(b.Size)}
}

// EffectiveAlignment returns the buffer's alignment, defaulting to 1.
func (b Buffer) EffectiveAlignment() Size {
	if b.Alignment > 0 {
		return b.Alignment
	}
	return 1
}

// phase is a maximal sub-interval of a buffer's lifespan during which it
// occupies one constant window.
type phase struct {
	lifespan Lifespan
	window   Window
}

// phases splits the buffer's lifespan into the sub-intervals during which it
// actually occupies memory, carving out zero-window gaps entirely and
// substituting the narrowed window inside windowed gaps. Assumes gaps are
// well-formed per [Problem.Validate].
func (b Buffer) phases() []phase {
	full := b.FullWindow()
	phases := make([]phase, 0, 2*len(b.Gaps)+1)
	cursor := b.Lifespan.Lower
	for _, g := range b.Gaps {
		if cursor < g.Lifespan.Lower {
			phases = append(phases, phase{Lifespan{cursor, g.Lifespan.Lower}, full})
		}
		if g.Window != nil {
			phases = append(phases, phase{g.Lifespan, *g.Window})
		}
		cursor = g.Lifespan.Upper
	}
	if cursor < b.Lifespan.Upper {
		phases = append(phases, phase{Lifespan{cursor, b.Lifespan.Upper}, full})
	}
	return phases
}

// EffectiveSize returns the combined-size contribution the buffer imposes
// when simultaneously active with x, and whether the two conflict at all.
//
// The two buffers conflict only if some occupied phase of b intersects some
// occupied phase of x in time; zero-window gaps therefore break conflicts
// that a raw lifespan comparison would report. When they do conflict, the
// result is b's largest occupied window extent over the co-active instants,
// so a buffer narrowed by a windowed gap contributes only the narrowed
// extent to partners it meets exclusively inside that gap.
func (b Buffer) EffectiveSize(x Buffer) (Size, bool) {
	if !b.Lifespan.Overlaps(x.Lifespan) {
		return 0, false
	}
	var size Size
	found := false
	for _, p := range b.phases() {
		for _, q := range x.phases() {
			if !p.lifespan.Overlaps(q.lifespan) {
				continue
			}
			found = true
			if e := p.window.Extent(); e > size {
				size = e
			}
		}
	}
	return size, found
}

// Problem is a complete planner input: the buffers to place and the memory
// capacity available to the downstream solver. Capacity is carried through
// for the solver's benefit; the sweep itself never reads it.
type Problem struct {
	Buffers  []Buffer `json:"buffers"`
	Capacity Size     `json:"capacity,omitempty"`
}
