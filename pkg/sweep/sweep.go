package sweep

import (
	"slices"

	"github.com/Merci306/minimalloc-merci/pkg/model"
)

// pointKind classifies a time event. The declaration order is the tie-break
// order for events at equal time values: gap starts are visible before true
// ends, true ends before true starts (half-open semantics: a buffer ending
// at t never overlaps one starting at t), and gap ends come last so a
// buffer resuming at t is not counted against anything that stopped at t.
type pointKind int

const (
	kindGapStart pointKind = iota // gap opens: footprint shrinks or re-windows
	kindEnd                       // true lifespan end
	kindStart                     // true lifespan start
	kindGapEnd                    // gap closes: footprint grows or re-windows
)

// point is one time event of one buffer. Gap events carry the gap's window
// (nil for zero-footprint gaps).
type point struct {
	bufferIdx BufferIdx
	time      model.TimeValue
	kind      pointKind
	window    *model.Window
}

// comparePoints orders by time, then kind tier, then buffer index. The
// buffer-index tie-break gives deterministic output ordering for events at
// identical (time, kind); no further semantics are attached to it.
func comparePoints(a, b point) int {
	if a.time != b.time {
		if a.time < b.time {
			return -1
		}
		return 1
	}
	if a.kind != b.kind {
		return int(a.kind) - int(b.kind)
	}
	return int(a.bufferIdx) - int(b.bufferIdx)
}

// buildPoints converts every buffer and gap into its time events.
func buildPoints(problem *model.Problem) []point {
	points := make([]point, 0, 2*len(problem.Buffers))
	for i := range problem.Buffers {
		buffer := &problem.Buffers[i]
		idx := BufferIdx(i)
		points = append(points, point{bufferIdx: idx, time: buffer.Lifespan.Lower, kind: kindStart})
		for g := range buffer.Gaps {
			gap := &buffer.Gaps[g]
			points = append(points, point{bufferIdx: idx, time: gap.Lifespan.Lower, kind: kindGapStart, window: gap.Window})
			points = append(points, point{bufferIdx: idx, time: gap.Lifespan.Upper, kind: kindGapEnd, window: gap.Window})
		}
		points = append(points, point{bufferIdx: idx, time: buffer.Lifespan.Upper, kind: kindEnd})
	}
	slices.SortFunc(points, comparePoints)
	return points
}

// insertOverlap adds an overlap to an ordered, duplicate-free overlap slice.
func insertOverlap(overlaps []Overlap, o Overlap) []Overlap {
	pos, found := slices.BinarySearchFunc(overlaps, o, compareOverlaps)
	if found {
		return overlaps
	}
	return slices.Insert(overlaps, pos, o)
}

// Sweep runs the sweep-line pass over the problem's time events and returns
// the sections, partitions, and per-buffer data described in the package
// documentation.
//
// Two ordered sets track state across the pass: actives holds the buffers
// currently occupying non-zero memory (a zero-window gap removes its buffer
// for the duration), and alive holds the buffers inside their true
// lifespans regardless of gap state. Alive going empty is what closes a
// partition; actives is what sections snapshot and overlap queries walk.
func Sweep(problem *model.Problem) SweepResult {
	numBuffers := len(problem.Buffers)
	points := buildPoints(problem)

	result := SweepResult{BufferData: make([]BufferData, numBuffers)}

	var actives, alive indexSet
	var lastSectionTime model.TimeValue
	haveSectionTime := false
	lastSectionIdx := SectionIdx(0)

	// Per-buffer tables indexed by buffer index: the section at which the
	// buffer's open span began (-1 when no span is open), the window
	// currently attributed to it, and how many empty gaps are in progress.
	// The count exceeds one only at the instant where two gaps touch, since
	// the later gap's start event sorts before the earlier gap's end event.
	sectionStart := make([]SectionIdx, numBuffers)
	windows := make([]model.Window, numBuffers)
	emptyGapDepth := make([]int, numBuffers)
	for i := range problem.Buffers {
		sectionStart[i] = -1
		windows[i] = problem.Buffers[i].FullWindow()
	}

	for _, pt := range points {
		idx := pt.bufferIdx
		buffer := &problem.Buffers[idx]

		isStart := pt.kind == kindStart
		isEnd := pt.kind == kindEnd
		isEmptyGapStart := pt.kind == kindGapStart && pt.window == nil
		isEmptyGapEnd := pt.kind == kindGapEnd && pt.window == nil
		isWindowedGapStart := pt.kind == kindGapStart && pt.window != nil
		isWindowedGapEnd := pt.kind == kindGapEnd && pt.window != nil

		// Events at which the buffer's footprint shrinks or re-windows.
		// These are the only events that flush sections and close spans.
		shrinks := isEnd || isEmptyGapStart || isWindowedGapStart || isWindowedGapEnd

		if isEmptyGapStart {
			emptyGapDepth[idx]++
		}
		if isEmptyGapEnd {
			emptyGapDepth[idx]--
		}

		if !haveSectionTime {
			haveSectionTime = true
			lastSectionTime = pt.time
		}

		if shrinks && lastSectionTime < pt.time {
			// Between two shrink events activity only grows, so the active
			// set right before a shrink is a superset of every intermediate
			// state. Snapshotting it here captures every co-activation a
			// finer-grained section sequence would, with fewer sections.
			// An empty set means nothing occupied memory since the previous
			// flush, so there is no section to record.
			lastSectionTime = pt.time
			if !actives.Empty() {
				result.Sections = append(result.Sections, Section(actives.Snapshot()))
			}
		}

		if isEnd || isEmptyGapStart {
			actives.Remove(idx)
		}
		if isEnd {
			alive.Remove(idx)
		}

		if shrinks && sectionStart[idx] != -1 {
			span := SectionSpan{
				SectionRange: SectionRange{sectionStart[idx], SectionIdx(len(result.Sections))},
				Window:       windows[idx],
			}
			result.BufferData[idx].SectionSpans = append(result.BufferData[idx].SectionSpans, span)
			sectionStart[idx] = -1
		}

		// Only a true end can empty alive. When it does, the contiguous run
		// of sections since the last partition boundary belongs to the
		// partition that just finished. This must not depend on the ending
		// buffer having an open span: an empty gap reaching the lifespan end
		// closes the span before the end event arrives.
		if isEnd && alive.Empty() {
			result.Partitions[len(result.Partitions)-1].SectionRange =
				SectionRange{lastSectionIdx, SectionIdx(len(result.Sections))}
			lastSectionIdx = SectionIdx(len(result.Sections))
		}

		// A windowed gap narrows the buffer's window for its duration; the
		// gap end restores the full window. Both happen after the previous
		// span closed above, so the narrowed window is attributed exactly
		// to the span covering the gap.
		if isWindowedGapStart {
			windows[idx] = *pt.window
		}
		if isWindowedGapEnd {
			windows[idx] = buffer.FullWindow()
		}

		// A buffer begins to occupy memory at its start or when its last
		// in-progress empty gap closes, with two boundary exceptions: an
		// empty gap beginning with the lifespan defers activation to the gap
		// end, and an empty gap ending with the lifespan never reactivates
		// the buffer (its end event has already fired at the same time
		// value).
		activates := emptyGapDepth[idx] == 0 &&
			(isStart || (isEmptyGapEnd && alive.Contains(idx)))

		if isStart && alive.Empty() {
			result.Partitions = append(result.Partitions, Partition{})
		}
		if isStart {
			last := len(result.Partitions) - 1
			result.Partitions[last].BufferIdxs = append(result.Partitions[last].BufferIdxs, idx)
			alive.Insert(idx)
		}

		if activates {
			// Record overlaps against every currently active buffer, in
			// both directions, before this buffer joins the set.
			for _, activeIdx := range actives.Values() {
				active := &problem.Buffers[activeIdx]
				if size, ok := active.EffectiveSize(*buffer); ok {
					result.BufferData[activeIdx].Overlaps =
						insertOverlap(result.BufferData[activeIdx].Overlaps, Overlap{idx, size})
				}
				if size, ok := buffer.EffectiveSize(*active); ok {
					result.BufferData[idx].Overlaps =
						insertOverlap(result.BufferData[idx].Overlaps, Overlap{activeIdx, size})
				}
			}
			actives.Insert(idx)
		}

		// Any transition into an active or differently-windowed state opens
		// a new span at the section that will be emitted next. The depth
		// check keeps a windowed gap that touches an empty gap from opening
		// a span while the buffer holds no memory.
		if activates ||
			((isWindowedGapStart || isWindowedGapEnd) && alive.Contains(idx) && emptyGapDepth[idx] == 0) {
			sectionStart[idx] = SectionIdx(len(result.Sections))
		}
	}

	return result
}
