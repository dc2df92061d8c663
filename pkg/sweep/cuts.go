package sweep

// CalculateCuts counts, for each boundary between adjacent sections, how
// many buffers survive across it. Only a buffer's first and last section
// spans matter: gaps inside its own lifetime do not break the crossing, so
// a buffer spanning sections [first, last) increments every boundary
// strictly inside that range.
//
// A boundary with a zero count separates completely disjoint buffer sets;
// the sections on either side may be solved independently. For gap-free
// buffers every internal boundary of a partition has a positive count;
// empty gaps touching a lifespan endpoint can drive a count to zero even
// inside a partition, exposing a finer decomposition than partitions alone.
//
// The returned slice has one entry per boundary, i.e. len(Sections)-1
// entries; it is nil when there are no sections.
func (r *SweepResult) CalculateCuts() []CutCount {
	if len(r.Sections) == 0 {
		return nil
	}
	cuts := make([]CutCount, len(r.Sections)-1)
	for i := range r.BufferData {
		spans := r.BufferData[i].SectionSpans
		if len(spans) == 0 {
			// A buffer whose empty gap covers its entire lifespan never
			// occupies memory and crosses nothing.
			continue
		}
		first := spans[0].SectionRange.Lower
		last := spans[len(spans)-1].SectionRange.Upper
		for s := first; s+1 < last; s++ {
			cuts[s]++
		}
	}
	return cuts
}
