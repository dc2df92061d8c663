package model

import (
	"github.com/Merci306/minimalloc-merci/pkg/errors"
)

// Validate checks the problem for input-contract violations and returns nil
// if the problem is well-formed.
//
// It verifies:
//
//   - Buffer IDs are non-empty and unique
//   - Lifespans are non-empty (Lower < Upper)
//   - Sizes, alignments, and the capacity are non-negative
//   - Gaps are non-empty, sorted, pairwise disjoint, and contained in
//     their buffer's lifespan
//   - Gap windows are non-empty and contained in [0, Size)
//
// The sweep itself performs no validation and its behavior on malformed
// input is unspecified; callers that accept untrusted problems should
// validate first.
func (p *Problem) Validate() error {
	if p.Capacity < 0 {
		return errors.New(errors.ErrCodeInvalidProblem, "capacity must be non-negative, got %d", p.Capacity)
	}
	seen := make(map[string]struct{}, len(p.Buffers))
	for i := range p.Buffers {
		b := &p.Buffers[i]
		if err := b.validate(); err != nil {
			return err
		}
		if _, dup := seen[b.ID]; dup {
			return errors.New(errors.ErrCodeInvalidBuffer, "duplicate buffer ID %q", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

func (b *Buffer) validate() error {
	if b.ID == "" {
		return errors.New(errors.ErrCodeInvalidBuffer, "buffer ID must not be empty")
	}
	if b.Lifespan.Lower >= b.Lifespan.Upper {
		return errors.New(errors.ErrCodeInvalidBuffer,
			"buffer %s: lifespan [%d, %d) is empty or inverted", b.ID, b.Lifespan.Lower, b.Lifespan.Upper)
	}
	if b.Size < 0 {
		return errors.New(errors.ErrCodeInvalidBuffer, "buffer %s: size must be non-negative, got %d", b.ID, b.Size)
	}
	if b.Alignment < 0 {
		return errors.New(errors.ErrCodeInvalidBuffer, "buffer %s: alignment must be non-negative, got %d", b.ID, b.Alignment)
	}
	cursor := b.Lifespan.Lower
	for _, g := range b.Gaps {
		if g.Lifespan.Lower >= g.Lifespan.Upper {
			return errors.New(errors.ErrCodeInvalidGap,
				"buffer %s: gap [%d, %d) is empty or inverted", b.ID, g.Lifespan.Lower, g.Lifespan.Upper)
		}
		if !b.Lifespan.Contains(g.Lifespan) {
			return errors.New(errors.ErrCodeInvalidGap,
				"buffer %s: gap [%d, %d) exceeds lifespan [%d, %d)",
				b.ID, g.Lifespan.Lower, g.Lifespan.Upper, b.Lifespan.Lower, b.Lifespan.Upper)
		}
		if g.Lifespan.Lower < cursor {
			return errors.New(errors.ErrCodeInvalidGap,
				"buffer %s: gap [%d, %d) overlaps or precedes an earlier gap",
				b.ID, g.Lifespan.Lower, g.Lifespan.Upper)
		}
		cursor = g.Lifespan.Upper
		if w := g.Window; w != nil {
			if w.Lower >= w.Upper {
				return errors.New(errors.ErrCodeInvalidWindow,
					"buffer %s: window [%d, %d) is empty or inverted", b.ID, w.Lower, w.Upper)
			}
			if w.Lower < 0 || w.Upper > Offset(b.Size) {
				return errors.New(errors.ErrCodeInvalidWindow,
					"buffer %s: window [%d, %d) exceeds size %d", b.ID, w.Lower, w.Upper, b.Size)
			}
		}
	}
	return nil
}
