package cover

import (
	"slices"
)

// scratch holds buffers reused across search nodes.
type scratch struct {
	counts    []uint
	dominated []bool
	forced    []int
}

func newScratch(capacity int) *scratch {
	return &scratch{
		counts:    make([]uint, 0, capacity),
		dominated: make([]bool, 0, capacity),
		forced:    make([]int, 0, capacity),
	}
}

// dominates reports whether a cover using s can always use t instead,
// so that s may be discarded. Among identical Sets, only the one with
// the lowest ID survives.
func dominates(t, s Set, tn, sn uint) bool {
	if t.ID == s.ID || !s.Elements.IsSubsetOf(t.Elements) {
		return false
	}
	// s is a subset of t, so equal counts mean equal Sets.
	return sn < tn || s.ID > t.ID
}

// eliminateDominated removes every remaining Set that is a subset of
// another remaining Set and returns the number of Sets removed. All
// dominated Sets are identified before any is removed.
func (s *state) eliminateDominated(buf *scratch) int {
	buf.counts = buf.counts[:0]
	buf.dominated = buf.dominated[:0]
	for _, set := range s.remaining {
		buf.counts = append(buf.counts, set.Elements.Count())
		buf.dominated = append(buf.dominated, false)
	}

	n := 0
	for i, set := range s.remaining {
		for j, other := range s.remaining {
			if i != j && dominates(other, set, buf.counts[j], buf.counts[i]) {
				buf.dominated[i] = true
				n++
				break
			}
		}
	}
	if n == 0 {
		return 0
	}

	kept := s.remaining[:0]
	for i, set := range s.remaining {
		if !buf.dominated[i] {
			kept = append(kept, set)
		}
	}
	clear(s.remaining[len(kept):])
	s.remaining = kept
	return n
}

// propagateForced commits every remaining Set that is the only one
// containing some uncovered element. It returns the number of Sets
// committed, and false if some uncovered element is contained in no
// remaining Set, in which case the state cannot be completed and is
// left unmodified.
//
// A single pass is made: elements that become singly covered as a
// result of committing forced Sets are handled when the state's
// descendants are reduced.
func (s *state) propagateForced(buf *scratch) (int, bool) {
	buf.forced = buf.forced[:0]
	for e := range s.uncovered.Ones() {
		count, at := 0, -1
		for i, set := range s.remaining {
			if set.Elements.Test(e) {
				count++
				at = i
				if count > 1 {
					break
				}
			}
		}
		switch count {
		case 0:
			return 0, false
		case 1:
			buf.forced = append(buf.forced, at)
		}
	}
	if len(buf.forced) == 0 {
		return 0, true
	}

	slices.Sort(buf.forced)
	buf.forced = slices.Compact(buf.forced)
	sets := make([]Set, len(buf.forced))
	for k := len(buf.forced) - 1; k >= 0; k-- {
		sets[k] = s.take(buf.forced[k])
	}
	s.commit(sets...)
	return len(sets), true
}
