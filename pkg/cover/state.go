package cover

import (
	"fmt"
	"slices"

	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// state is a single node of the search: the Sets still available on
// this branch, the elements they must still cover and the Sets
// already committed to.
//
// For every state on the search stack, uncovered is the universe
// minus the union of chosen, every remaining Set has had the elements
// covered by chosen cleared, and no remaining Set is empty.
type state struct {
	remaining []Set
	uncovered *bitset.BitSet
	chosen    []ID
}

func newRootState(in *Instance) *state {
	s := state{
		remaining: make([]Set, 0, len(in.sets)),
		uncovered: bitset.Full(in.universe),
		chosen:    make([]ID, 0, len(in.sets)),
	}
	for _, set := range in.sets {
		// An empty candidate can never contribute to a cover.
		if !set.Elements.Any() {
			continue
		}
		s.remaining = append(s.remaining, set.clone())
	}
	return &s
}

// clone returns a deep copy of s. The chosen slice is allocated with
// the given capacity so that appends on the copy don't reallocate.
func (s *state) clone(capacity int) *state {
	c := state{
		remaining: make([]Set, len(s.remaining)),
		uncovered: s.uncovered.Clone(),
		chosen:    make([]ID, len(s.chosen), max(capacity, len(s.chosen))),
	}
	for i, set := range s.remaining {
		c.remaining[i] = set.clone()
	}
	copy(c.chosen, s.chosen)
	return &c
}

// take removes and returns the remaining Set at index i, preserving
// the order of the others.
func (s *state) take(i int) Set {
	set := s.remaining[i]
	s.remaining = slices.Delete(s.remaining, i, i+1)
	return set
}

// commit adds the given Sets, which must already have been removed
// from remaining, to the partial cover. Their elements are cleared
// from uncovered and from every remaining Set, and remaining Sets
// left without elements are dropped.
func (s *state) commit(sets ...Set) {
	for _, set := range sets {
		s.chosen = append(s.chosen, set.ID)
		s.uncovered.InPlaceDifference(set.Elements)
		for _, other := range s.remaining {
			other.Elements.InPlaceDifference(set.Elements)
		}
	}
	s.remaining = slices.DeleteFunc(s.remaining, func(set Set) bool {
		return !set.Elements.Any()
	})
}

// check panics if s violates the invariants that reduction and
// branching are supposed to maintain.
func (s *state) check() {
	for _, set := range s.remaining {
		if !set.Elements.Any() {
			panic(fmt.Sprintf("set %s has no uncovered elements but was not dropped", set.ID))
		}
	}
}

// widest returns the index of the first remaining Set with the
// largest number of elements, or -1 if there are none.
func (s *state) widest() int {
	best, most := -1, uint(0)
	for i, set := range s.remaining {
		if n := set.Elements.Count(); best < 0 || n > most {
			best, most = i, n
		}
	}
	return best
}
