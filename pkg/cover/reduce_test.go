package cover

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

func ids(sets []Set) []ID {
	result := []ID{}
	for _, s := range sets {
		result = append(result, s.ID)
	}
	return result
}

func TestEliminateDominated(t *testing.T) {
	type tc struct {
		Name      string
		Sets      []Set
		Remaining []ID
		Removed   int
	}

	for _, tt := range []tc{
		{
			Name:      "strict subset is removed",
			Sets:      []Set{set(0, 3, 0, 1), set(1, 3, 0, 1, 2)},
			Remaining: []ID{1},
			Removed:   1,
		},
		{
			Name:      "identical sets keep the lower id",
			Sets:      []Set{set(0, 3, 0, 1), set(1, 3, 0, 1)},
			Remaining: []ID{0},
			Removed:   1,
		},
		{
			Name:      "identical sets keep the lower id regardless of order",
			Sets:      []Set{set(5, 3, 2), set(2, 3, 2)},
			Remaining: []ID{2},
			Removed:   1,
		},
		{
			Name:      "three identical sets keep one",
			Sets:      []Set{set(7, 4, 1, 3), set(3, 4, 1, 3), set(9, 4, 1, 3)},
			Remaining: []ID{3},
			Removed:   2,
		},
		{
			Name:      "chain keeps only the widest",
			Sets:      []Set{set(0, 4, 0), set(1, 4, 0, 1), set(2, 4, 0, 1, 2)},
			Remaining: []ID{2},
			Removed:   2,
		},
		{
			Name:      "identical sets dominated by a wider one are both removed",
			Sets:      []Set{set(0, 4, 0), set(1, 4, 0), set(2, 4, 0, 1)},
			Remaining: []ID{2},
			Removed:   2,
		},
		{
			Name:      "no domination among overlapping sets",
			Sets:      []Set{set(0, 3, 0, 1), set(1, 3, 1, 2), set(2, 3, 0, 2)},
			Remaining: []ID{0, 1, 2},
		},
		{
			Name:      "order of survivors is preserved",
			Sets:      []Set{set(4, 5, 3, 4), set(0, 5, 0), set(1, 5, 0, 1), set(2, 5, 2, 3)},
			Remaining: []ID{4, 1, 2},
			Removed:   1,
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			s := &state{remaining: tt.Sets}
			removed := s.eliminateDominated(newScratch(0))
			assert.Equal(t, tt.Removed, removed)
			assert.Equal(t, tt.Remaining, ids(s.remaining))
		})
	}
}

func TestEliminateDominatedIsIdempotent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	buf := newScratch(0)
	for i := 0; i < 50; i++ {
		s := newRootState(randomInstance(rnd, 12, 10, 0.3))
		s.eliminateDominated(buf)
		before := ids(s.remaining)
		assert.Zero(t, s.eliminateDominated(buf))
		assert.Equal(t, before, ids(s.remaining))
	}
}

func TestEliminateDominatedPreservesOptimum(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 40; i++ {
		in := randomInstance(rnd, 8, 9, 0.35)
		s := newRootState(in)
		s.eliminateDominated(newScratch(0))
		reduced := NewInstance(in.Universe(), s.remaining)
		assert.Equal(t, bruteForce(in), bruteForce(reduced), "instance %d", i)
	}
}

func TestPropagateForced(t *testing.T) {
	type tc struct {
		Name      string
		Universe  uint
		Sets      []Set
		Forced    int
		Feasible  bool
		Chosen    []ID
		Remaining []ID
		Uncovered []uint
	}

	for _, tt := range []tc{
		{
			Name:      "disjoint sets are all forced",
			Universe:  4,
			Sets:      []Set{set(0, 4, 0, 1), set(1, 4, 2, 3)},
			Forced:    2,
			Feasible:  true,
			Chosen:    []ID{0, 1},
			Remaining: []ID{},
			Uncovered: []uint{},
		},
		{
			Name:      "element in no set is infeasible and leaves the state alone",
			Universe:  2,
			Sets:      []Set{set(0, 2, 0)},
			Chosen:    []ID{},
			Remaining: []ID{0},
			Uncovered: []uint{0, 1},
		},
		{
			Name:      "no singly covered element forces nothing",
			Universe:  3,
			Sets:      []Set{set(0, 3, 0, 1), set(1, 3, 1, 2), set(2, 3, 0, 2)},
			Feasible:  true,
			Chosen:    []ID{},
			Remaining: []ID{0, 1, 2},
			Uncovered: []uint{0, 1, 2},
		},
		{
			Name:      "set forced by several elements is committed once",
			Universe:  4,
			Sets:      []Set{set(0, 4, 0, 1, 2), set(1, 4, 2, 3), set(2, 4, 3)},
			Forced:    1,
			Feasible:  true,
			Chosen:    []ID{0},
			Remaining: []ID{1, 2},
			Uncovered: []uint{3},
		},
		{
			Name:      "sets emptied by a forced set are dropped",
			Universe:  3,
			Sets:      []Set{set(0, 3, 0, 1), set(1, 3, 1), set(2, 3, 1, 2), set(3, 3, 2)},
			Forced:    1,
			Feasible:  true,
			Chosen:    []ID{0},
			Remaining: []ID{2, 3},
			Uncovered: []uint{2},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			in := NewInstance(tt.Universe, tt.Sets)
			s := newRootState(in)
			forced, ok := s.propagateForced(newScratch(0))
			assert.Equal(t, tt.Feasible, ok)
			assert.Equal(t, tt.Forced, forced)
			assert.Equal(t, tt.Chosen, s.chosen)
			assert.Equal(t, tt.Remaining, ids(s.remaining))
			assert.Equal(t, tt.Uncovered, s.uncovered.Slice())
		})
	}
}

func TestPropagateForcedKeepsStateInvariant(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	buf := newScratch(0)
	for i := 0; i < 50; i++ {
		in := randomInstance(rnd, 10, 8, 0.3)
		s := newRootState(in)
		s.eliminateDominated(buf)
		if _, ok := s.propagateForced(buf); !ok {
			continue
		}
		require.NotPanics(t, s.check)

		covered := bitset.Full(in.Universe())
		covered.InPlaceDifference(s.uncovered)
		for _, id := range s.chosen {
			chosen, _ := in.Lookup(id)
			assert.True(t, chosen.Elements.IsSubsetOf(covered))
		}
		for _, r := range s.remaining {
			for e := range r.Elements.Ones() {
				assert.True(t, s.uncovered.Test(e), "remaining set %s still holds covered element %d", r.ID, e)
			}
		}
	}
}

func TestForcedSetsAppearInEveryOptimum(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	var checked int
	for i := 0; i < 60; i++ {
		in := randomInstance(rnd, 9, 8, 0.3)
		optima := minimumCovers(in)
		if len(optima) == 0 {
			continue
		}
		s := newRootState(in)
		forced, ok := s.propagateForced(newScratch(0))
		require.True(t, ok, "instance %d", i)
		if forced == 0 {
			continue
		}
		checked++
		for _, cover := range optima {
			for _, id := range s.chosen {
				assert.Contains(t, cover, id, "instance %d", i)
			}
		}
	}
	assert.NotZero(t, checked)
}

func TestMinimumCovers(t *testing.T) {
	// Any two sides of a triangle cover it.
	in := instance(3, []uint{0, 1}, []uint{1, 2}, []uint{0, 2})
	assert.Equal(t, [][]ID{{0, 1}, {0, 2}, {1, 2}}, minimumCovers(in))
	assert.Nil(t, minimumCovers(instance(2, []uint{0})))
}
