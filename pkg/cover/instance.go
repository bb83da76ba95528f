package cover

import (
	"fmt"
	"strconv"

	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// ID values uniquely identify a Set within the Instance it belongs
// to. They are assigned when an Instance is loaded and are never
// renumbered.
type ID int

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Set is a candidate subset of the universe.
type Set struct {
	ID       ID
	Elements *bitset.BitSet
}

func (s Set) clone() Set {
	return Set{ID: s.ID, Elements: s.Elements.Clone()}
}

// Instance is an immutable minimum set cover problem: a universe
// [0, Universe()) and an ordered family of candidate Sets.
type Instance struct {
	universe uint
	sets     []Set
	byID     map[ID]int
}

// NewInstance returns an Instance over a universe of the given size.
// The provided Sets are copied. NewInstance panics if two Sets share
// an ID or if a Set's width differs from the universe size; loaders
// are expected to have rejected such input already.
func NewInstance(universe uint, sets []Set) *Instance {
	in := Instance{
		universe: universe,
		sets:     make([]Set, len(sets)),
		byID:     make(map[ID]int, len(sets)),
	}
	for i, s := range sets {
		if s.Elements == nil || s.Elements.Len() != universe {
			panic(fmt.Sprintf("set %s does not have width %d", s.ID, universe))
		}
		if _, ok := in.byID[s.ID]; ok {
			panic(fmt.Sprintf("duplicate set id %s", s.ID))
		}
		in.byID[s.ID] = i
		in.sets[i] = s.clone()
	}
	return &in
}

// Universe returns the number of elements that must be covered.
func (in *Instance) Universe() uint {
	return in.universe
}

// Len returns the number of candidate Sets.
func (in *Instance) Len() int {
	return len(in.sets)
}

// Sets returns the candidate Sets in input order. The returned
// bitsets are shared with the Instance and must not be modified.
func (in *Instance) Sets() []Set {
	result := make([]Set, len(in.sets))
	copy(result, in.sets)
	return result
}

// Lookup returns the Set with the given ID.
func (in *Instance) Lookup(id ID) (Set, bool) {
	i, ok := in.byID[id]
	if !ok {
		return Set{}, false
	}
	return in.sets[i], true
}
