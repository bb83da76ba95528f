package cover

import (
	"math/bits"
	"math/rand"

	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// set builds a Set of the given width for tests.
func set(id ID, width uint, elements ...uint) Set {
	return Set{ID: id, Elements: bitset.Of(width, elements...)}
}

// instance builds an Instance whose Sets have consecutive IDs
// starting at zero.
func instance(universe uint, elements ...[]uint) *Instance {
	sets := make([]Set, len(elements))
	for i, es := range elements {
		sets[i] = set(ID(i), universe, es...)
	}
	return NewInstance(universe, sets)
}

// randomInstance returns an Instance in which each element belongs to
// each Set with probability p.
func randomInstance(rnd *rand.Rand, universe uint, sets int, p float64) *Instance {
	elements := make([][]uint, sets)
	for i := range elements {
		for e := uint(0); e < universe; e++ {
			if rnd.Float64() < p {
				elements[i] = append(elements[i], e)
			}
		}
	}
	return instance(universe, elements...)
}

// bruteForce returns the size of a minimum cover of in by trying every
// combination of Sets, or -1 if none exists. It is only suitable for
// instances with a handful of Sets.
func bruteForce(in *Instance) int {
	best := -1
	n := in.Len()
	for mask := uint64(0); mask < 1<<n; mask++ {
		size := bits.OnesCount64(mask)
		if best >= 0 && size >= best {
			continue
		}
		covered := bitset.New(in.Universe())
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				covered.InPlaceUnion(in.sets[i].Elements)
			}
		}
		if covered.Count() == in.Universe() {
			best = size
		}
	}
	return best
}

// minimumCovers returns every cover of in of minimum size, each as
// the IDs of its Sets in input order. It returns nil if in has no
// cover.
func minimumCovers(in *Instance) [][]ID {
	size := bruteForce(in)
	if size < 0 {
		return nil
	}
	var result [][]ID
	n := in.Len()
	for mask := uint64(0); mask < 1<<n; mask++ {
		if bits.OnesCount64(mask) != size {
			continue
		}
		covered := bitset.New(in.Universe())
		var chosen []ID
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				covered.InPlaceUnion(in.sets[i].Elements)
				chosen = append(chosen, in.sets[i].ID)
			}
		}
		if covered.Count() == in.Universe() {
			result = append(result, chosen)
		}
	}
	return result
}

// recordingTracer keeps every traced position.
type recordingTracer struct {
	events []Event
	chosen [][]ID
	depths []int
}

func (t *recordingTracer) Trace(p SearchPosition) {
	t.events = append(t.events, p.Event())
	t.chosen = append(t.chosen, p.Chosen())
	t.depths = append(t.depths, p.Depth())
}

func (t *recordingTracer) improvements() [][]ID {
	var result [][]ID
	for i, e := range t.events {
		if e == Improved {
			result = append(result, t.chosen[i])
		}
	}
	return result
}
