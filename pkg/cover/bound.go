package cover

import (
	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// Bound returns a lower bound on the number of additional Sets needed
// to cover uncovered using only Sets from remaining. It is only
// consulted when uncovered is non-empty, and must never overestimate
// or the search may discard the optimal cover.
type Bound func(remaining []Set, uncovered *bitset.BitSet) int

// TrivialBound always requires one more Set.
func TrivialBound(_ []Set, _ *bitset.BitSet) int {
	return 1
}

// CoverageBound divides the uncovered element count by the size of the
// largest remaining Set, rounding up. It prunes more than TrivialBound
// on wide instances at the cost of one pass over remaining per node.
func CoverageBound(remaining []Set, uncovered *bitset.BitSet) int {
	var widest uint
	for _, set := range remaining {
		widest = max(widest, set.Elements.Count())
	}
	if widest == 0 {
		// Nothing left to choose from; the reduction step will find
		// the branch infeasible.
		return 1
	}
	n := uncovered.Count()
	return int(max((n+widest-1)/widest, 1))
}
