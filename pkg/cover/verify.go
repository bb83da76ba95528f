package cover

import (
	"fmt"
	"strings"

	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// UnknownID is returned by Verify for an ID that does not belong to
// the Instance.
type UnknownID ID

func (e UnknownID) Error() string {
	return fmt.Sprintf("set %s is not part of the instance", ID(e))
}

// DuplicateID is returned by Verify when a cover lists a Set twice.
type DuplicateID ID

func (e DuplicateID) Error() string {
	return fmt.Sprintf("set %s appears more than once in the cover", ID(e))
}

// UncoveredError lists the elements of the universe that a cover
// fails to cover.
type UncoveredError []uint

func (e UncoveredError) Error() string {
	const msg = "cover is incomplete"
	s := make([]string, 0, min(len(e), 10))
	for i, elem := range e {
		if i == 10 {
			s = append(s, fmt.Sprintf("and %d more", len(e)-i))
			break
		}
		s = append(s, fmt.Sprintf("%d", elem))
	}
	return fmt.Sprintf("%s: elements %s not covered", msg, strings.Join(s, ", "))
}

// Verify checks that ids name distinct Sets of in whose union is the
// whole universe.
func Verify(in *Instance, ids []ID) error {
	covered := bitset.New(in.universe)
	seen := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		set, ok := in.Lookup(id)
		if !ok {
			return UnknownID(id)
		}
		if _, ok := seen[id]; ok {
			return DuplicateID(id)
		}
		seen[id] = struct{}{}
		covered.InPlaceUnion(set.Elements)
	}
	if covered.Count() == in.universe {
		return nil
	}
	var missing UncoveredError
	for e := uint(0); e < in.universe; e++ {
		if !covered.Test(e) {
			missing = append(missing, e)
		}
	}
	return missing
}
