// Package generate builds random set cover instances for benchmarking.
package generate

import (
	"fmt"
	"math/rand"

	"github.com/operator-framework/setcover/pkg/cover"
	"github.com/operator-framework/setcover/pkg/lib/bitset"
)

// DefaultSetSize is the number of elements sampled into each random
// set when Config.SetSize is zero.
const DefaultSetSize = 10

type Config struct {
	// Elements is the size of the universe.
	Elements int
	// Sets is the total number of sets in the instance.
	Sets int
	// SetSize is the number of distinct elements sampled into each
	// random set. It is capped at Elements.
	SetSize int
	// Padded instances end with one singleton set per element, so
	// they are always feasible regardless of the random sets.
	Padded bool
	Seed   int64
}

func (c Config) setSize() int {
	size := c.SetSize
	if size == 0 {
		size = DefaultSetSize
	}
	return min(size, c.Elements)
}

func (c Config) validate() error {
	switch {
	case c.Elements < 0:
		return fmt.Errorf("element count must not be negative, got %d", c.Elements)
	case c.Sets < 0:
		return fmt.Errorf("set count must not be negative, got %d", c.Sets)
	case c.SetSize < 0:
		return fmt.Errorf("set size must not be negative, got %d", c.SetSize)
	case c.Padded && c.Sets < c.Elements:
		return fmt.Errorf("padded instances need at least as many sets as elements, got %d sets for %d elements", c.Sets, c.Elements)
	case !c.Padded && c.Sets == 0 && c.Elements > 0:
		return fmt.Errorf("cannot cover %d elements with no sets", c.Elements)
	}
	return nil
}

// Name returns the conventional test case name for c, for example
// "s-c-padded-100-150".
func Name(c Config) string {
	padded := ""
	if c.Padded {
		padded = "-padded"
	}
	return fmt.Sprintf("s-c%s-%d-%d", padded, c.Elements, c.Sets)
}

// Generate returns a random feasible instance described by c. The
// same Config always produces the same instance.
func Generate(c Config) (*cover.Instance, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	g := generator{
		rnd:      rand.New(rand.NewSource(c.Seed)),
		universe: uint(c.Elements),
		size:     c.setSize(),
		perm:     make([]uint, c.Elements),
		sets:     make([]cover.Set, 0, c.Sets),
	}
	for i := range g.perm {
		g.perm[i] = uint(i)
	}

	if c.Padded {
		for i := 0; i < c.Sets-c.Elements; i++ {
			g.add(g.sample())
		}
		for e := uint(0); e < g.universe; e++ {
			g.add(bitset.Of(g.universe, e))
		}
		return cover.NewInstance(g.universe, g.sets), nil
	}

	covered := bitset.New(g.universe)
	for i := 0; i < c.Sets; i++ {
		s := g.sample()
		covered.InPlaceUnion(s)
		g.add(s)
	}
	// Every element left out by sampling joins a random set.
	for e := uint(0); e < g.universe; e++ {
		if !covered.Test(e) {
			g.sets[g.rnd.Intn(len(g.sets))].Elements.SetTo(e, true)
		}
	}
	return cover.NewInstance(g.universe, g.sets), nil
}

type generator struct {
	rnd      *rand.Rand
	universe uint
	size     int
	perm     []uint
	sets     []cover.Set
}

func (g *generator) add(elements *bitset.BitSet) {
	g.sets = append(g.sets, cover.Set{ID: cover.ID(len(g.sets)), Elements: elements})
}

// sample draws size distinct elements with a partial Fisher-Yates
// shuffle of perm.
func (g *generator) sample() *bitset.BitSet {
	s := bitset.New(g.universe)
	n := len(g.perm)
	for i := 0; i < g.size; i++ {
		j := i + g.rnd.Intn(n-i)
		g.perm[i], g.perm[j] = g.perm[j], g.perm[i]
		s.SetTo(g.perm[i], true)
	}
	return s
}
