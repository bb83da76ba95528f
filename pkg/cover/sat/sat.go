// Package sat finds minimum set covers with a SAT solver. It is
// independent of the branch-and-bound search in package cover and is
// used to cross-check its answers.
package sat

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/setcover/pkg/cover"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// model holds the SAT encoding of an Instance: one input literal per
// Set and one disjunction per element over the Sets containing it.
type model struct {
	sets  []cover.Set
	c     *logic.C
	lits  []z.Lit
	roots []z.Lit
}

// compile encodes in. It returns false if some element belongs to no
// Set, in which case no formula is needed to prove infeasibility.
func compile(in *cover.Instance) (*model, bool) {
	m := model{
		sets:  in.Sets(),
		c:     logic.NewCCap(in.Len() + int(in.Universe())),
		roots: make([]z.Lit, 0, in.Universe()),
	}
	m.lits = make([]z.Lit, len(m.sets))
	for i := range m.sets {
		m.lits[i] = m.c.Lit()
	}

	var ms []z.Lit
	for e := uint(0); e < in.Universe(); e++ {
		ms = ms[:0]
		for i, set := range m.sets {
			if set.Elements.Test(e) {
				ms = append(ms, m.lits[i])
			}
		}
		if len(ms) == 0 {
			return nil, false
		}
		m.roots = append(m.roots, m.c.Ors(ms...))
	}
	return &m, true
}

// Solve returns the IDs of a minimum cover of in in ascending order,
// or false if no cover exists. It returns cover.Incomplete if ctx is
// done before a minimum has been proven.
//
// Cover size is minimised by assuming increasingly permissive
// cardinality bounds from a sorting network over the Set literals, so
// the first satisfiable bound is the optimum.
func Solve(ctx context.Context, in *cover.Instance) ([]cover.ID, bool, error) {
	if in.Len() == 0 {
		if in.Universe() == 0 {
			return []cover.ID{}, true, nil
		}
		return nil, false, nil
	}

	m, ok := compile(in)
	if !ok {
		return nil, false, nil
	}

	cs := m.c.CardSort(m.lits)
	g := gini.NewV(m.c.Len())
	m.c.ToCnf(g)
	for _, root := range m.roots {
		g.Add(root)
		g.Add(z.LitNull)
	}

	for w := 0; w <= cs.N(); w++ {
		if ctx.Err() != nil {
			return nil, false, cover.Incomplete
		}
		g.Assume(cs.Leq(w))
		switch g.Solve() {
		case satisfiable:
			return m.chosen(g), true, nil
		case unsatisfiable:
			continue
		default:
			return nil, false, fmt.Errorf("solver returned unknown outcome at bound %d", w)
		}
	}
	// Every element is contained in some Set, so choosing all of them
	// always satisfies the formula.
	return nil, false, fmt.Errorf("unexpected internal error: no cover within %d sets", cs.N())
}

func (m *model) chosen(g *gini.Gini) []cover.ID {
	ids := []cover.ID{}
	for i, lit := range m.lits {
		if g.Value(lit) {
			ids = append(ids, m.sets[i].ID)
		}
	}
	slices.Sort(ids)
	return ids
}
