package cover

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Stats counts what a single search did.
type Stats struct {
	// Nodes is the number of states popped from the search stack.
	Nodes int `json:"nodes" yaml:"nodes"`
	// Pruned is the number of states discarded by the bound checks.
	Pruned int `json:"pruned" yaml:"pruned"`
	// Infeasible is the number of states found to have no cover.
	Infeasible int `json:"infeasible" yaml:"infeasible"`
	// Dominated is the number of Sets removed by domination.
	Dominated int `json:"dominated" yaml:"dominated"`
	// Forced is the number of Sets committed by forced-set propagation.
	Forced int `json:"forced" yaml:"forced"`
	// Branches is the number of include/exclude splits.
	Branches int `json:"branches" yaml:"branches"`
	// Incumbents is the number of times the incumbent improved.
	Incumbents int `json:"incumbents" yaml:"incumbents"`
	// MaxDepth is the largest size the search stack reached.
	MaxDepth int `json:"maxDepth" yaml:"maxDepth"`
}

type search struct {
	bound    Bound
	tracer   Tracer
	log      logrus.FieldLogger
	capacity int

	stack []*state
	best  incumbent
	buf   *scratch
	stats Stats
}

func newSearch(capacity int, bound Bound, tracer Tracer, log logrus.FieldLogger) *search {
	return &search{
		bound:    bound,
		tracer:   tracer,
		log:      log,
		capacity: capacity,
		stack:    make([]*state, 0, capacity+1),
		buf:      newScratch(capacity),
	}
}

func (h *search) push(s *state) {
	h.stack = append(h.stack, s)
	h.stats.MaxDepth = max(h.stats.MaxDepth, len(h.stack))
}

func (h *search) pop() *state {
	s := h.stack[len(h.stack)-1]
	h.stack[len(h.stack)-1] = nil
	h.stack = h.stack[:len(h.stack)-1]
	return s
}

func (h *search) trace(event Event, s *state) {
	h.tracer.Trace(position{event: event, state: s, depth: len(h.stack)})
}

// Do runs branch-and-bound from root until the stack is exhausted or
// ctx is done. It returns Incomplete in the latter case; whatever
// incumbent was found so far is kept.
func (h *search) Do(ctx context.Context, root *state) error {
	h.push(root)
	for len(h.stack) > 0 {
		if ctx.Err() != nil {
			return Incomplete
		}
		h.step(h.pop())
	}
	return nil
}

func (h *search) step(s *state) {
	h.stats.Nodes++
	s.check()

	if !s.uncovered.Any() {
		h.record(s)
		return
	}
	if !h.best.improves(len(s.chosen) + h.bound(s.remaining, s.uncovered)) {
		h.stats.Pruned++
		return
	}

	h.stats.Dominated += s.eliminateDominated(h.buf)
	forced, ok := s.propagateForced(h.buf)
	if !ok {
		h.stats.Infeasible++
		h.trace(Infeasible, s)
		return
	}
	h.stats.Forced += forced
	if forced > 0 && !h.best.improves(len(s.chosen)) {
		h.stats.Pruned++
		return
	}

	if !s.uncovered.Any() {
		h.record(s)
		return
	}
	if len(s.remaining) == 0 {
		h.stats.Infeasible++
		h.trace(Infeasible, s)
		return
	}

	h.stats.Branches++
	i := s.widest()
	exclude := s.clone(h.capacity)
	exclude.take(i)
	s.commit(s.take(i))
	h.push(exclude)
	h.push(s)
}

func (h *search) record(s *state) {
	if !h.best.offer(s.chosen) {
		return
	}
	h.stats.Incumbents++
	h.log.WithFields(logrus.Fields{
		"size":  h.best.size(),
		"nodes": h.stats.Nodes,
	}).Debug("found smaller cover")
	h.trace(Improved, s)
}
