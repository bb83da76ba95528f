package cover

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/sirupsen/logrus"
)

// Incomplete is returned by Solve when its Context is done before the
// search space has been exhausted.
var Incomplete = errors.New("cancelled before the search was exhausted")

// Result is the outcome of a Solve call.
type Result struct {
	// Cover holds the IDs of the smallest cover found, in ascending
	// order. It is nil when no cover was found.
	Cover []ID
	// Feasible reports whether a cover was found.
	Feasible bool
	// Optimal reports whether the search ran to completion. When it
	// is true, Cover is a minimum cover, or, if Feasible is false,
	// no cover exists.
	Optimal bool
	Stats   Stats
}

// Observer is notified of every Result produced by a Solver,
// including partial Results of cancelled searches.
type Observer interface {
	Observe(r *Result)
}

type Solver interface {
	Solve(context.Context) (*Result, error)
}

type solver struct {
	instance *Instance
	bound    Bound
	tracer   Tracer
	log      logrus.FieldLogger
	observer Observer
}

// Solve searches for a minimum cover of the configured Instance. A
// Result is always returned. If ctx is done before the search is
// exhausted, the error is Incomplete and the Result carries the best
// cover found up to that point with Optimal set to false.
func (s *solver) Solve(ctx context.Context) (*Result, error) {
	in := s.instance
	log := s.log.WithFields(logrus.Fields{
		"universe": in.universe,
		"sets":     len(in.sets),
	})
	log.Debug("starting search")

	h := newSearch(len(in.sets), s.bound, s.tracer, log)
	err := h.Do(ctx, newRootState(in))

	result := Result{
		Feasible: h.best.exists(),
		Optimal:  err == nil,
		Stats:    h.stats,
	}
	if result.Feasible {
		result.Cover = slices.Clone(h.best.ids)
		slices.Sort(result.Cover)
	}

	log.WithFields(logrus.Fields{
		"feasible": result.Feasible,
		"optimal":  result.Optimal,
		"size":     len(result.Cover),
		"nodes":    h.stats.Nodes,
	}).Debug("search finished")
	s.observer.Observe(&result)
	return &result, err
}

func New(options ...Option) (Solver, error) {
	s := solver{}
	for _, option := range append(options, defaults...) {
		if err := option(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

type Option func(s *solver) error

func WithInstance(in *Instance) Option {
	return func(s *solver) error {
		if in == nil {
			return errors.New("instance must not be nil")
		}
		s.instance = in
		return nil
	}
}

func WithTracer(t Tracer) Option {
	return func(s *solver) error {
		s.tracer = t
		return nil
	}
}

// WithLogger sets the logger that receives debug output about the
// progress of the search.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *solver) error {
		s.log = log
		return nil
	}
}

// WithBound selects the lower bound used to prune the search. The
// default is TrivialBound.
func WithBound(b Bound) Option {
	return func(s *solver) error {
		s.bound = b
		return nil
	}
}

func WithObserver(o Observer) Option {
	return func(s *solver) error {
		s.observer = o
		return nil
	}
}

type nopObserver struct{}

func (nopObserver) Observe(*Result) {}

var defaults = []Option{
	func(s *solver) error {
		if s.instance == nil {
			s.instance = NewInstance(0, nil)
		}
		return nil
	},
	func(s *solver) error {
		if s.tracer == nil {
			s.tracer = DefaultTracer{}
		}
		return nil
	},
	func(s *solver) error {
		if s.log == nil {
			l := logrus.New()
			l.SetOutput(io.Discard)
			s.log = l
		}
		return nil
	},
	func(s *solver) error {
		if s.bound == nil {
			s.bound = TrivialBound
		}
		return nil
	},
	func(s *solver) error {
		if s.observer == nil {
			s.observer = nopObserver{}
		}
		return nil
	},
}

// Solve returns the IDs of a minimum cover of in in ascending order,
// or false if the Sets of in cannot cover its universe.
func Solve(in *Instance) ([]ID, bool) {
	s, err := New(WithInstance(in))
	if err != nil {
		panic(err)
	}
	// The search can only be interrupted through its Context.
	r, _ := s.Solve(context.Background())
	return r.Cover, r.Feasible
}
