package cover

import (
	"context"
	"time"
)

type InstrumentedSolver struct {
	solver                Solver
	successMetricsEmitter func(time.Duration)
	failureMetricsEmitter func(time.Duration)
}

var _ Solver = &InstrumentedSolver{}

func NewInstrumentedSolver(solver Solver, successMetricsEmitter, failureMetricsEmitter func(time.Duration)) *InstrumentedSolver {
	return &InstrumentedSolver{
		solver:                solver,
		successMetricsEmitter: successMetricsEmitter,
		failureMetricsEmitter: failureMetricsEmitter,
	}
}

// Solve delegates to the wrapped Solver and reports how long it took.
// An infeasible Result counts as a success; only errors, such as
// Incomplete, count as failures.
func (is *InstrumentedSolver) Solve(ctx context.Context) (*Result, error) {
	start := time.Now()
	result, err := is.solver.Solve(ctx)
	if err != nil {
		is.failureMetricsEmitter(time.Since(start))
	} else {
		is.successMetricsEmitter(time.Since(start))
	}
	return result, err
}
