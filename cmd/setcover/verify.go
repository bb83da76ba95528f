package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/setcover/pkg/cover"
	"github.com/operator-framework/setcover/pkg/cover/sat"
	"github.com/operator-framework/setcover/pkg/instance"
	"github.com/operator-framework/setcover/pkg/lib/signals"
	"github.com/operator-framework/setcover/pkg/report"
)

type verifyOptions struct {
	timeout time.Duration
	bound   string
	base    int
}

func newVerifyCmd(logger *logrus.Logger) *cobra.Command {
	o := verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Solves an instance with both the search and the SAT solver and compares the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(signals.Context())
			defer cancel()

			return o.run(ctx, logger, cmd.OutOrStdout(), args[0])
		},
	}

	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "time limit for the search. 0 is considered as having no timeout.")
	cmd.Flags().StringVar(&o.bound, "bound", "trivial", "lower bound used to prune the search: trivial or coverage")
	cmd.Flags().IntVar(&o.base, "base", 1, "number of the first element in the instance file, 0 or 1")

	return cmd
}

func (o *verifyOptions) run(ctx context.Context, logger *logrus.Logger, out io.Writer, path string) error {
	bound, err := parseBound(o.bound)
	if err != nil {
		return err
	}
	in, err := instance.Load(path, instance.WithBase(o.base))
	if err != nil {
		return err
	}

	c, err := solveOne(ctx, logger, caseName(path), in, solveConfig{timeout: o.timeout, bound: bound})
	if err != nil {
		return err
	}
	if !c.Optimal {
		return fmt.Errorf("%s: search did not finish, nothing to compare", c.Name)
	}
	if err := crossCheck(ctx, logger, in, c); err != nil {
		return err
	}

	if !c.Feasible {
		_, err = fmt.Fprintf(out, "%s: both solvers agree that no cover exists\n", c.Name)
		return err
	}
	_, err = fmt.Fprintf(out, "%s: both solvers found a minimum cover of %d sets\n", c.Name, c.SetCount)
	return err
}

// crossCheck solves in again with the SAT solver and fails if it
// disagrees with c about feasibility or the size of a minimum cover.
// Cases that did not finish are skipped.
func crossCheck(ctx context.Context, logger logrus.FieldLogger, in *cover.Instance, c report.Case) error {
	log := logger.WithField("case", c.Name)
	if !c.Optimal {
		log.Info("skipping cross-check of unfinished search")
		return nil
	}
	if c.Feasible {
		if err := cover.Verify(in, c.SetIndices); err != nil {
			return fmt.Errorf("%s: search returned an invalid cover: %w", c.Name, err)
		}
	}

	ids, ok, err := sat.Solve(ctx, in)
	if err != nil {
		return fmt.Errorf("%s: cross-check failed: %w", c.Name, err)
	}
	switch {
	case ok != c.Feasible:
		return fmt.Errorf("%s: search reports feasible=%t but the SAT solver reports feasible=%t", c.Name, c.Feasible, ok)
	case len(ids) != c.SetCount:
		return fmt.Errorf("%s: search found %d sets but the SAT solver found %d", c.Name, c.SetCount, len(ids))
	}
	log.WithField("sets", len(ids)).Debug("cross-check agrees")
	return nil
}
