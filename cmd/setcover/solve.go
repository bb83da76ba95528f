package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/operator-framework/setcover/pkg/cover"
	"github.com/operator-framework/setcover/pkg/instance"
	"github.com/operator-framework/setcover/pkg/lib/signals"
	"github.com/operator-framework/setcover/pkg/metrics"
	"github.com/operator-framework/setcover/pkg/report"
	"github.com/operator-framework/setcover/pkg/version"
)

const (
	outputText     = "text"
	outputJSON     = "json"
	outputYAML     = "yaml"
	outputMarkdown = "markdown"
)

type solveOptions struct {
	timeout     time.Duration
	bound       string
	trace       bool
	verify      bool
	output      string
	base        int
	metricsFile string
}

func newSolveCmd(logger *logrus.Logger) *cobra.Command {
	o := solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve FILE...",
		Short: "Finds a minimum cover for each instance file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(signals.Context())
			defer cancel()

			return o.run(ctx, logger, cmd.OutOrStdout(), cmd.ErrOrStderr(), args)
		},
	}

	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "time limit per instance, after which the best cover found so far is reported. 0 is considered as having no timeout.")
	cmd.Flags().StringVar(&o.bound, "bound", "trivial", "lower bound used to prune the search: trivial or coverage")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "write every improvement and dead end of the search to stderr")
	cmd.Flags().BoolVar(&o.verify, "verify", false, "cross-check every cover size with the SAT solver")
	cmd.Flags().StringVarP(&o.output, "output", "o", outputText, "output format: text, json, yaml or markdown")
	cmd.Flags().IntVar(&o.base, "base", 1, "number of the first element in instance files, 0 or 1")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")

	return cmd
}

func (o *solveOptions) run(ctx context.Context, logger *logrus.Logger, out, traceOut io.Writer, paths []string) error {
	if err := validOutput(o.output); err != nil {
		return err
	}
	bound, err := parseBound(o.bound)
	if err != nil {
		return err
	}
	if o.metricsFile != "" {
		metrics.Register()
	}

	cfg := solveConfig{timeout: o.timeout, bound: bound, tracer: metrics.Tracer{}}
	if o.trace {
		cfg.tracer = cover.LoggingTracer{Writer: traceOut}
	}

	rep := report.New(reportVersion(logger))
	for _, path := range paths {
		in, err := instance.Load(path, instance.WithBase(o.base))
		if err != nil {
			return err
		}
		c, err := solveOne(ctx, logger, caseName(path), in, cfg)
		if err != nil {
			return err
		}
		if o.verify {
			if err := crossCheck(ctx, logger, in, c); err != nil {
				return err
			}
		}
		rep.Add(c)
	}

	if err := writeReport(out, rep, o.output); err != nil {
		return err
	}
	if o.metricsFile != "" {
		return metrics.WriteTextfile(o.metricsFile)
	}
	return nil
}

type solveConfig struct {
	timeout time.Duration
	bound   cover.Bound
	tracer  cover.Tracer
}

// solveOne searches for a minimum cover of in and summarises the
// outcome. Running out of time is not an error: the Case is marked as
// not optimal instead.
func solveOne(ctx context.Context, logger logrus.FieldLogger, name string, in *cover.Instance, cfg solveConfig) (report.Case, error) {
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	log := logger.WithField("case", name)

	s, err := cover.New(
		cover.WithInstance(in),
		cover.WithBound(cfg.bound),
		cover.WithTracer(cfg.tracer),
		cover.WithLogger(log),
		cover.WithObserver(metrics.Observer{}),
	)
	if err != nil {
		return report.Case{}, err
	}
	solver := cover.NewInstrumentedSolver(s, metrics.EmitSolveSuccess, metrics.EmitSolveFailure)

	start := time.Now()
	r, err := solver.Solve(ctx)
	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, cover.Incomplete) {
		return report.Case{}, errors.Wrapf(err, "solving %s", name)
	}
	if err != nil {
		log.WithField("best", len(r.Cover)).Warn("search did not finish, reporting the best cover found")
	}

	log.WithFields(logrus.Fields{
		"sets":     len(r.Cover),
		"feasible": r.Feasible,
		"runtime":  elapsed,
	}).Info("solved")
	return report.NewCase(name, in, r, elapsed)
}

func parseBound(name string) (cover.Bound, error) {
	switch name {
	case "trivial":
		return cover.TrivialBound, nil
	case "coverage":
		return cover.CoverageBound, nil
	}
	return nil, fmt.Errorf("unknown bound %q, expected trivial or coverage", name)
}

func validOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML, outputMarkdown:
		return nil
	}
	return fmt.Errorf("unknown output format %q, expected text, json, yaml or markdown", format)
}

func writeReport(w io.Writer, rep *report.Report, format string) error {
	switch format {
	case outputJSON:
		return rep.WriteJSON(w)
	case outputYAML:
		return rep.WriteYAML(w)
	case outputMarkdown:
		return rep.WriteMarkdown(w)
	}
	for _, c := range rep.Cases {
		if err := writeText(w, c); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, c report.Case) error {
	runtime := report.FormatRuntime(c.Runtime)
	var err error
	switch {
	case c.Feasible && c.Optimal:
		_, err = fmt.Fprintf(w, "%s: found minimum set cover containing %d sets in %s\nincluded sets: %v\n", c.Name, c.SetCount, runtime, c.SetIndices)
	case c.Feasible:
		_, err = fmt.Fprintf(w, "%s: did not finish in %s, best cover contains %d sets\nincluded sets: %v\n", c.Name, runtime, c.SetCount, c.SetIndices)
	case c.Optimal:
		_, err = fmt.Fprintf(w, "%s: no set cover exists (%s)\n", c.Name, runtime)
	default:
		_, err = fmt.Fprintf(w, "%s: did not finish in %s, no cover found\n", c.Name, runtime)
	}
	return errors.Wrap(err, "writing result")
}

// caseName strips the directory and extension from an instance path.
func caseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func reportVersion(logger logrus.FieldLogger) string {
	v, err := version.Semver()
	if err != nil {
		logger.WithError(err).Warn("reporting unparsable version")
		return version.SetcoverVersion
	}
	return v.String()
}
