package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/operator-framework/setcover/pkg/instance"
	"github.com/operator-framework/setcover/pkg/lib/profile"
	"github.com/operator-framework/setcover/pkg/lib/server"
	"github.com/operator-framework/setcover/pkg/lib/signals"
	"github.com/operator-framework/setcover/pkg/metrics"
	"github.com/operator-framework/setcover/pkg/report"
)

// manifest lists the instances of a benchmark run. Relative paths are
// resolved against the directory holding the manifest.
type manifest struct {
	Cases []struct {
		Name string `yaml:"name"`
		Path string `yaml:"path"`
	} `yaml:"cases"`
	// Timeout is a time.ParseDuration string applied to every case.
	Timeout string `yaml:"timeout"`
	Bound   string `yaml:"bound"`
}

func loadManifest(path string) (*manifest, time.Duration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading manifest %s", path)
	}
	var m manifest
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return nil, 0, errors.Wrapf(err, "parsing manifest %s", path)
	}
	if len(m.Cases) == 0 {
		return nil, 0, fmt.Errorf("manifest %s lists no cases", path)
	}

	var timeout time.Duration
	if m.Timeout != "" {
		if timeout, err = time.ParseDuration(m.Timeout); err != nil {
			return nil, 0, errors.Wrapf(err, "parsing manifest %s", path)
		}
	}
	if m.Bound == "" {
		m.Bound = "trivial"
	}

	dir := filepath.Dir(path)
	for i, c := range m.Cases {
		if c.Path == "" {
			return nil, 0, fmt.Errorf("manifest %s: case %d has no path", path, i)
		}
		if !filepath.IsAbs(c.Path) {
			m.Cases[i].Path = filepath.Join(dir, c.Path)
		}
		if c.Name == "" {
			m.Cases[i].Name = caseName(c.Path)
		}
	}
	return &m, timeout, nil
}

type benchOptions struct {
	manifest    string
	output      string
	out         string
	metricsFile string
	listen      string

	// blockingProfiles serves the pprof handlers that hold the request
	// open while they sample.
	blockingProfiles bool
}

func newBenchCmd(logger *logrus.Logger) *cobra.Command {
	o := benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Solves every instance listed in a manifest and reports the runtimes",
		Long: `Solves every instance listed in a manifest, one after the other, and writes a report.

The manifest is YAML:

  cases:
  - name: s-c-100-150
    path: testcases/s-c-100-150.txt
  timeout: 5m
  bound: coverage`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(signals.Context())
			defer cancel()

			return o.run(ctx, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&o.manifest, "manifest", "", "path to the benchmark manifest")
	cmd.Flags().StringVarP(&o.output, "output", "o", outputMarkdown, "output format: text, json, yaml or markdown")
	cmd.Flags().StringVar(&o.out, "out", "", "write the report to this file instead of stdout")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")
	cmd.Flags().StringVar(&o.listen, "listen", "", "serve /metrics, /healthz and /debug/pprof on this address while the benchmark runs")
	cmd.Flags().BoolVar(&o.blockingProfiles, "blocking-profiles", true, "with --listen, also serve /debug/pprof/profile and /debug/pprof/trace")
	if err := cmd.MarkFlagRequired("manifest"); err != nil {
		logger.Fatalf("Failed to mark `manifest` flag for `bench` subcommand as required")
	}

	return cmd
}

func (o *benchOptions) run(ctx context.Context, logger *logrus.Logger, out io.Writer) error {
	if err := validOutput(o.output); err != nil {
		return err
	}
	m, timeout, err := loadManifest(o.manifest)
	if err != nil {
		return err
	}
	bound, err := parseBound(m.Bound)
	if err != nil {
		return err
	}
	if o.metricsFile != "" || o.listen != "" {
		metrics.Register()
	}
	if o.listen != "" {
		serve, err := server.GetListenAndServeFunc(
			server.WithAddress(o.listen),
			server.WithLogger(logger),
			server.WithProfileOptions(
				profile.WithCPUProfile(o.blockingProfiles),
				profile.WithTrace(o.blockingProfiles),
			),
		)
		if err != nil {
			return errors.Wrapf(err, "invalid listen address %q", o.listen)
		}
		serveCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		defer func() {
			stop()
			<-done
		}()
		go func() {
			defer close(done)
			if err := serve(serveCtx); err != nil {
				logger.WithError(err).Error("metrics server failed")
			}
		}()
	}

	rep := report.New(reportVersion(logger))
	cfg := solveConfig{timeout: timeout, bound: bound, tracer: metrics.Tracer{}}
	for _, c := range m.Cases {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "benchmark interrupted")
		}
		in, err := instance.Load(c.Path)
		if err != nil {
			return err
		}
		result, err := solveOne(ctx, logger, c.Name, in, cfg)
		if err != nil {
			return err
		}
		rep.Add(result)
	}
	logger.WithFields(logrus.Fields{
		"cases":   len(rep.Cases),
		"runtime": report.FormatRuntime(rep.TotalRuntime),
		"run":     rep.RunID,
	}).Info("benchmark finished")

	if o.out != "" {
		if err := writeReportFile(o.out, rep, o.output); err != nil {
			return err
		}
	} else if err := writeReport(out, rep, o.output); err != nil {
		return err
	}
	if o.metricsFile != "" {
		return metrics.WriteTextfile(o.metricsFile)
	}
	return nil
}

func writeReportFile(path string, rep *report.Report, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := writeReport(f, rep, format); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
