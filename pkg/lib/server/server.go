// Package server exposes health, metrics and profiling endpoints while
// long benchmark runs are in progress.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/operator-framework/setcover/pkg/lib/profile"
)

const shutdownTimeout = 5 * time.Second

// Option applies a configuration option to the given config.
type Option func(s *serverConfig)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(sc *serverConfig) {
		sc.logger = logger
	}
}

func WithAddress(address string) Option {
	return func(sc *serverConfig) {
		sc.address = address
	}
}

// WithProfiling toggles the /debug/pprof endpoints.
func WithProfiling(enabled bool) Option {
	return func(sc *serverConfig) {
		sc.profiling = enabled
	}
}

// WithProfileOptions selects which /debug/pprof endpoints are served
// when profiling is enabled.
func WithProfileOptions(options ...profile.Option) Option {
	return func(sc *serverConfig) {
		sc.profileOptions = append(sc.profileOptions, options...)
	}
}

type serverConfig struct {
	logger         logrus.FieldLogger
	address        string
	profiling      bool
	profileOptions []profile.Option
}

func (sc *serverConfig) apply(options []Option) {
	for _, o := range options {
		o(sc)
	}
}

func defaultServerConfig() serverConfig {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return serverConfig{
		logger:    logger,
		address:   ":8080",
		profiling: true,
	}
}

// Handler returns the mux served by GetListenAndServeFunc.
func Handler(options ...Option) http.Handler {
	sc := defaultServerConfig()
	sc.apply(options)
	return sc.handler()
}

func (sc serverConfig) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())
	if sc.profiling {
		profile.RegisterHandlers(mux, sc.profileOptions...)
	}
	return mux
}

// GetListenAndServeFunc returns a function that serves until its
// Context is done and then shuts the server down.
func GetListenAndServeFunc(options ...Option) (func(context.Context) error, error) {
	sc := defaultServerConfig()
	sc.apply(options)
	if _, _, err := net.SplitHostPort(sc.address); err != nil {
		return nil, err
	}

	s := http.Server{
		Handler:           sc.handler(),
		Addr:              sc.address,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return func(ctx context.Context) error {
		l, err := net.Listen("tcp", s.Addr)
		if err != nil {
			return err
		}
		sc.logger.WithField("address", l.Addr().String()).Info("serving metrics")

		errs := make(chan error, 1)
		go func() {
			errs <- s.Serve(l)
		}()

		select {
		case err := <-errs:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, nil
}
