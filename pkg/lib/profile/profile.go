package profile

import (
	"net/http"
	"net/http/pprof"
)

type profileConfig struct {
	pprof   bool
	cmdline bool
	profile bool
	symbol  bool
	trace   bool
}

// Option applies a configuration option to the given config.
type Option func(p *profileConfig)

// WithCPUProfile toggles the /debug/pprof/profile handler, which
// blocks for the requested sampling period.
func WithCPUProfile(enabled bool) Option {
	return func(p *profileConfig) {
		p.profile = enabled
	}
}

// WithTrace toggles the /debug/pprof/trace handler.
func WithTrace(enabled bool) Option {
	return func(p *profileConfig) {
		p.trace = enabled
	}
}

func (p *profileConfig) apply(options []Option) {
	for _, o := range options {
		o(p)
	}
}

func defaultProfileConfig() *profileConfig {
	// Everything is served unless an option turns it off.
	return &profileConfig{
		pprof:   true,
		cmdline: true,
		profile: true,
		symbol:  true,
		trace:   true,
	}
}

// RegisterHandlers registers profile Handlers with the given ServeMux.
//
// The Handlers registered are determined by the given options.
// If no options are given, all available handlers are registered by default.
func RegisterHandlers(mux *http.ServeMux, options ...Option) {
	config := defaultProfileConfig()
	config.apply(options)

	if config.pprof {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
	}
	if config.cmdline {
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	}
	if config.profile {
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	}
	if config.symbol {
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	}
	if config.trace {
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
}
