// Package signals cancels in-flight work when the process is asked to
// stop.
package signals

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

var (
	signalCtx context.Context
	once      sync.Once
)

// Context returns a Context that is cancelled on the first SIGTERM or
// SIGINT. If a second signal is caught, the program is terminated
// with exit code 1.
func Context() context.Context {
	once.Do(func() {
		signalCtx = notify(context.Background(), os.Exit, shutdownSignals...)
	})
	return signalCtx
}

func notify(parent context.Context, exit func(int), sig ...os.Signal) context.Context {
	c := make(chan os.Signal, 2)
	signal.Notify(c, sig...)
	ctx, cancel := context.WithCancel(parent)
	go func() {
		<-c
		cancel()
		<-c
		exit(1) // second signal. Exit directly.
	}()
	return ctx
}
