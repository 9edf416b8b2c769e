package database

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdownSignal derives a context from parent that is canceled on
// SIGTERM or SIGINT. onSignal, when non-nil, runs before cancellation.
// The returned stop function releases the signal registration.
func WithShutdownSignal(parent context.Context, onSignal func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		select {
		case sig := <-sigChan:
			if onSignal != nil {
				onSignal(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(sigChan)
		cancel()
	}
	return ctx, stop
}
