// Package signal provides signal handling for graceful shutdown of the llm-planner CLI.
//
// SetupSignalHandler registers handlers for SIGINT and SIGTERM. An interrupt
// cancels the run context, which stops in-flight LLM requests, planner
// processes and tree-of-thought searches.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SetupSignalHandler registers SIGINT and SIGTERM handlers.
// When a signal is received, it calls onInterrupt (if non-nil) with the
// signal, then cancels the context.
//
// The listening goroutine exits on the first signal, when ctx is done, or
// when the returned stop function is called. stop also unregisters the
// handlers and is safe to call more than once.
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	stop := signal.SetupSignalHandler(ctx, cancel, func(sig os.Signal) {
//	    logging.Warn("received " + sig.String())
//	})
//	defer stop()
func SetupSignalHandler(ctx context.Context, cancel context.CancelFunc, onInterrupt func(os.Signal)) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
		})
	}
}
