package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal derives a context that is canceled on SIGINT or SIGTERM, the
// signals the process receives from a terminal interrupt or an orchestrator
// shutdown. The returned stop function releases the signal registration; a
// second signal after cancellation terminates the process with the default
// behavior, so a hung shutdown can still be interrupted.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
