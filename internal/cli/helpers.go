package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// InterruptError is the cancellation cause of a context stopped by a signal.
type InterruptError struct {
	Signal os.Signal
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("interrupted by %s", e.Signal)
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM, with the
// signal recorded as an *InterruptError cause. Calling the returned func
// releases the signal handler.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			cancel(&InterruptError{Signal: sig})
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// Interrupted returns the signal that stopped ctx, or nil.
func Interrupted(ctx context.Context) os.Signal {
	var ie *InterruptError
	if errors.As(context.Cause(ctx), &ie) {
		return ie.Signal
	}
	return nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
