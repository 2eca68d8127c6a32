package observability

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// CloserFunc releases one resource during shutdown
type CloserFunc func(context.Context) error

type namedCloser struct {
	name  string
	close CloserFunc
}

// ShutdownManager drains the HTTP server and releases registered
// resources when the process receives SIGINT or SIGTERM.
type ShutdownManager struct {
	logger  *Logger
	server  *http.Server
	timeout time.Duration

	mu      sync.Mutex
	closers []namedCloser
}

// NewShutdownManager creates a manager for the given server. A zero
// timeout defaults to 30 seconds.
func NewShutdownManager(logger *Logger, server *http.Server, timeout time.Duration) *ShutdownManager {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &ShutdownManager{logger: logger, server: server, timeout: timeout}
}

// OnShutdown registers a named resource to release after the server
// has drained. Closers run in reverse registration order.
func (sm *ShutdownManager) OnShutdown(name string, fn CloserFunc) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.closers = append(sm.closers, namedCloser{name: name, close: fn})
}

// WaitForShutdown blocks until a termination signal arrives, then runs
// the shutdown sequence under the configured timeout.
func (sm *ShutdownManager) WaitForShutdown() error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	sm.logger.WithField("signal", sig.String()).Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), sm.timeout)
	defer cancel()
	return sm.Shutdown(ctx)
}

// Shutdown drains the HTTP server, then releases resources in reverse
// registration order so dependents close before what they depend on.
// A failing closer does not stop the rest; an expired context does.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	var errs []error
	if sm.server != nil {
		if err := sm.server.Shutdown(ctx); err != nil {
			sm.logger.WithError(err).Error("HTTP server drain failed")
			errs = append(errs, err)
		}
	}

	sm.mu.Lock()
	closers := make([]namedCloser, len(sm.closers))
	copy(closers, sm.closers)
	sm.mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := ctx.Err(); err != nil {
			sm.logger.WithField("closer", c.name).Warn("Shutdown deadline reached, skipping remaining closers")
			errs = append(errs, err)
			break
		}
		if err := c.close(ctx); err != nil {
			sm.logger.WithError(err).WithField("closer", c.name).Error("Closer failed")
			errs = append(errs, err)
			continue
		}
		sm.logger.WithField("closer", c.name).Debug("Closed")
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	sm.logger.Info("Shutdown complete")
	return nil
}
