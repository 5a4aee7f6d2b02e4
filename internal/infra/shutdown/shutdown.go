package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	hooks   []func(context.Context) error
	mu      sync.Mutex
	done    chan struct{}

	// ctx is cancelled when shutdown begins.
	ctx    context.Context
	cancel context.CancelFunc

	triggerOnce sync.Once
	triggered   chan struct{}
	reason      error
}

// NewHandler creates a new shutdown handler.
func NewHandler(timeout time.Duration) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		timeout:   timeout,
		hooks:     make([]func(context.Context) error, 0),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		triggered: make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Context returns a context that is cancelled when shutdown begins.
// Long-running loops should stop on it.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Trigger starts shutdown without a signal. reason is reported by Wait;
// nil means a clean stop. Only the first call has an effect.
func (h *Handler) Trigger(reason error) {
	h.triggerOnce.Do(func() {
		h.reason = reason
		close(h.triggered)
	})
}

// Wait waits for a shutdown signal or Trigger, then executes hooks.
// It returns the trigger reason joined with any hook errors.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return h.wait(sigCh)
}

func (h *Handler) wait(sigCh <-chan os.Signal) error {
	select {
	case <-sigCh:
		h.Trigger(nil)
	case <-h.triggered:
	}
	h.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]func(context.Context) error, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	errs := []error{h.reason}
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done returns a channel that closes when shutdown is complete.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
