// Package effects runs best-effort side effects of a primary operation. A
// failing effect is logged and never reported to the caller.
package effects

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Effect is a unit of non-fatal work.
type Effect func(ctx context.Context) error

// Config holds settings for the dispatcher.
type Config struct {
	// Async runs effects on background goroutines. When false, Dispatch
	// blocks until the effect finishes.
	Async       bool
	Concurrency int
	Timeout     time.Duration
}

// Dispatcher executes effects detached from the request context.
type Dispatcher struct {
	cfg Config
	log *zap.Logger
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A Concurrency below one forces inline mode.
func NewDispatcher(cfg Config, log *zap.Logger) *Dispatcher {
	if cfg.Concurrency < 1 {
		cfg.Async = false
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	d := &Dispatcher{cfg: cfg, log: log.Named("effects")}
	if cfg.Async {
		d.sem = make(chan struct{}, cfg.Concurrency)
	}
	return d
}

// NewInline creates a synchronous dispatcher, mainly for tests.
func NewInline(log *zap.Logger) *Dispatcher {
	return NewDispatcher(Config{Async: false}, log)
}

// Dispatch runs fn under name. The request context's values are kept but its
// cancellation is not, so a disconnecting client does not abort the effect.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, fn Effect) {
	effectCtx := context.WithoutCancel(ctx)
	if !d.cfg.Async {
		d.run(effectCtx, name, fn)
		return
	}

	d.sem <- struct{}{} // acquire
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() { <-d.sem }() // release
		d.run(effectCtx, name, fn)
	}()
}

func (d *Dispatcher) run(ctx context.Context, name string, fn Effect) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("effect panicked", zap.String("effect", name), zap.Any("panic", r))
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		d.log.Warn("effect failed",
			zap.String("effect", name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return
	}
	d.log.Debug("effect done", zap.String("effect", name), zap.Duration("elapsed", time.Since(start)))
}

// Wait blocks until in-flight effects finish or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("effects.Wait: %w", ctx.Err())
	}
}
