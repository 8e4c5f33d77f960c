// Package dispatch serializes outgoing OSC numbers so that consecutive sends
// are at least a minimum interval apart, preserving FIFO order.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Sender transmits a single queued number.
type Sender interface {
	SendNumber(ctx context.Context, number int) error
}

// Config holds dispatcher timing.
type Config struct {
	// MinInterval is the minimum time between two sends.
	MinInterval time.Duration

	// PollInterval is how often the worker wakes to check the queue.
	PollInterval time.Duration

	// Logger receives transport errors. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns a 500ms send gate polled every 100ms.
func DefaultConfig() Config {
	return Config{
		MinInterval:  500 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
	}
}

// Validate checks the timing values.
func (c Config) Validate() error {
	if c.MinInterval < 0 {
		return fmt.Errorf("min interval must be non-negative, got %v", c.MinInterval)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %v", c.PollInterval)
	}
	return nil
}

// Dispatcher owns an unbounded FIFO queue drained by a single worker (Run).
// Enqueue, Clear, ResetTimer and Len are safe to call from any goroutine.
type Dispatcher struct {
	sender Sender
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	queue    []int
	lastSend time.Time // zero: nothing sent since the last reset
}

// New creates a dispatcher. It does not start the worker.
func New(sender Sender, cfg Config) (*Dispatcher, error) {
	if sender == nil {
		return nil, fmt.Errorf("dispatch: sender required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatch: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Dispatcher{
		sender: sender,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Enqueue appends number to the tail of the queue.
func (d *Dispatcher) Enqueue(number int) {
	d.mu.Lock()
	d.queue = append(d.queue, number)
	d.mu.Unlock()
}

// Clear drops every pending number.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	d.queue = nil
	d.mu.Unlock()
}

// ResetTimer forgets the last send time so the next item goes out on the
// next tick.
func (d *Dispatcher) ResetTimer() {
	d.mu.Lock()
	d.lastSend = time.Time{}
	d.mu.Unlock()
}

// Len returns the number of pending items.
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Run drains the queue until ctx is cancelled. It must be called by exactly
// one goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	number, ok := d.next(d.now())
	if !ok {
		return
	}

	if err := d.sender.SendNumber(ctx, number); err != nil {
		d.logger.Warn("dispatch send failed, dropping",
			"number", number,
			"error", err,
		)
		return
	}
	d.logger.Debug("dispatched", "number", number)
}

// next pops the head of the queue if the send gate is open at now, stamping
// lastSend before the caller transmits. An empty queue leaves lastSend as is.
func (d *Dispatcher) next(now time.Time) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return 0, false
	}
	if !d.lastSend.IsZero() && now.Sub(d.lastSend) < d.cfg.MinInterval {
		return 0, false
	}

	number := d.queue[0]
	d.queue = d.queue[1:]
	d.lastSend = now
	return number, true
}
