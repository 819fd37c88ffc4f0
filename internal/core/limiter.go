package core

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyGenerations is returned when every generation slot stays busy
// for longer than the limiter's wait time.
var ErrTooManyGenerations = errors.New("too many generations in progress, please try again later")

const (
	defaultMaxConcurrent = 4
	defaultMaxWait       = 10 * time.Second
	drainPollInterval    = 50 * time.Millisecond
)

// GenerationLimiter bounds the number of tables being generated at once.
// Slots are a buffered channel used as a semaphore.
type GenerationLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
	served  atomic.Int64
}

// NewGenerationLimiter allows at most maxConcurrent generations. A caller
// that cannot get a slot within maxWait receives ErrTooManyGenerations.
// Non-positive arguments fall back to defaults.
func NewGenerationLimiter(maxConcurrent int, maxWait time.Duration) *GenerationLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}
	return &GenerationLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, maxWait elapses or ctx ends.
// Every successful Acquire must be paired with Release.
func (l *GenerationLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyGenerations
	}
}

// Release frees a slot taken by Acquire.
func (l *GenerationLimiter) Release() {
	l.active.Add(-1)
	l.served.Add(1)
	<-l.slots
}

// ActiveCount returns the number of generations holding a slot.
func (l *GenerationLimiter) ActiveCount() int {
	return int(l.active.Load())
}

// MaxConcurrent returns the slot count.
func (l *GenerationLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// Available returns the number of free slots.
func (l *GenerationLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no generation holds a slot or ctx ends.
// The server calls it during shutdown.
func (l *GenerationLimiter) WaitForDrain(ctx context.Context) error {
	if l.ActiveCount() == 0 {
		return nil
	}

	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of the limiter for /api/limits.
type LimiterStatus struct {
	Active        int   `json:"active"`
	Available     int   `json:"available"`
	MaxConcurrent int   `json:"max_concurrent"`
	Completed     int64 `json:"completed"`
}

// Status returns the current limiter state.
func (l *GenerationLimiter) Status() LimiterStatus {
	return LimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
		Completed:     l.served.Load(),
	}
}
