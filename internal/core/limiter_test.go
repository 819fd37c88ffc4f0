package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGenerationLimiter_AcquireRelease(t *testing.T) {
	limiter := NewGenerationLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Available(); got != 2 {
		t.Errorf("initial Available = %d, want 2", got)
	}

	for i := 0; i < 2; i++ {
		if err := limiter.Acquire(ctx); err != nil {
			t.Fatalf("Acquire #%d failed: %v", i+1, err)
		}
	}
	if got := limiter.ActiveCount(); got != 2 {
		t.Errorf("ActiveCount = %d, want 2", got)
	}
	if got := limiter.Available(); got != 0 {
		t.Errorf("Available = %d, want 0", got)
	}

	limiter.Release()
	limiter.Release()

	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("after Release, ActiveCount = %d, want 0", got)
	}
	if got := limiter.Status().Completed; got != 2 {
		t.Errorf("Completed = %d, want 2", got)
	}
}

func TestGenerationLimiter_Defaults(t *testing.T) {
	limiter := NewGenerationLimiter(0, 0)
	if got := limiter.MaxConcurrent(); got != defaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d, want %d", got, defaultMaxConcurrent)
	}
	if limiter.maxWait != defaultMaxWait {
		t.Errorf("maxWait = %v, want %v", limiter.maxWait, defaultMaxWait)
	}
}

func TestGenerationLimiter_TimesOutWhenFull(t *testing.T) {
	limiter := NewGenerationLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(ctx)
	if !errors.Is(err, ErrTooManyGenerations) {
		t.Fatalf("expected ErrTooManyGenerations, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("gave up too early: %v", elapsed)
	}
}

func TestGenerationLimiter_ConcurrentAccess(t *testing.T) {
	const maxConcurrent = 3
	limiter := NewGenerationLimiter(maxConcurrent, 5*time.Second)

	var wg sync.WaitGroup
	var maxObserved atomic.Int64

	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire failed: %v", err)
				return
			}
			defer limiter.Release()

			n := int64(limiter.ActiveCount())
			for {
				cur := maxObserved.Load()
				if n <= cur || maxObserved.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
		}()
	}
	wg.Wait()

	if got := maxObserved.Load(); got > maxConcurrent {
		t.Errorf("observed %d concurrent generations, max %d", got, maxConcurrent)
	}
	if got := limiter.ActiveCount(); got != 0 {
		t.Errorf("final ActiveCount = %d, want 0", got)
	}
}

func TestGenerationLimiter_ContextCancellation(t *testing.T) {
	limiter := NewGenerationLimiter(1, 5*time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- limiter.Acquire(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after cancellation")
	}

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	if err := limiter.Acquire(cancelled); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire with done context = %v, want context.Canceled", err)
	}
}

func TestGenerationLimiter_WaitForDrain(t *testing.T) {
	limiter := NewGenerationLimiter(2, time.Second)

	if err := limiter.WaitForDrain(context.Background()); err != nil {
		t.Fatalf("WaitForDrain on idle limiter = %v", err)
	}

	limiter.Acquire(context.Background())
	limiter.Acquire(context.Background())

	done := make(chan error, 1)
	go func() { done <- limiter.WaitForDrain(context.Background()) }()

	limiter.Release()
	select {
	case <-done:
		t.Fatal("WaitForDrain returned with one generation active")
	case <-time.After(3 * drainPollInterval):
	}

	limiter.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not complete")
	}
}

func TestGenerationLimiter_WaitForDrain_ContextCancelled(t *testing.T) {
	limiter := NewGenerationLimiter(1, time.Second)
	limiter.Acquire(context.Background())
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 3*drainPollInterval)
	defer cancel()

	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain = %v, want context.DeadlineExceeded", err)
	}
}

func TestGenerationLimiter_Status(t *testing.T) {
	limiter := NewGenerationLimiter(3, time.Second)
	limiter.Acquire(context.Background())

	got := limiter.Status()
	want := LimiterStatus{Active: 1, Available: 2, MaxConcurrent: 3}
	if got != want {
		t.Errorf("Status() = %+v, want %+v", got, want)
	}
	limiter.Release()
}
