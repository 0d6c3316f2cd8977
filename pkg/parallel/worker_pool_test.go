package parallel

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, nil)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d): %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	executed := false
	success := pool.Submit(func() error {
		executed = true
		return nil
	})
	if !success {
		t.Error("Task submission failed")
	}

	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait returned %v", err)
	}
	if !executed {
		t.Error("Task was not executed")
	}
}

// TestWorkerPoolSizing tests worker count normalisation and the overflow guard
func TestWorkerPoolSizing(t *testing.T) {
	if _, err := NewWorkerPool(math.MaxInt, nil); !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}

	for _, tc := range []struct{ in, want int }{{0, 1}, {-5, 1}, {1, 1}, {16, 16}} {
		pool := newPool(t, tc.in)
		if pool.workers != tc.want {
			t.Errorf("NewWorkerPool(%d) has %d workers, want %d", tc.in, pool.workers, tc.want)
		}
		pool.Close()
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() error {
				atomic.AddInt64(&counter, 1)
				return nil
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolSubmitAfterClose tests that a closed pool rejects work
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 2)
	pool.Close()
	pool.Close() // idempotent

	if pool.Submit(func() error { return nil }) {
		t.Error("Submit after Close should return false")
	}
}

// TestWorkerPoolErrorsAreJoined tests that Wait reports every failed task
func TestWorkerPoolErrorsAreJoined(t *testing.T) {
	pool := newPool(t, 3)
	errA := errors.New("a failed")
	errB := errors.New("b failed")

	pool.Submit(func() error { return errA })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return errB })

	err := pool.Wait()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("Expected both errors, got %v", err)
	}
}

// TestWorkerPoolWithPanic tests that panics in tasks don't crash the pool
func TestWorkerPoolWithPanic(t *testing.T) {
	pool := newPool(t, 4)

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() error {
			panic("intentional panic")
		})
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() error {
			atomic.AddInt64(&counter, 1)
			return nil
		})
	}

	err := pool.Wait()
	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected PanicError, got %v", err)
	}
	if pe.Value != "intentional panic" || len(pe.Stack) == 0 {
		t.Errorf("unexpected panic error %+v", pe)
	}
}

// TestMapPreservesOrder tests that results come back in index order
func TestMapPreservesOrder(t *testing.T) {
	got, err := Map(context.Background(), 8, 500, nil, func(_ context.Context, i int) (int, error) {
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Fatalf("result[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestMapEmpty(t *testing.T) {
	got, err := Map(context.Background(), 4, 0, nil, func(context.Context, int) (string, error) {
		t.Fatal("fn must not be called")
		return "", nil
	})
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result, got %v, %v", got, err)
	}
}

func TestMapError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Map(context.Background(), 2, 10, nil, func(_ context.Context, i int) (int, error) {
		if i == 7 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
}

func TestMapCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Map(ctx, 2, 10, nil, func(context.Context, int) (int, error) {
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() error {
			// Minimal work
			return nil
		})
	}

	pool.Close()
}
