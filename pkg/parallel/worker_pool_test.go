package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/connectome-metrics/pkg/logging"
)

func newPool(t *testing.T, workers int) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, logging.NewNopLogger())
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	// Submit a simple task
	var executed atomic.Bool
	success := pool.Submit(func() {
		executed.Store(true)
	})

	if !success {
		t.Error("Task submission failed")
	}

	// Wait for task to complete
	pool.Close()

	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	tests := []struct {
		requested int
		want      int
		wantErr   bool
	}{
		{0, 1, false},
		{-5, 1, false},
		{4, 4, false},
		{MaxWorkers, MaxWorkers, false},
		{MaxWorkers + 1, 0, true},
	}

	for _, tt := range tests {
		pool, err := NewWorkerPool(tt.requested, logging.NewNopLogger())
		if tt.wantErr {
			if !errors.Is(err, ErrTooManyWorkers) {
				t.Errorf("NewWorkerPool(%d): expected ErrTooManyWorkers, got %v", tt.requested, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewWorkerPool(%d) failed: %v", tt.requested, err)
		}
		if pool.Workers() != tt.want {
			t.Errorf("NewWorkerPool(%d): expected %d workers, got %d", tt.requested, tt.want, pool.Workers())
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
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace validates that closing the pool while submitting
// tasks doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// Might fail if closed
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

// TestWorkerPoolSubmitAfterClose tests that submissions after close return false
func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)
	pool.Close()

	success := pool.Submit(func() {
		t.Error("This task should never execute")
	})

	if success {
		t.Error("Task submission after close should return false")
	}

	// Close multiple times - should not panic
	pool.Close()
	pool.Close()
}

// TestWorkerPoolWithPanic tests that panics in tasks don't crash the pool
func TestWorkerPoolWithPanic(t *testing.T) {
	pool := newPool(t, 2)

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() {
			panic("intentional panic")
		})
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}

	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}
}

func TestRunAll(t *testing.T) {
	pool := newPool(t, 3)
	defer pool.Close()

	var ran int64
	okTask := func(ctx context.Context) error {
		atomic.AddInt64(&ran, 1)
		return nil
	}
	sentinel := errors.New("boom")

	err := pool.RunAll(context.Background(),
		Task{Name: "betweenness", Fn: okTask},
		Task{Name: "constraint", Fn: func(ctx context.Context) error { return sentinel }},
		Task{Name: "communities", Fn: func(ctx context.Context) error { panic("bad partition") }},
		Task{Name: "topology", Fn: okTask},
	)

	if ran != 2 {
		t.Errorf("Expected 2 successful tasks, got %d", ran)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("Expected joined error to contain sentinel, got %v", err)
	}
	if !errors.Is(err, ErrTaskPanicked) {
		t.Errorf("Expected joined error to contain ErrTaskPanicked, got %v", err)
	}

	// Pool stays usable after a batch
	if err := pool.RunAll(context.Background(), Task{Name: "again", Fn: okTask}); err != nil {
		t.Errorf("Second batch failed: %v", err)
	}
}

func TestRunAll_CancelledContext(t *testing.T) {
	pool := newPool(t, 1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.RunAll(ctx, Task{Name: "skipped", Fn: func(ctx context.Context) error {
		t.Error("Task should not run after cancellation")
		return nil
	}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunAll_ClosedPool(t *testing.T) {
	pool := newPool(t, 1)
	pool.Close()

	err := pool.RunAll(context.Background(), Task{Name: "late", Fn: func(ctx context.Context) error { return nil }})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}
}

// BenchmarkWorkerPoolThroughput benchmarks worker pool throughput
func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10, logging.NewNopLogger())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {})
	}

	pool.Close()
}
