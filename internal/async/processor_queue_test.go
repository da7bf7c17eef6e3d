package async

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestQueueProcessesAllJobs(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewProcessorQueue(func(_ context.Context, job Job) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, job.Path)
		if job.Path == "b.pdf" {
			return errors.New("boom")
		}
		return nil
	}, nil, WithWorkers(2), WithQueueSize(1))

	for _, p := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}
	q.Shutdown(context.Background())

	sort.Strings(seen)
	if len(seen) != 3 || seen[0] != "a.pdf" || seen[2] != "c.pdf" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(func(context.Context, Job) error { return nil }, nil)
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())
	if err := q.Enqueue(context.Background(), Job{Path: "late.pdf"}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueueAppliesProcessTimeout(t *testing.T) {
	got := make(chan error, 1)
	q := NewProcessorQueue(func(ctx context.Context, _ Job) error {
		<-ctx.Done()
		got <- ctx.Err()
		return ctx.Err()
	}, nil, WithProcessTimeout(10*time.Millisecond))

	if err := q.Enqueue(context.Background(), Job{Path: "slow.pdf"}); err != nil {
		t.Fatal(err)
	}
	select {
	case err := <-got:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("handler never timed out")
	}
	q.Shutdown(context.Background())
}

func TestQueueSurvivesPanickingHandler(t *testing.T) {
	var (
		mu   sync.Mutex
		done []string
	)
	// one worker: the panic must not take it down before "after.pdf" runs
	q := NewProcessorQueue(func(_ context.Context, job Job) error {
		if job.Path == "corrupt.pdf" {
			panic("loading {2 0}: found {1 0}")
		}
		mu.Lock()
		done = append(done, job.Path)
		mu.Unlock()
		return nil
	}, nil, WithWorkers(1))

	for _, p := range []string{"corrupt.pdf", "after.pdf"} {
		if err := q.Enqueue(context.Background(), Job{Path: p}); err != nil {
			t.Fatalf("Enqueue(%s): %v", p, err)
		}
	}
	q.Shutdown(context.Background())

	if len(done) != 1 || done[0] != "after.pdf" {
		t.Fatalf("done = %v", done)
	}
}

func TestRunReportsPanicAsError(t *testing.T) {
	q := NewProcessorQueue(func(context.Context, Job) error { panic("boom") }, nil)
	defer q.Shutdown(context.Background())
	if err := q.run(Job{Path: "x.pdf"}); err == nil {
		t.Fatalf("expected error from panicking handler")
	}
}
