package eventloop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startLoop(t *testing.T) *Loop {
	t.Helper()
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l
}

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 100; i++ {
		l.Post(func() { got = append(got, i) })
	}
	l.Wait()

	if len(got) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran as %d", i, v)
		}
	}
}

func TestLoop_Do(t *testing.T) {
	l := startLoop(t)

	x := 0
	if err := l.Do(func() { x = 42 }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if x != 42 {
		t.Errorf("x = %d, want 42", x)
	}
}

func TestLoop_DoAfterStop(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	if err := l.Do(func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Do() after stop = %v, want ErrStopped", err)
	}
}

func TestAwait_ResultReentersLoop(t *testing.T) {
	l := startLoop(t)

	release := make(chan struct{})
	var order []string
	Await(l, func() (int, error) {
		<-release
		return 7, nil
	}, func(v int, err error) {
		order = append(order, "async")
		if v != 7 || err != nil {
			t.Errorf("then(%d, %v), want (7, nil)", v, err)
		}
	})

	// The loop keeps serving tasks while the async work is blocked.
	if err := l.Do(func() { order = append(order, "sync") }); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	close(release)
	l.Wait()

	if len(order) != 2 || order[0] != "sync" || order[1] != "async" {
		t.Errorf("order = %v, want [sync async]", order)
	}
}

func TestLoop_WaitCoversAsyncWork(t *testing.T) {
	l := startLoop(t)

	done := false
	Await(l, func() (struct{}, error) {
		time.Sleep(20 * time.Millisecond)
		return struct{}{}, nil
	}, func(struct{}, error) { done = true })
	l.Wait()

	var seen bool
	l.Do(func() { seen = done })
	if !seen {
		t.Error("Wait() returned before the async callback ran")
	}
}
