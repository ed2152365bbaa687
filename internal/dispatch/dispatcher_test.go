package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDispatcher_RunsSubmittedTasks(t *testing.T) {
	d := New(zap.NewNop())
	defer d.Close()

	done := make(chan struct{})
	d.Submit("test.task", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestDispatcher_TaskErrorDoesNotStopWorker(t *testing.T) {
	d := New(zap.NewNop())
	defer d.Close()

	d.Submit("test.failing", func(ctx context.Context) error {
		return errors.New("boom")
	})

	done := make(chan struct{})
	d.Submit("test.after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker stopped after task error")
	}
}

func TestDispatcher_RecoverFromPanic(t *testing.T) {
	d := New(zap.NewNop())
	defer d.Close()

	d.Submit("test.panicking", func(ctx context.Context) error {
		panic("boom")
	})

	done := make(chan struct{})
	d.Submit("test.after", func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	d := New(zap.NewNop(), WithQueueSize(8))

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		d.Submit("test.drain", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	d.Close()
	assert.Equal(t, int32(5), ran.Load())
}

func TestDispatcher_SubmitAfterCloseIsDropped(t *testing.T) {
	d := New(zap.NewNop())
	d.Close()

	// Must not panic on the closed channel.
	d.Submit("test.late", func(ctx context.Context) error { return nil })
}

func TestDispatcher_SubmitRacingCloseDoesNotPanic(t *testing.T) {
	// Submits and Close interleave freely under the race detector; a send
	// on the closed queue would panic here.
	for i := 0; i < 100; i++ {
		d := New(zap.NewNop())

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for k := 0; k < 10; k++ {
					d.Submit("test.racer", func(ctx context.Context) error { return nil })
				}
			}()
		}
		d.Close()
		wg.Wait()
	}
}

func TestDispatcher_TaskContextHasDeadline(t *testing.T) {
	d := New(zap.NewNop(), WithTaskTimeout(time.Second))
	defer d.Close()

	deadlineSet := make(chan bool, 1)
	d.Submit("test.deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlineSet <- ok
		return nil
	})

	select {
	case ok := <-deadlineSet:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestSync_RunsInline(t *testing.T) {
	s := NewSync(zap.NewNop())

	ran := false
	s.Submit("test.inline", func(ctx context.Context) error {
		ran = true
		return nil
	})

	assert.True(t, ran)
}
