package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJob(t *testing.T) {
	done := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	id, err := q.Enqueue(context.Background(), Job{Type: "score", Payload: []string{"3.1.3"}})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case job := <-done:
		assert.Equal(t, id, job.ID)
		assert.Equal(t, "score", job.Type)
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var attempts int32
	failed := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&attempts, 1)
		return errors.New("boom")
	}, QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: 5 * time.Millisecond,
		OnFailure:  func(job Job, err error) { failed <- err },
	})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(context.Background(), Job{Type: "score"})
	require.NoError(t, err)

	select {
	case err := <-failed:
		assert.EqualError(t, err, "boom")
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	case <-time.After(2 * time.Second):
		t.Fatal("failure handler not called")
	}
}

func TestEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	_, err := q.Enqueue(context.Background(), Job{})
	assert.Error(t, err)
}

func TestEnqueueFullBufferFailsFast(t *testing.T) {
	release := make(chan struct{})
	picked := make(chan struct{}, 1)
	q := NewQueue("busy", func(ctx context.Context, job Job) error {
		picked <- struct{}{}
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	_, err := q.Enqueue(context.Background(), Job{Type: "running"})
	require.NoError(t, err)
	<-picked
	_, err = q.Enqueue(context.Background(), Job{Type: "buffered"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := q.Enqueue(context.Background(), Job{Type: "overflow"})
		done <- err
	}()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full buffer")
	}
	assert.Equal(t, 1, q.Pending())
}

func TestEnqueueHonoursCallerContext(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := q.Enqueue(ctx, Job{Type: "score"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueRecoversPanicsAndCounts(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		if job.Type == "bad" {
			panic("nil scorer")
		}
		return nil
	}, QueueConfig{Workers: 1, OnFailure: func(job Job, err error) { failed <- err }})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(context.Background(), Job{Type: "ok"})
	require.NoError(t, err)
	_, err = q.Enqueue(context.Background(), Job{Type: "bad"})
	require.NoError(t, err)

	select {
	case err := <-failed:
		assert.Contains(t, err.Error(), "panicked: nil scorer")
	case <-time.After(time.Second):
		t.Fatal("panic not reported")
	}
	require.Eventually(t, func() bool { return q.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), q.Stats().Failed)
	assert.Equal(t, uint64(0), q.Stats().Retried)
}

func TestQueueJobTimeout(t *testing.T) {
	failed := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, JobTimeout: 10 * time.Millisecond, OnFailure: func(job Job, err error) { failed <- err }})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue(context.Background(), Job{Type: "slow"})
	require.NoError(t, err)
	select {
	case err := <-failed:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("timeout not enforced")
	}
}

func TestQueueBackoffDoublesUpToCap(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{RetryDelay: time.Second, MaxRetryDelay: 5 * time.Second})
	assert.Equal(t, time.Second, q.backoff(1))
	assert.Equal(t, 2*time.Second, q.backoff(2))
	assert.Equal(t, 4*time.Second, q.backoff(3))
	assert.Equal(t, 5*time.Second, q.backoff(4))
}
