package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

type transcriberFunc func(ctx context.Context, file types.SelectedFile) (string, error)

func (f transcriberFunc) Transcribe(ctx context.Context, file types.SelectedFile) (string, error) {
	return f(ctx, file)
}

func testFile() types.SelectedFile {
	return types.SelectedFile{Name: "ep.mp3", MIMEType: types.MIMETypeMP3, Size: 3, Data: []byte("ID3")}
}

func runJob(t *testing.T, pool *WorkerPool) *Job {
	t.Helper()
	done := make(chan *Job, 1)
	require.NoError(t, pool.EnqueueJob(NewJob("session-1", testFile(), func(j *Job) { done <- j })))

	select {
	case j := <-done:
		return j
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
		return nil
	}
}

func TestWorkerPoolCompletesJob(t *testing.T) {
	pool := NewWorkerPool(1, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		return "one two three", nil
	}), time.Second, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	job := runJob(t, pool)

	assert.Equal(t, types.JobCompleted, job.Status)
	require.NotNil(t, job.Result)
	assert.Equal(t, "one two three", job.Result.Text)
	assert.Equal(t, 3, job.Result.WordCount)
	assert.Equal(t, job.ID, job.Result.JobID)
	assert.NoError(t, job.Error)
}

func TestWorkerPoolReportsFailure(t *testing.T) {
	boom := errors.New("boom")
	pool := NewWorkerPool(1, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		return "", boom
	}), 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	job := runJob(t, pool)

	assert.Equal(t, types.JobFailed, job.Status)
	assert.ErrorIs(t, job.Error, boom)
	assert.Nil(t, job.Result)
}

func TestWorkerPoolRecoversPanics(t *testing.T) {
	pool := NewWorkerPool(1, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		panic("decoder exploded")
	}), 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	job := runJob(t, pool)

	assert.Equal(t, types.JobFailed, job.Status)
	assert.Equal(t, apperrors.KindTranscription, apperrors.KindOf(job.Error))
	assert.Equal(t, "Error during transcription: worker panic: decoder exploded", job.Error.Error())

	// the worker survives and keeps serving
	assert.Equal(t, types.JobFailed, runJob(t, pool).Status)
}

func TestWorkerPoolAppliesTimeout(t *testing.T) {
	pool := NewWorkerPool(1, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 20*time.Millisecond, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	job := runJob(t, pool)

	assert.ErrorIs(t, job.Error, context.DeadlineExceeded)
}

func TestWorkerPoolRunsOneCallPerJob(t *testing.T) {
	var calls atomic.Int32
	pool := NewWorkerPool(2, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		calls.Add(1)
		return "", errors.New("no retry")
	}), 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	runJob(t, pool)
	runJob(t, pool)

	assert.Equal(t, int32(2), calls.Load())
}

func TestEnqueueAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, transcriberFunc(func(ctx context.Context, f types.SelectedFile) (string, error) {
		return "", nil
	}), 0, nil)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	err := pool.EnqueueJob(NewJob("s", testFile(), nil))
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestEnqueueQueueFull(t *testing.T) {
	// never started, so nothing drains the queue
	pool := NewWorkerPool(1, nil, 0, nil)
	for i := 0; i < DefaultQueueSize; i++ {
		require.NoError(t, pool.EnqueueJob(NewJob("s", testFile(), nil)))
	}

	assert.ErrorIs(t, pool.EnqueueJob(NewJob("s", testFile(), nil)), ErrQueueFull)
}

func TestNewJob(t *testing.T) {
	job := NewJob("session-1", testFile(), nil)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "session-1", job.SessionID)
	assert.Equal(t, types.JobQueued, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	// finish without a callback is safe and idempotent
	job.finish()
	job.finish()
}
