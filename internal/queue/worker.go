package queue

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// DefaultQueueSize bounds jobs waiting for a worker
const DefaultQueueSize = 100

var (
	ErrQueueFull   = apperrors.New(apperrors.KindConflict, "The transcription service is busy. Please try again.")
	ErrPoolStopped = apperrors.New(apperrors.KindConflict, "The transcription service is shutting down.")
)

// Transcriber turns an audio file into transcript text
type Transcriber interface {
	Transcribe(ctx context.Context, file types.SelectedFile) (string, error)
}

// WorkerPool runs transcription jobs on a fixed set of workers
type WorkerPool struct {
	jobQueue    chan *Job
	workerCount int
	transcriber Transcriber
	timeout     time.Duration
	logger      *zap.Logger

	mu      sync.Mutex
	stopped bool
	ctx     context.Context
	wg      sync.WaitGroup
}

// NewWorkerPool creates a new worker pool. A zero timeout means jobs only
// end with the pool context.
func NewWorkerPool(workerCount int, transcriber Transcriber, timeout time.Duration, logger *zap.Logger) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		jobQueue:    make(chan *Job, DefaultQueueSize),
		workerCount: workerCount,
		transcriber: transcriber,
		timeout:     timeout,
		logger:      logger.Named("queue"),
		ctx:         context.Background(),
	}
}

// Start launches the workers. Cancelling ctx aborts in-flight calls.
func (wp *WorkerPool) Start(ctx context.Context) {
	wp.ctx = ctx
	wp.logger.Info("starting worker pool", zap.Int("workers", wp.workerCount))
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// EnqueueJob adds a job to the queue without blocking
func (wp *WorkerPool) EnqueueJob(job *Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped {
		return ErrPoolStopped
	}

	job.Status = types.JobQueued
	select {
	case wp.jobQueue <- job:
	default:
		return ErrQueueFull
	}

	wp.logger.Info("job enqueued",
		zap.String("job_id", job.ID),
		zap.String("session_id", job.SessionID),
		zap.String("file", job.File.Name))
	return nil
}

// Stop closes the queue and waits for queued jobs to drain
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	wp.logger.Info("worker pool stopped")
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	log := wp.logger.With(zap.Int("worker", id))
	log.Debug("worker started")

	for job := range wp.jobQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic processing job",
						zap.String("job_id", job.ID),
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()))
					cause := fmt.Errorf("worker panic: %v", r)
					job.Status = types.JobFailed
					job.Error = apperrors.Wrap(apperrors.KindTranscription, cause,
						"Error during transcription: "+cause.Error())
					job.finish()
				}
			}()

			wp.processJob(log, job)
		}()
	}
}

// processJob runs exactly one transcription attempt
func (wp *WorkerPool) processJob(log *zap.Logger, job *Job) {
	log.Info("processing job", zap.String("job_id", job.ID))
	job.Status = types.JobProcessing
	started := time.Now()

	ctx := wp.ctx
	if wp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.timeout)
		defer cancel()
	}

	text, err := wp.transcriber.Transcribe(ctx, job.File)
	if err != nil {
		log.Warn("job failed",
			zap.String("job_id", job.ID),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		job.Status = types.JobFailed
		job.Error = err
		job.finish()
		return
	}

	job.Result = &types.TranscriptionResult{
		JobID:       job.ID,
		Text:        text,
		WordCount:   len(strings.Fields(text)),
		ProcessedAt: time.Now(),
	}
	job.Status = types.JobCompleted
	log.Info("job completed",
		zap.String("job_id", job.ID),
		zap.Int("word_count", job.Result.WordCount),
		zap.Duration("elapsed", time.Since(started)))
	job.finish()
}
