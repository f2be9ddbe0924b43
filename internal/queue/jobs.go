package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// Job represents one transcription attempt for one session
type Job struct {
	ID        string
	SessionID string
	File      types.SelectedFile
	Status    string
	Error     error
	Result    *types.TranscriptionResult
	CreatedAt time.Time

	onDone func(*Job)
	done   bool
}

// NewJob creates a queued job; onDone runs once on the worker when the job
// completes or fails
func NewJob(sessionID string, file types.SelectedFile, onDone func(*Job)) *Job {
	return &Job{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		File:      file,
		Status:    types.JobQueued,
		CreatedAt: time.Now(),
		onDone:    onDone,
	}
}

func (j *Job) finish() {
	if j.done {
		return
	}
	j.done = true
	if j.onDone != nil {
		j.onDone(j)
	}
}
