package types

import "time"

// Status is the view state of one browser session
type Status string

// Application status constants
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Job status constants
const (
	JobQueued     = "QUEUED"
	JobProcessing = "PROCESSING"
	JobCompleted  = "COMPLETED"
	JobFailed     = "FAILED"
)

// Source type constants
const (
	SourcePicker = "picker"
	SourceDrop   = "drop"
)

// MIMETypeMP3 is the only declared type accepted on the drop path
const MIMETypeMP3 = "audio/mpeg"

// SelectedFile is an uploaded audio file staged for transcription.
// It is replaced as a whole, never mutated.
type SelectedFile struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// TranscriptionResult represents the output of one finished job
type TranscriptionResult struct {
	JobID       string
	Text        string
	WordCount   int
	ProcessedAt time.Time
}
