package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/apperrors"
	"github.com/codebuildervaibhav/podcast-transcript/internal/output"
	"github.com/codebuildervaibhav/podcast-transcript/internal/queue"
	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
	"github.com/codebuildervaibhav/podcast-transcript/internal/upload"
)

var (
	ErrNoFile            = apperrors.New(apperrors.KindValidation, "Please select a file first.")
	ErrMissingCredential = apperrors.New(apperrors.KindConfiguration, "An API Key must be set when running in a browser")
	ErrBusy              = apperrors.New(apperrors.KindConflict, "A transcription is already in progress.")
	ErrNoTranscript      = apperrors.New(apperrors.KindValidation, "No transcript is available.")
)

const unknownError = "An unknown error occurred."

// Dispatcher hands a job to whatever runs transcriptions
type Dispatcher interface {
	EnqueueJob(job *queue.Job) error
}

// FileInfo is the display form of the staged file
type FileInfo struct {
	Name      string `json:"name"`
	MIMEType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	SizeLabel string `json:"size_label"`
}

// Snapshot is the rendered view model of one shell
type Snapshot struct {
	Session     string       `json:"session"`
	Seq         int64        `json:"seq"`
	Status      types.Status `json:"status"`
	UploadState upload.State `json:"upload_state"`
	File        *FileInfo    `json:"file,omitempty"`
	Disabled    bool         `json:"disabled"`
	Dragging    bool         `json:"dragging"`
	Transcript  string       `json:"transcript,omitempty"`
	Copied      bool         `json:"copied"`
	Error       string       `json:"error,omitempty"`
}

// Shell is the view model of one browser session: a four-state machine
// (idle, loading, success, error) wiring the upload control, the worker
// pool and the output panel. Every transition is published to observers.
type Shell struct {
	id            string
	dispatcher    Dispatcher
	hasCredential func() bool
	logger        *zap.Logger

	mu        sync.Mutex
	status    types.Status
	control   upload.Control
	panel     *output.Panel
	errMsg    string
	jobID     string
	seq       int64
	lastSeen  time.Time
	closed    bool
	observers map[int]func(Snapshot)
	nextObs   int
	done      chan struct{}
}

// NewShell creates an idle shell
func NewShell(id string, dispatcher Dispatcher, hasCredential func() bool, logger *zap.Logger) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Shell{
		id:            id,
		dispatcher:    dispatcher,
		hasCredential: hasCredential,
		logger:        logger.With(zap.String("session_id", id)),
		status:        types.StatusIdle,
		lastSeen:      time.Now(),
		observers:     make(map[int]func(Snapshot)),
		done:          make(chan struct{}),
	}
}

// ID returns the session id the shell is stored under
func (s *Shell) ID() string { return s.id }

// Done is closed when the shell is closed; observers must stop using it
func (s *Shell) Done() <-chan struct{} { return s.done }

// SelectFile stages a picked file and resets to idle
func (s *Shell) SelectFile(file types.SelectedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.control.Select(file); err != nil {
		return err
	}
	s.resetLocked()
	s.logger.Info("file selected", zap.String("file", file.Name), zap.Int64("size", file.Size))
	return nil
}

// DropFile stages a dropped file. A rejected drop changes nothing.
func (s *Shell) DropFile(file types.SelectedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasDragging := s.control.Dragging()
	if err := s.control.Drop(file); err != nil {
		if wasDragging {
			s.publishLocked()
		}
		s.logger.Info("drop rejected", zap.String("file", file.Name),
			zap.String("mime_type", file.MIMEType), zap.Error(err))
		return err
	}
	s.resetLocked()
	s.logger.Info("file dropped", zap.String("file", file.Name), zap.Int64("size", file.Size))
	return nil
}

// ClearFile unstages the file and resets to idle
func (s *Shell) ClearFile() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.control.Clear(); err != nil {
		return err
	}
	s.resetLocked()
	return nil
}

// DragEnter forwards a drag-over to the upload control
func (s *Shell) DragEnter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.control.Dragging() {
		return
	}
	s.control.DragEnter()
	if s.control.Dragging() {
		s.publishLocked()
	}
}

// DragLeave forwards a drag-leave to the upload control
func (s *Shell) DragLeave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.control.Dragging() {
		return
	}
	s.control.DragLeave()
	s.publishLocked()
}

// Transcribe validates the trigger and dispatches one job. Validation and
// configuration failures move the shell to error without dispatching.
func (s *Shell) Transcribe() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == types.StatusLoading {
		return ErrBusy
	}

	file, ok := s.control.File()
	if !ok {
		s.failLocked(ErrNoFile.Message)
		return ErrNoFile
	}
	if s.hasCredential == nil || !s.hasCredential() {
		s.failLocked(ErrMissingCredential.Message)
		return ErrMissingCredential
	}

	s.closePanelLocked()
	s.errMsg = ""
	s.status = types.StatusLoading
	s.control.SetDisabled(true)

	job := queue.NewJob(s.id, file, s.finish)
	if err := s.dispatcher.EnqueueJob(job); err != nil {
		s.control.SetDisabled(false)
		s.failLocked(apperrors.As(err).Message)
		return err
	}

	s.jobID = job.ID
	s.logger.Info("transcription started", zap.String("job_id", job.ID), zap.String("file", file.Name))
	s.publishLocked()
	return nil
}

// finish applies the outcome of a job; it runs on a worker goroutine
func (s *Shell) finish(job *queue.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || job.ID != s.jobID {
		return
	}
	s.jobID = ""
	s.control.SetDisabled(false)

	if job.Error != nil || job.Result == nil {
		msg := unknownError
		if job.Error != nil && job.Error.Error() != "" {
			msg = job.Error.Error()
		}
		s.failLocked(msg)
		return
	}

	var panel *output.Panel
	panel = output.NewPanel(job.Result.Text, func() { s.panelChanged(panel) })
	s.panel = panel
	s.errMsg = ""
	s.status = types.StatusSuccess
	s.publishLocked()
}

// Copy records a clipboard write of the transcript
func (s *Shell) Copy() error {
	s.mu.Lock()
	panel := s.panel
	s.mu.Unlock()

	if panel == nil {
		return ErrNoTranscript
	}
	// MarkCopied calls back into panelChanged, so the lock must be released
	panel.MarkCopied()
	return nil
}

// Download packages the transcript for saving
func (s *Shell) Download() (output.Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.panel == nil {
		return output.Download{}, ErrNoTranscript
	}
	return s.panel.Download(), nil
}

// Snapshot returns the current view model
func (s *Shell) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Status returns the current state
func (s *Shell) Status() types.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe registers fn for every published snapshot and sends it the
// current one at once. fn runs with the shell locked and must not call back
// into the shell.
func (s *Shell) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	fn(s.snapshotLocked())

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Close releases the staged file, timers and observers, then closes Done
func (s *Shell) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
	s.closePanelLocked()
	s.control = upload.Control{}
	s.observers = make(map[int]func(Snapshot))
}

func (s *Shell) touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = t
}

func (s *Shell) idleSince() (time.Time, types.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen, s.status
}

func (s *Shell) panelChanged(p *output.Panel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.panel != p {
		return
	}
	s.publishLocked()
}

func (s *Shell) resetLocked() {
	s.closePanelLocked()
	s.errMsg = ""
	s.status = types.StatusIdle
	s.publishLocked()
}

func (s *Shell) failLocked(msg string) {
	s.closePanelLocked()
	s.errMsg = msg
	s.status = types.StatusError
	s.publishLocked()
}

func (s *Shell) closePanelLocked() {
	if s.panel != nil {
		s.panel.Close()
		s.panel = nil
	}
}

func (s *Shell) publishLocked() {
	s.seq++
	snap := s.snapshotLocked()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *Shell) snapshotLocked() Snapshot {
	snap := Snapshot{
		Session:     s.id,
		Seq:         s.seq,
		Status:      s.status,
		UploadState: s.control.State(),
		Disabled:    s.control.Disabled(),
		Dragging:    s.control.Dragging(),
	}
	if file, ok := s.control.File(); ok {
		snap.File = &FileInfo{
			Name:      file.Name,
			MIMEType:  file.MIMEType,
			Size:      file.Size,
			SizeLabel: upload.FormatBytes(file.Size),
		}
	}
	if s.status == types.StatusSuccess && s.panel != nil {
		snap.Transcript = s.panel.Transcript()
		snap.Copied = s.panel.Copied()
	}
	if s.status == types.StatusError {
		snap.Error = s.errMsg
	}
	return snap
}
