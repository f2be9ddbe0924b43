package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codebuildervaibhav/podcast-transcript/internal/types"
)

// Store keeps one shell per browser session in memory
type Store struct {
	dispatcher    Dispatcher
	hasCredential func() bool
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	shells map[string]*Shell
}

// NewStore creates an empty store
func NewStore(dispatcher Dispatcher, hasCredential func() bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		dispatcher:    dispatcher,
		hasCredential: hasCredential,
		logger:        logger.Named("session"),
		now:           time.Now,
		shells:        make(map[string]*Shell),
	}
}

// Get returns the shell for id and marks it as seen
func (st *Store) Get(id string) (*Shell, bool) {
	st.mu.Lock()
	shell, ok := st.shells[id]
	st.mu.Unlock()

	if ok {
		shell.touch(st.now())
	}
	return shell, ok
}

// GetOrCreate returns the shell for id, creating one under a fresh id when
// id is empty or unknown
func (st *Store) GetOrCreate(id string) (shell *Shell, created bool) {
	if shell, ok := st.Get(id); ok {
		return shell, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	id = uuid.New().String()
	shell = NewShell(id, st.dispatcher, st.hasCredential, st.logger)
	shell.touch(st.now())
	st.shells[id] = shell
	st.logger.Debug("session created", zap.String("session_id", id))
	return shell, true
}

// Len returns the number of live sessions
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.shells)
}

// Sweep evicts sessions unseen for longer than maxIdle. Loading sessions
// are kept until their job finishes.
func (st *Store) Sweep(maxIdle time.Duration) int {
	now := st.now()

	st.mu.Lock()
	var evicted []*Shell
	for id, shell := range st.shells {
		lastSeen, status := shell.idleSince()
		if status == types.StatusLoading || now.Sub(lastSeen) <= maxIdle {
			continue
		}
		delete(st.shells, id)
		evicted = append(evicted, shell)
	}
	st.mu.Unlock()

	for _, shell := range evicted {
		shell.Close()
	}
	if len(evicted) > 0 {
		st.logger.Info("sessions evicted", zap.Int("count", len(evicted)), zap.Duration("max_idle", maxIdle))
	}
	return len(evicted)
}

// CloseAll closes every session
func (st *Store) CloseAll() {
	st.mu.Lock()
	shells := st.shells
	st.shells = make(map[string]*Shell)
	st.mu.Unlock()

	for _, shell := range shells {
		shell.Close()
	}
}
