package scribe

import (
	"fmt"
	"path/filepath"
	"sync"
)

// DefaultSession is the session key used when a caller does not supply one.
const DefaultSession = "default"

// Session binds a session key to its workspace. The embedded lock
// serializes filesystem access within the session: processing and clearing
// take the write lock, summarizing and availability checks the read lock.
type Session struct {
	ID        string
	Workspace *Workspace

	mu sync.RWMutex
}

func (s *Session) Lock()    { s.mu.Lock() }
func (s *Session) Unlock()  { s.mu.Unlock() }
func (s *Session) RLock()   { s.mu.RLock() }
func (s *Session) RUnlock() { s.mu.RUnlock() }

// SessionManager hands out per-session workspaces rooted under a single
// directory. All methods are safe for concurrent use.
type SessionManager struct {
	root string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a manager that lays out one workspace per
// session key under root.
func NewSessionManager(root string) *SessionManager {
	return &SessionManager{
		root:     root,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating its workspace on first use.
// An empty id maps to DefaultSession. The id is reduced to its base name
// so callers cannot escape the root directory.
func (m *SessionManager) Get(id string) (*Session, error) {
	if id == "" {
		id = DefaultSession
	}
	safe := filepath.Base(id)
	if safe == "." || safe == ".." || safe == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid session id %q", id)
	}

	m.mu.Lock()
	sess, ok := m.sessions[safe]
	if !ok {
		sess = &Session{
			ID:        safe,
			Workspace: NewWorkspace(filepath.Join(m.root, safe)),
		}
		m.sessions[safe] = sess
	}
	m.mu.Unlock()

	if err := sess.Workspace.Init(); err != nil {
		return nil, err
	}
	return sess, nil
}
