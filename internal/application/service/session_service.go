package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receipt-studio/internal/config"
	"github.com/sangkips/receipt-studio/pkg/apperror"
	"go.uber.org/zap"
)

// Session is one client's draft plus its export guard.
type Session struct {
	ID    uuid.UUID
	Model *ReceiptModel

	exporting atomic.Bool
	lastSeen  atomic.Int64 // unix nanos
}

// BeginExport claims the session's export slot. It returns false while
// another export on the same session is running.
func (s *Session) BeginExport() bool {
	return s.exporting.CompareAndSwap(false, true)
}

func (s *Session) EndExport() {
	s.exporting.Store(false)
}

func (s *Session) Exporting() bool {
	return s.exporting.Load()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// SessionManager hands out per-client drafts and expires idle ones.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*Session
	catalog     *config.Catalog
	modelOpts   []ReceiptModelOption
	ttl         time.Duration
	cleanupTick time.Duration
	maxSessions int
	now         func() time.Time
	log         *zap.SugaredLogger
	stop        chan struct{}
	stopOnce    sync.Once
}

func NewSessionManager(cfg config.SessionConfig, catalog *config.Catalog, log *zap.SugaredLogger, modelOpts ...ReceiptModelOption) *SessionManager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &SessionManager{
		sessions:    make(map[uuid.UUID]*Session),
		catalog:     catalog,
		modelOpts:   modelOpts,
		ttl:         cfg.TTL,
		cleanupTick: cfg.CleanupInterval,
		maxSessions: cfg.MaxSessions,
		now:         time.Now,
		log:         log,
		stop:        make(chan struct{}),
	}
}

// Start runs the idle-session cleanup loop until Stop is called.
func (m *SessionManager) Start() {
	if m.cleanupTick <= 0 || m.ttl <= 0 {
		return
	}
	go m.cleanupLoop()
}

func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Resolve returns the session for id, creating a new one when id is empty,
// malformed or unknown. created reports whether a new session was made.
// At the session limit the least recently seen idle session is evicted;
// when every session is exporting apperror.ErrTooManySessions is returned.
func (m *SessionManager) Resolve(id string) (sess *Session, created bool, err error) {
	if parsed, perr := uuid.Parse(id); perr == nil {
		m.mu.RLock()
		s, ok := m.sessions[parsed]
		m.mu.RUnlock()
		if ok {
			s.touch(m.now())
			return s, false, nil
		}
	}

	model, err := NewReceiptModel(m.catalog, m.modelOpts...)
	if err != nil {
		return nil, false, err
	}
	s := &Session{ID: uuid.New(), Model: model}
	s.touch(m.now())

	m.mu.Lock()
	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions && !m.evictOldest() {
		m.mu.Unlock()
		return nil, false, apperror.ErrTooManySessions
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Debugw("session created", "session", s.ID.String())
	return s, true, nil
}

// evictOldest drops the least recently seen session that is not exporting.
// Callers hold mu.
func (m *SessionManager) evictOldest() bool {
	var (
		oldestID uuid.UUID
		oldest   int64
		found    bool
	)
	for id, s := range m.sessions {
		if s.Exporting() {
			continue
		}
		if seen := s.lastSeen.Load(); !found || seen < oldest {
			oldestID, oldest, found = id, seen, true
		}
	}
	if found {
		delete(m.sessions, oldestID)
		m.log.Debugw("evicted idle session at capacity", "session", oldestID.String())
	}
	return found
}

// Get looks up an existing session without creating one.
func (m *SessionManager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

// cleanup drops sessions idle longer than the TTL. Sessions with an export
// in flight are kept.
func (m *SessionManager) cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl).UnixNano()
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Load() < cutoff && !s.Exporting() {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.log.Debugw("expired idle sessions", "removed", removed, "active", len(m.sessions))
	}
	return removed
}
