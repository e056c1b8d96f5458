package session

import (
	"sync"
	"time"

	"chartdesk/domain/dataset"

	"github.com/google/uuid"
)

// CookieName is the cookie that carries the session id
const CookieName = "chartdesk_session"

// Session is the per-browser state. Table is the immutable base table of the
// last successful upload; Error holds the message of the last failed one.
type Session struct {
	ID        string
	Lang      string
	FileName  string
	Table     *dataset.Table
	Error     string
	UpdatedAt time.Time
}

// HasTable reports whether a table is loaded
func (s Session) HasTable() bool {
	return s.Table != nil
}

// Store keeps sessions in memory and drops the ones idle for longer than ttl.
// Expired sessions are pruned lazily whenever the store is touched.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session with the given locale
func (s *Store) Create(lang string) Session {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess := &Session{ID: id.String(), Lang: lang, UpdatedAt: s.now()}
	s.sessions[sess.ID] = sess
	return *sess
}

// Get returns a copy of the session and refreshes its idle timer
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	sess.UpdatedAt = s.now()
	return *sess, true
}

// Update applies fn to the stored session under the store lock
func (s *Store) Update(id string, fn func(*Session)) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	fn(sess)
	sess.UpdatedAt = s.now()
	return *sess, true
}

// Delete drops a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	return len(s.sessions)
}

// pruneLocked drops sessions idle for longer than the ttl; a zero ttl keeps
// sessions forever
func (s *Store) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
