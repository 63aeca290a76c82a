package flow

import (
	"sync"
	"time"

	"github.com/jenli/leadbot/internal/i18n"
)

// Answers is the closed set of collected intake fields. Optional answers
// stay nil until the user provides them.
type Answers struct {
	Service    string
	Platform   *string
	Goal       string
	Budget     *string
	StoreLinks string
	Email      *string
	Notes      *string
}

// Session is the per-chat conversation state.
type Session struct {
	ID        string
	Stage     Stage
	Lang      i18n.Lang
	Answers   Answers
	UserID    int64
	Username  string
	Name      string
	Source    string
	CreatedAt time.Time
}

// Store keeps sessions in memory. Mutations for one session are
// serialized by the store lock; sessions do not survive a restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns a copy of the session and whether it exists.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// GetOrCreate returns a copy of the session, creating it at AwaitLanguage
// when absent.
func (s *Store) GetOrCreate(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			ID:        id,
			Stage:     AwaitLanguage,
			Lang:      i18n.EN,
			CreatedAt: time.Now().UTC(),
		}
		s.sessions[id] = sess
	}
	return *sess
}

// Update applies mutate to the session under the store lock. The session
// is created first when absent.
func (s *Store) Update(id string, mutate func(*Session)) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{
			ID:        id,
			Stage:     AwaitLanguage,
			Lang:      i18n.EN,
			CreatedAt: time.Now().UTC(),
		}
		s.sessions[id] = sess
	}
	mutate(sess)
	return *sess
}

// Clear removes the session.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
