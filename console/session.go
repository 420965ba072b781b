package console

import (
	"sync"
	"time"

	"github.com/rpupo63/blog-admin-console/models"
)

// SessionStore holds the current session and tells subscribers whenever it
// changes. A nil session means nobody is signed in.
type SessionStore struct {
	mu        sync.Mutex
	session   *models.Session
	listeners map[int]func(*models.Session)
	nextID    int
	now       func() time.Time

	// only one goroutine delivers at a time; changes made meanwhile set
	// pending and are delivered by that goroutine before it returns
	delivering bool
	pending    bool
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		listeners: make(map[int]func(*models.Session)),
		now:       time.Now,
	}
}

// Subscribe registers fn for every session change and returns a function
// that removes it again.
func (s *SessionStore) Subscribe(fn func(*models.Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *SessionStore) Set(session *models.Session) {
	if session.Expired(s.now()) {
		session = nil
	}
	s.replace(session)
}

func (s *SessionStore) Clear() {
	s.replace(nil)
}

// Current returns the active session. An expired session is dropped and the
// change is published before nil is returned.
func (s *SessionStore) Current() *models.Session {
	s.mu.Lock()
	session := s.session
	if session == nil || !session.Expired(s.now()) {
		s.mu.Unlock()
		return session
	}
	s.session = nil
	s.mu.Unlock()

	s.publish()
	return nil
}

func (s *SessionStore) replace(session *models.Session) {
	s.mu.Lock()
	if s.session == nil && session == nil {
		s.mu.Unlock()
		return
	}
	s.session = session
	s.mu.Unlock()

	s.publish()
}

// publish delivers the store's value as it is at delivery time, so the last
// value every listener sees is the one Current returns. Listeners may call
// back into the store, including Set and Clear.
func (s *SessionStore) publish() {
	s.mu.Lock()
	if s.delivering {
		s.pending = true
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for {
		s.pending = false
		session := s.session
		listeners := make([]func(*models.Session), 0, len(s.listeners))
		for _, fn := range s.listeners {
			listeners = append(listeners, fn)
		}
		s.mu.Unlock()

		for _, fn := range listeners {
			fn(session)
		}

		s.mu.Lock()
		if !s.pending {
			s.delivering = false
			s.mu.Unlock()
			return
		}
	}
}
