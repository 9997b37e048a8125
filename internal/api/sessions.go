package api

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hanlin/lexibook/internal/chapterlist"
	"github.com/hanlin/lexibook/internal/models"
)

// Session is one live book-page instance: its controller plus the buffer
// collecting the signals the controller emits during a request.
type Session struct {
	Controller *chapterlist.Controller
	Signals    *SignalBuffer
	lastSeen   time.Time
}

// SessionStore holds the per-page controllers. The mini-app sends no
// navigation-away event we can rely on, so sessions also expire on idleness.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func (s *SessionStore) Create(controller *chapterlist.Controller, signals *SignalBuffer) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	id := newSessionID()
	s.sessions[id] = &Session{
		Controller: controller,
		Signals:    signals,
		lastSeen:   time.Now(),
	}
	return id
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess, true
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) pruneLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// SignalBuffer implements chapterlist.Presenter by collecting signals until
// the handler drains them into the response.
type SignalBuffer struct {
	mu         sync.Mutex
	locked     *models.Chapter
	navigation *models.NavigationIntent
	toasts     []string
}

// Signals is the drained form, shaped for the JSON response.
type Signals struct {
	LockedNotice *models.Chapter          `json:"locked_notice,omitempty"`
	Navigation   *models.NavigationIntent `json:"navigation,omitempty"`
	Toasts       []string                 `json:"toasts,omitempty"`
}

func (b *SignalBuffer) ShowLockedNotice(ch models.Chapter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = &ch
}

func (b *SignalBuffer) Navigate(intent models.NavigationIntent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.navigation = &intent
}

func (b *SignalBuffer) NotifyError(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.toasts = append(b.toasts, message)
}

// Drain returns the collected signals and resets the buffer.
func (b *SignalBuffer) Drain() Signals {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := Signals{
		LockedNotice: b.locked,
		Navigation:   b.navigation,
		Toasts:       b.toasts,
	}
	b.locked = nil
	b.navigation = nil
	b.toasts = nil
	return out
}
