// Package session maps visitors to their in-memory gate sessions.
//
// The manager keeps a mutex-guarded map keyed by a session cookie. Entries
// are pruned by a background janitor once a visitor has been idle past the
// TTL; a pruned visitor starts over as a brand-new session (fresh trial,
// visit counted again), which is the "connection lifetime" the data model
// asks for. The map lock covers only lookup and insertion; a Session itself
// is owned by one visitor and evaluated synchronously per request.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/haowan-apps/fangboard/internal/idgen"
	"github.com/haowan-apps/fangboard/internal/model"
)

// CookieName is the visitor session cookie.
const CookieName = "fb_session"

// DefaultTTL is how long a session survives without a request.
const DefaultTTL = 30 * time.Minute

// Manager tracks live visitor sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	ttl      time.Duration

	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewManager creates a session manager. A non-positive ttl falls back to
// DefaultTTL.
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[string]*model.Session),
		ttl:      ttl,
	}
}

// Attach returns the visitor's session, creating one (and setting the
// session cookie) when the request carries no cookie or the cookie's session
// has been pruned.
func (m *Manager) Attach(w http.ResponseWriter, r *http.Request, now time.Time) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, err := r.Cookie(CookieName); err == nil {
		if sess, ok := m.sessions[c.Value]; ok {
			sess.LastSeen = now
			return sess, nil
		}
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}
	sess := model.NewSession(id, now)
	m.sessions[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// Get returns the session for an ID, if it is still live.
func (m *Manager) Get(id string) (*model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Prune drops sessions idle past the TTL and returns how many were removed.
func (m *Manager) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor begins periodic pruning at the given interval.
func (m *Manager) StartJanitor(interval time.Duration) {
	m.janitorStop = make(chan struct{})
	m.janitorDone = make(chan struct{})

	go func() {
		defer close(m.janitorDone)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.janitorStop:
				return
			case <-ticker.C:
				m.Prune(time.Now())
			}
		}
	}()
}

// StopJanitor stops the pruning goroutine and waits for it to exit.
func (m *Manager) StopJanitor() {
	if m.janitorStop == nil {
		return
	}
	close(m.janitorStop)
	<-m.janitorDone
}
