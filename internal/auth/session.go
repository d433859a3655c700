package auth

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const flashCookie = "warbler_flash"

// SessionManager correlates opaque session tokens with user IDs. Tokens
// live in memory only; the relational tables are the sole persisted state.
type SessionManager struct {
	cookieName string

	mu       sync.RWMutex
	sessions map[string]int64
}

// NewSessionManager creates a session manager issuing tokens under the
// given cookie name
func NewSessionManager(cookieName string) *SessionManager {
	return &SessionManager{
		cookieName: cookieName,
		sessions:   make(map[string]int64),
	}
}

// Login issues a fresh opaque token for the user and sets the session cookie
func (m *SessionManager) Login(w http.ResponseWriter, userID int64) string {
	token := uuid.NewString()

	m.mu.Lock()
	m.sessions[token] = userID
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// UserID resolves the request's session cookie to a user ID.
// The second return is false for anonymous requests.
func (m *SessionManager) UserID(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	m.mu.RLock()
	userID, ok := m.sessions[cookie.Value]
	m.mu.RUnlock()
	return userID, ok
}

// Logout destroys the request's session and expires the cookie
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		m.mu.Lock()
		delete(m.sessions, cookie.Value)
		m.mu.Unlock()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Revoke destroys every session belonging to the user. Used when the
// account itself is deleted.
func (m *SessionManager) Revoke(userID int64) {
	m.mu.Lock()
	for token, id := range m.sessions {
		if id == userID {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
}

// Flash queues a one-shot notice for the next rendered page. Notices ride
// in a cookie so they survive redirects for anonymous callers too.
func Flash(w http.ResponseWriter, r *http.Request, message string) {
	messages := []string{message}
	if cookie, err := r.Cookie(flashCookie); err == nil && cookie.Value != "" {
		if prev, err := url.QueryUnescape(cookie.Value); err == nil {
			messages = append(strings.Split(prev, "\n"), message)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(strings.Join(messages, "\n")),
		Path:     "/",
		HttpOnly: true,
	})
}

// PopFlashes returns queued notices and clears them
func PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	return strings.Split(value, "\n")
}
