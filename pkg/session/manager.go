package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/codenest/ahem/pkg/cookie"
)

// Manager issues anonymous sessions and tracks them with an encrypted token
// cookie.
type Manager struct {
	store   Store
	cookies *cookie.Manager
	config  Config
}

// New creates a new session manager with the given options.
// Panics without a cookie manager.
func New(opts ...Option) *Manager {
	m := &Manager{config: DefaultConfig()}

	for _, opt := range opts {
		opt(m)
	}

	if m.cookies == nil {
		panic("session: cookie manager is required")
	}
	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	return m
}

// Store returns the store sessions are persisted in.
func (m *Manager) Store() Store {
	return m.store
}

// Ensure returns the request's session, creating a new one when the token is
// missing, unknown or expired.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	if err == nil {
		return session, nil
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	session = NewSession(token, m.config.IdleTimeout)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	opts := []cookie.Option{cookie.WithMaxAge(int(m.config.IdleTimeout.Seconds()))}
	if m.config.SecureCookies {
		opts = append(opts, cookie.WithSecure(true))
	}
	if err := m.cookies.SetEncrypted(w, m.config.CookieName, []byte(token), opts...); err != nil {
		_ = m.store.Delete(ctx, token)
		return nil, err
	}

	return session, nil
}

// Get retrieves the existing session of the request
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.cookies.GetEncrypted(r, m.config.CookieName)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := m.store.Get(ctx, string(token))
	if err != nil {
		return nil, err
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Save persists changes made to session
func (m *Manager) Save(ctx context.Context, session *Session) error {
	return m.store.Update(ctx, session)
}

// Destroy deletes the session and expires its cookie
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if token, err := m.cookies.GetEncrypted(r, m.config.CookieName); err == nil {
		_ = m.store.Delete(ctx, string(token))
	}
	m.cookies.Delete(w, m.config.CookieName)
	return nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
