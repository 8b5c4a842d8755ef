package session

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Session is an anonymous server-side session carrying arbitrary values and
// single-use flash blobs.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	Token     string            `json:"token"`
	Data      map[string]any    `json:"data,omitempty"`
	Flash     map[string][]byte `json:"flash,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSession creates a new session with the given parameters
func NewSession(token string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Token:     token,
		Data:      make(map[string]any),
		Flash:     make(map[string][]byte),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// Set stores a value in session data
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// PutFlash replaces the flash blob stored under key.
func (s *Session) PutFlash(key string, data []byte) {
	if s == nil {
		return
	}
	if s.Flash == nil {
		s.Flash = make(map[string][]byte)
	}
	s.Flash[key] = data
}

// TakeFlash returns the flash blob stored under key and removes it.
func (s *Session) TakeFlash(key string) []byte {
	if s == nil || s.Flash == nil {
		return nil
	}
	data, ok := s.Flash[key]
	if !ok {
		return nil
	}
	delete(s.Flash, key)
	return data
}

// Clone returns a copy that shares no maps with s.
func (s *Session) Clone() *Session {
	c := *s
	if s.Data != nil {
		c.Data = maps.Clone(s.Data)
	}
	if s.Flash != nil {
		c.Flash = make(map[string][]byte, len(s.Flash))
		for k, v := range s.Flash {
			c.Flash[k] = append([]byte(nil), v...)
		}
	}
	return &c
}
