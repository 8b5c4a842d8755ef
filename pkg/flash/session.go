package flash

import (
	"context"

	"github.com/codenest/ahem/pkg/session"
)

// SessionBackend keeps the flash inside a server-side session and persists
// the session after every change.
type SessionBackend struct {
	store   session.Store
	session *session.Session
}

func NewSessionBackend(store session.Store, s *session.Session) *SessionBackend {
	return &SessionBackend{store: store, session: s}
}

func (b *SessionBackend) Take(ctx context.Context, key string) ([]byte, error) {
	data := b.session.TakeFlash(key)
	if data == nil {
		return nil, nil
	}
	if err := b.store.Update(ctx, b.session); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *SessionBackend) Put(ctx context.Context, key string, data []byte) error {
	b.session.PutFlash(key, data)
	return b.store.Update(ctx, b.session)
}
