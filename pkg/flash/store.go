package flash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codenest/ahem/pkg/container"
	"github.com/codenest/ahem/pkg/logger"
)

// Backend holds flash blobs by key.
type Backend interface {
	// Take returns the blob stored under key and removes it.
	// A missing key returns nil data and no error.
	Take(ctx context.Context, key string) ([]byte, error)

	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, data []byte) error
}

// Store is a container.SnapshotStore over a Backend.
//
// The first Load of a Store takes the blob out of the backend, so a flash is
// readable by exactly one request. Later loads return the latest loaded or
// saved snapshot. A Store belongs to one request and is not safe for
// concurrent use.
type Store struct {
	backend Backend
	key     string
	logger  *slog.Logger

	loaded bool
	data   []byte
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for decode failures.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store persisting under key in backend.
func NewStore(backend Backend, key string, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		key:     key,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the backend key of the store.
func (s *Store) Key() string {
	return s.key
}

// Load returns the flashed snapshot. Every call decodes a fresh copy.
//
// An undecodable blob is dropped: Load reports ErrDecode once and returns an
// empty snapshot afterwards.
func (s *Store) Load(ctx context.Context) (container.Snapshot, error) {
	if !s.loaded {
		data, err := s.backend.Take(ctx, s.key)
		if err != nil {
			return nil, errors.Join(ErrBackend, err)
		}
		s.data, s.loaded = data, true
	}

	snap := container.Snapshot{}
	if len(s.data) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(s.data, &snap); err != nil {
		s.data = nil
		s.logger.WarnContext(ctx, "dropping undecodable flash",
			logger.StoreKey(s.key),
			logger.Error(err),
		)
		return nil, errors.Join(ErrDecode, err)
	}
	return snap, nil
}

// Save replaces the flashed snapshot.
func (s *Store) Save(ctx context.Context, snap container.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return errors.Join(ErrBackend, err)
	}
	s.data, s.loaded = data, true
	return nil
}

// ScopedKey returns the backend key of one client's flash under a shared
// backend.
func ScopedKey(storeKey, scope string) string {
	if scope == "" {
		return storeKey
	}
	return storeKey + ":" + scope
}
