package ahem

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/codenest/ahem/pkg/container"
	"github.com/codenest/ahem/pkg/flash"
	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/notice"
	"github.com/codenest/ahem/pkg/settings"
)

// BackendFunc returns the flash backend serving one request.
type BackendFunc func(w http.ResponseWriter, r *http.Request) (flash.Backend, error)

// StaticBackend serves every request from the same backend.
func StaticBackend(b flash.Backend) BackendFunc {
	return func(http.ResponseWriter, *http.Request) (flash.Backend, error) {
		return b, nil
	}
}

// Provider builds one Factory per request. It is safe for concurrent use.
type Provider struct {
	resolver atomic.Pointer[settings.Resolver]
	backend  BackendFunc
	scope    func(*http.Request) string
	logger   *slog.Logger

	mu         sync.RWMutex
	extensions []extension
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithScope derives a per-client suffix for the store key. Shared backends
// such as Redis or SQL tables need one; cookie and session backends do not.
func WithScope(fn func(*http.Request) string) ProviderOption {
	return func(p *Provider) {
		p.scope = fn
	}
}

// WithProviderLogger sets the logger passed down to factories and stores.
func WithProviderLogger(l *slog.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a Provider. A nil resolver uses the built-in settings.
func NewProvider(r *settings.Resolver, backend BackendFunc, opts ...ProviderOption) *Provider {
	if r == nil {
		r = settings.Default()
	}
	p := &Provider{
		backend: backend,
		logger:  slog.Default(),
	}
	p.resolver.Store(r)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolver returns the current settings.
func (p *Provider) Resolver() *settings.Resolver {
	return p.resolver.Load()
}

// SetResolver replaces the settings used by factories built afterwards.
func (p *Provider) SetResolver(r *settings.Resolver) {
	if r != nil {
		p.resolver.Store(r)
	}
}

// Extend registers a custom type applied to every Factory built afterwards.
func (p *Provider) Extend(typ string, configure func(*notice.Notice)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extensions = append(p.extensions, extension{typ: typ, configure: configure})
}

// Factory builds the Factory of one request and boots it from the request's
// flash. A flash that cannot be decoded is dropped and the factory starts
// empty.
func (p *Provider) Factory(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Factory, error) {
	if p.backend == nil {
		return nil, ErrNoBackend
	}
	backend, err := p.backend(w, r)
	if err != nil {
		return nil, errors.Join(flash.ErrBackend, err)
	}

	res := p.resolver.Load()
	key := res.StoreKey()
	if p.scope != nil {
		key = flash.ScopedKey(key, p.scope(r))
	}
	store := flash.NewStore(backend, key, flash.WithLogger(p.logger))

	p.mu.RLock()
	opts := make([]Option, 0, len(p.extensions)+1)
	opts = append(opts, WithLogger(p.logger))
	for _, ext := range p.extensions {
		opts = append(opts, WithExtension(ext.typ, ext.configure))
	}
	p.mu.RUnlock()

	build := func() (*Factory, error) {
		c := container.New(store, container.WithLogger(p.logger))
		return New(ctx, c, res, opts...)
	}
	f, err := build()
	if errors.Is(err, flash.ErrDecode) {
		p.logger.WarnContext(ctx, "dropped unreadable flash", logger.StoreKey(key), logger.Error(err))
		f, err = build()
	}
	return f, err
}

// Middleware puts a Factory into every request context.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, err := p.Factory(r.Context(), w, r)
		if err != nil {
			p.logger.ErrorContext(r.Context(), "failed to build notice factory", logger.Error(err))
			http.Error(w, "Notice store error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithFactory(r.Context(), f)))
	})
}

// WatchSettings reloads the settings file at path on change and swaps it in
// for factories built afterwards. opts are applied to every reloaded
// resolver. It blocks until ctx is done.
func (p *Provider) WatchSettings(ctx context.Context, path string, opts ...settings.Option) error {
	return settings.Watch(ctx, path,
		func(r *settings.Resolver) {
			p.resolver.Store(r.With(opts...))
			p.logger.InfoContext(ctx, "notice settings reloaded", slog.String("path", path))
		},
		func(err error) {
			p.logger.WarnContext(ctx, "notice settings reload failed", slog.String("path", path), logger.Error(err))
		},
	)
}
