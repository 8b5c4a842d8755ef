package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codenest/ahem"
	"github.com/codenest/ahem/pkg/config"
	"github.com/codenest/ahem/pkg/cookie"
	"github.com/codenest/ahem/pkg/flash"
	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/session"
)

// Backend names accepted by --backend.
const (
	backendMemory   = "memory"
	backendCookie   = "cookie"
	backendSession  = "session"
	backendRedis    = "redis"
	backendPostgres = "postgres"
	backendSQLite   = "sqlite"
	backendMongo    = "mongo"
)

// backend bundles a flash backend with everything the server needs to run
// and stop it.
type backend struct {
	name       string
	fn         ahem.BackendFunc
	middleware []func(http.Handler) http.Handler
	checks     []func(context.Context) error
	closers    []func() error
	prune      func(context.Context) (int64, error)

	// shared backends hold every client's flash, so keys are scoped by
	// client id.
	shared bool
}

func (b *backend) close(log *slog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Error("close flash backend", logger.Backend(b.name), logger.Error(err))
		}
	}
}

// openBackend connects the named backend, reading its configuration from the
// environment.
func openBackend(ctx context.Context, name string, log *slog.Logger) (*backend, error) {
	b := &backend{name: name}

	switch name {
	case backendMemory:
		b.fn = ahem.StaticBackend(flash.NewMemoryBackend())
		b.shared = true

	case backendCookie:
		cookies, err := cookieManager()
		if err != nil {
			return nil, err
		}
		b.fn = func(w http.ResponseWriter, r *http.Request) (flash.Backend, error) {
			return flash.NewCookieBackend(cookies, w, r), nil
		}

	case backendSession:
		cookies, err := cookieManager()
		if err != nil {
			return nil, err
		}
		var cfg session.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		useSessions(b, session.NewFromConfig(cfg, session.WithCookieManager(cookies)))

	case backendRedis:
		var cfg flash.RedisConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := flash.ConnectRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		rb := flash.NewRedisBackend(client, cfg.TTL)
		b.fn = ahem.StaticBackend(rb)
		b.checks = append(b.checks, rb.Healthcheck)
		b.closers = append(b.closers, client.Close)
		b.shared = true

	case backendPostgres:
		var cfg flash.PostgresConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := flash.ConnectPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := flash.MigratePostgres(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		pb := flash.NewPostgresBackend(pool, cfg.TTL)
		b.fn = ahem.StaticBackend(pb)
		b.checks = append(b.checks, pb.Healthcheck)
		b.closers = append(b.closers, func() error { pool.Close(); return nil })
		b.prune = pb.Prune
		b.shared = true

	case backendSQLite:
		var cfg flash.SQLiteConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		db, err := flash.OpenSQLite(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		sb := flash.NewSQLiteBackend(db, cfg.TTL)
		b.fn = ahem.StaticBackend(sb)
		b.checks = append(b.checks, db.PingContext)
		b.closers = append(b.closers, db.Close)
		b.prune = sb.Prune
		b.shared = true

	case backendMongo:
		var cfg flash.MongoConfig
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := flash.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		mb := flash.NewMongoBackend(client.Database(cfg.Database).Collection(cfg.Collection), cfg.TTL)
		if err := mb.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		b.fn = ahem.StaticBackend(mb)
		b.checks = append(b.checks, mb.Healthcheck)
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })
		b.shared = true

	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	return b, nil
}

// useSessions keeps each client's flash in its server-side session. The
// session middleware runs before the notice middleware, so every request
// reaching the backend carries a session.
func useSessions(b *backend, sessions *session.Manager) {
	if c, ok := sessions.Store().(io.Closer); ok {
		b.closers = append(b.closers, c.Close)
	}
	b.middleware = append(b.middleware, sessions.Middleware)
	b.fn = func(w http.ResponseWriter, r *http.Request) (flash.Backend, error) {
		return flash.NewSessionBackend(sessions.Store(), session.MustFromContext(r.Context())), nil
	}
}

func cookieManager() (*cookie.Manager, error) {
	var cfg cookie.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return cookie.NewFromConfig(cfg)
}

// pruneLoop deletes expired rows until ctx is done. Backends without expiry
// tables return immediately.
func (b *backend) pruneLoop(ctx context.Context, every time.Duration, log *slog.Logger) {
	if b.prune == nil || every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := b.prune(ctx)
			if err != nil {
				log.Warn("prune expired flashes", logger.Backend(b.name), logger.Error(err))
				continue
			}
			if n > 0 {
				log.Debug("pruned expired flashes", logger.Backend(b.name), logger.Count(int(n)))
			}
		}
	}
}
