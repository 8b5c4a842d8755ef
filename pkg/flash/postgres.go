package flash

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresConfig holds PostgreSQL backend configuration
type PostgresConfig struct {
	ConnectionString string        `env:"PG_CONN_URL"`
	MaxOpenConns     int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns     int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
	MaxConnIdleTime  time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	RetryAttempts    int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
	TTL              time.Duration `env:"PG_FLASH_TTL" envDefault:"1h"`
}

// ConnectPostgres opens a pool and pings it, backing off linearly between
// attempts.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	}
	poolConfig.MinConns = cfg.MaxIdleConns
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	var lastErr error
	for i := range max(cfg.RetryAttempts, 1) {
		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrNotReady, lastErr)
}

// MigratePostgres creates the flash table.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrate(ctx, db, "postgres", "migrations/postgres", log)
}

// PostgresBackend keeps flashes in the ahem_flash table.
type PostgresBackend struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresBackend creates a backend over pool. Flashes older than ttl are
// ignored and removed by Prune; a zero ttl uses one hour.
func NewPostgresBackend(pool *pgxpool.Pool, ttl time.Duration) *PostgresBackend {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &PostgresBackend{pool: pool, ttl: ttl}
}

func (b *PostgresBackend) Take(ctx context.Context, key string) ([]byte, error) {
	var (
		data      []byte
		expiresAt time.Time
	)
	err := b.pool.QueryRow(ctx,
		`DELETE FROM ahem_flash WHERE key = $1 RETURNING data, expires_at`,
		key,
	).Scan(&data, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(expiresAt) {
		return nil, nil
	}
	return data, nil
}

func (b *PostgresBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO ahem_flash (key, data, expires_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, data, time.Now().Add(b.ttl),
	)
	return err
}

// Prune deletes expired flashes.
func (b *PostgresBackend) Prune(ctx context.Context) (int64, error) {
	tag, err := b.pool.Exec(ctx, `DELETE FROM ahem_flash WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Healthcheck pings the database.
func (b *PostgresBackend) Healthcheck(ctx context.Context) error {
	if err := b.pool.Ping(ctx); err != nil {
		return errors.Join(ErrNotReady, err)
	}
	return nil
}
