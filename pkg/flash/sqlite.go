package flash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteConfig holds SQLite backend configuration
type SQLiteConfig struct {
	Path string        `env:"SQLITE_PATH" envDefault:"ahem.db"` // ":memory:" for a private in-memory database
	TTL  time.Duration `env:"SQLITE_FLASH_TTL" envDefault:"1h"`
}

// OpenSQLite opens the database at path, applies the flash migrations and
// returns the handle.
func OpenSQLite(ctx context.Context, cfg SQLiteConfig, log *slog.Logger) (*sql.DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrInvalidURL)
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.Join(ErrNotReady, err)
	}
	// One connection: writers are serialized and ":memory:" stays one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrNotReady, err)
	}
	_, _ = db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
	_, _ = db.ExecContext(ctx, "PRAGMA busy_timeout = 5000")

	if err := migrate(ctx, db, "sqlite3", "migrations/sqlite", log); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SQLiteBackend keeps flashes in the ahem_flash table of a SQLite database.
type SQLiteBackend struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSQLiteBackend creates a backend over db. A zero ttl uses one hour.
func NewSQLiteBackend(db *sql.DB, ttl time.Duration) *SQLiteBackend {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SQLiteBackend{db: db, ttl: ttl}
}

func (b *SQLiteBackend) Take(ctx context.Context, key string) ([]byte, error) {
	var (
		data      []byte
		expiresAt int64
	)
	err := b.db.QueryRowContext(ctx,
		`DELETE FROM ahem_flash WHERE key = ? RETURNING data, expires_at`,
		key,
	).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().UnixMilli() > expiresAt {
		return nil, nil
	}
	return data, nil
}

func (b *SQLiteBackend) Put(ctx context.Context, key string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO ahem_flash (key, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, data, time.Now().Add(b.ttl).UnixMilli(),
	)
	return err
}

// Prune deletes expired flashes.
func (b *SQLiteBackend) Prune(ctx context.Context) (int64, error) {
	res, err := b.db.ExecContext(ctx, `DELETE FROM ahem_flash WHERE expires_at < ?`, time.Now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
