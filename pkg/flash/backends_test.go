package flash_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenest/ahem/pkg/cookie"
	"github.com/codenest/ahem/pkg/flash"
	"github.com/codenest/ahem/pkg/session"
)

func TestCookieBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cookies, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars-long"})
	require.NoError(t, err)

	// Request 1 puts the flash.
	rec := httptest.NewRecorder()
	first := flash.NewCookieBackend(cookies, rec, httptest.NewRequest(http.MethodPost, "/", nil))
	data, err := first.Take(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, data)
	require.NoError(t, first.Put(ctx, "k", []byte("blob")))

	// Request 2 carries the cookie and takes it.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	next := httptest.NewRecorder()
	second := flash.NewCookieBackend(cookies, next, req)
	data, err = second.Take(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "blob", string(data))

	expired := next.Result().Cookies()
	require.Len(t, expired, 1)
	assert.Negative(t, expired[0].MaxAge)
}

func TestCookieBackend_UnreadableCookie(t *testing.T) {
	t.Parallel()

	cookies, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars-long"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "__flash_k", Value: "garbage!"})

	b := flash.NewCookieBackend(cookies, httptest.NewRecorder(), req)
	data, err := b.Take(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSessionBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := session.NewMemoryStore(0)
	s := session.NewSession("tok", time.Hour)
	require.NoError(t, store.Create(ctx, s))

	assertBackendRoundTrip(t, flash.NewSessionBackend(store, s), "k")

	// Writes are persisted in the store.
	require.NoError(t, flash.NewSessionBackend(store, s).Put(ctx, "k", []byte("blob")))
	reloaded, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	data, err := flash.NewSessionBackend(store, reloaded).Take(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "blob", string(data))

	again, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, again.TakeFlash("k"))
}

func TestSQLiteBackend(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := flash.OpenSQLite(ctx, flash.SQLiteConfig{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	assertBackendRoundTrip(t, flash.NewSQLiteBackend(db, time.Hour), "k")

	t.Run("expired flash is ignored", func(t *testing.T) {
		expired := flash.NewSQLiteBackend(db, time.Nanosecond)
		require.NoError(t, expired.Put(ctx, "old", []byte("blob")))
		time.Sleep(5 * time.Millisecond)

		n, err := expired.Prune(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		require.NoError(t, expired.Put(ctx, "old", []byte("blob")))
		time.Sleep(5 * time.Millisecond)
		data, err := expired.Take(ctx, "old")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("migrations are idempotent", func(t *testing.T) {
		path := t.TempDir() + "/flash.db"
		first, err := flash.OpenSQLite(ctx, flash.SQLiteConfig{Path: path}, nil)
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := flash.OpenSQLite(ctx, flash.SQLiteConfig{Path: path}, nil)
		require.NoError(t, err)
		require.NoError(t, second.Close())
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := flash.OpenSQLite(ctx, flash.SQLiteConfig{}, nil)
		assert.ErrorIs(t, err, flash.ErrInvalidURL)
	})
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("AHEM_TEST_REDIS_URL")
	if url == "" {
		t.Skip("AHEM_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	client, err := flash.ConnectRedis(ctx, flash.RedisConfig{
		ConnectionURL:  url,
		RetryAttempts:  1,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	b := flash.NewRedisBackend(client, time.Minute)
	require.NoError(t, b.Healthcheck(ctx))
	assertBackendRoundTrip(t, b, "ahem_test:"+t.Name())
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("AHEM_TEST_PG_URL")
	if url == "" {
		t.Skip("AHEM_TEST_PG_URL not set")
	}
	ctx := context.Background()

	pool, err := flash.ConnectPostgres(ctx, flash.PostgresConfig{ConnectionString: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, flash.MigratePostgres(ctx, pool, nil))

	b := flash.NewPostgresBackend(pool, time.Minute)
	require.NoError(t, b.Healthcheck(ctx))
	assertBackendRoundTrip(t, b, "ahem_test:"+t.Name())

	_, err = b.Prune(ctx)
	require.NoError(t, err)
}

func TestMongoBackend(t *testing.T) {
	url := os.Getenv("AHEM_TEST_MONGO_URL")
	if url == "" {
		t.Skip("AHEM_TEST_MONGO_URL not set")
	}
	ctx := context.Background()

	client, err := flash.ConnectMongo(ctx, flash.MongoConfig{
		ConnectionURL:  url,
		ConnectTimeout: 5 * time.Second,
		MaxPoolSize:    5,
		RetryAttempts:  1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	b := flash.NewMongoBackend(client.Database("ahem_test").Collection("ahem_flash"), time.Minute)
	require.NoError(t, b.EnsureIndexes(ctx))
	require.NoError(t, b.Healthcheck(ctx))
	assertBackendRoundTrip(t, b, t.Name())
}
