package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenest/ahem/pkg/cookie"
	"github.com/codenest/ahem/pkg/session"
)

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *session.MemoryStore) {
	t.Helper()
	cookies, err := cookie.New([]string{"this-is-a-very-long-secret-key-32-chars-long"})
	require.NoError(t, err)

	store := session.NewMemoryStore(0)
	opts = append([]session.Option{session.WithCookieManager(cookies), session.WithStore(store)}, opts...)
	return session.New(opts...), store
}

func withCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_Ensure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newManager(t)

	rec := httptest.NewRecorder()
	s, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)
	assert.Equal(t, 1, store.Len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NotEqual(t, s.Token, cookies[0].Value)

	next := httptest.NewRecorder()
	same, err := m.Ensure(ctx, next, withCookies(rec))
	require.NoError(t, err)
	assert.Equal(t, s.Token, same.Token)
	assert.Empty(t, next.Result().Cookies())
	assert.Equal(t, 1, store.Len())
}

func TestManager_SaveAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, _ := newManager(t, session.WithCookieName("ahem_sid"), session.WithIdleTimeout(time.Minute))

	rec := httptest.NewRecorder()
	s, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "ahem_sid", rec.Result().Cookies()[0].Name)
	assert.Equal(t, 60, rec.Result().Cookies()[0].MaxAge)

	s.PutFlash("notices", []byte("blob"))
	require.NoError(t, m.Save(ctx, s))

	got, err := m.Get(ctx, withCookies(rec))
	require.NoError(t, err)
	assert.Equal(t, []byte("blob"), got.TakeFlash("notices"))

	_, err = m.Get(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m, store := newManager(t)

	rec := httptest.NewRecorder()
	_, err := m.Ensure(ctx, rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	out := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, out, withCookies(rec)))
	assert.Zero(t, store.Len())
	assert.Negative(t, out.Result().Cookies()[0].MaxAge)
}

func TestManager_Middleware(t *testing.T) {
	t.Parallel()
	m, _ := newManager(t)

	var seen *session.Session
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = session.MustFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)

	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(context.Background()) })
}

func TestNew_RequiresCookieManager(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { session.New() })
}
