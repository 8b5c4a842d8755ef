package ahem_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenest/ahem"
	"github.com/codenest/ahem/pkg/flash"
	"github.com/codenest/ahem/pkg/notice"
	"github.com/codenest/ahem/pkg/settings"
)

func clientScope(r *http.Request) string {
	return r.Header.Get("X-Client")
}

func serve(h http.Handler, client string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Client", client)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestProvider_Middleware(t *testing.T) {
	t.Parallel()
	backend := flash.NewMemoryBackend()

	p := ahem.NewProvider(nil, ahem.StaticBackend(backend), ahem.WithScope(clientScope))
	p.Extend("promo", func(n *notice.Notice) { n.WrapperClass("promo") })

	create := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := ahem.MustFromContext(r.Context())
		_, err := f.Make(r.Context(), "promo", ahem.WithMessage("Sale"))
		require.NoError(t, err)
	}))
	show := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := ahem.FromContext(r.Context())
		require.True(t, ok)
		html, err := f.RenderAll(r.Context(), nil)
		require.NoError(t, err)
		_, _ = io.WriteString(w, html)
	}))

	require.Equal(t, http.StatusOK, serve(create, "alice").Code)

	assert.Empty(t, serve(show, "bob").Body.String(), "flashes are scoped per client")
	assert.Contains(t, serve(show, "alice").Body.String(), `class="promo"`)
	assert.Empty(t, serve(show, "alice").Body.String())
}

func TestProvider_Factory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("undecodable flash is dropped", func(t *testing.T) {
		t.Parallel()
		backend := flash.NewMemoryBackend()
		require.NoError(t, backend.Put(ctx, settings.DefaultStoreKey, []byte("{broken")))

		p := ahem.NewProvider(nil, ahem.StaticBackend(backend))
		f, err := p.Factory(ctx, httptest.NewRecorder(), r)
		require.NoError(t, err)
		count, err := f.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("custom store key", func(t *testing.T) {
		t.Parallel()
		backend := flash.NewMemoryBackend()
		p := ahem.NewProvider(settings.Default().With(settings.WithStoreKey("custom")), ahem.StaticBackend(backend))

		f, err := p.Factory(ctx, httptest.NewRecorder(), r)
		require.NoError(t, err)
		_, err = f.Make(ctx, "info", ahem.WithMessage("hi"))
		require.NoError(t, err)

		data, err := backend.Take(ctx, "custom")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("backend errors", func(t *testing.T) {
		t.Parallel()

		_, err := ahem.NewProvider(nil, nil).Factory(ctx, httptest.NewRecorder(), r)
		assert.ErrorIs(t, err, ahem.ErrNoBackend)

		broken := ahem.NewProvider(nil, func(http.ResponseWriter, *http.Request) (flash.Backend, error) {
			return nil, errors.New("no session")
		})
		_, err = broken.Factory(ctx, httptest.NewRecorder(), r)
		assert.ErrorIs(t, err, flash.ErrBackend)

		w := serve(broken.Middleware(http.NotFoundHandler()), "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	_, ok := ahem.FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { ahem.MustFromContext(context.Background()) })

	f, err := ahem.New(context.Background(), nil, nil)
	require.NoError(t, err)
	got, ok := ahem.FromContext(ahem.WithFactory(context.Background(), f))
	assert.True(t, ok)
	assert.Same(t, f, got)
}

func TestProvider_WatchSettings(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ahem.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  first: {}\n"), 0o600))
	initial, err := settings.LoadFile(path)
	require.NoError(t, err)

	p := ahem.NewProvider(initial, ahem.StaticBackend(flash.NewMemoryBackend()))
	assert.True(t, p.Resolver().HasType("first"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- p.WatchSettings(ctx, path, settings.WithStoreKey("scoped"))
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  second: {}\n"), 0o600))

	require.Eventually(t, func() bool {
		return p.Resolver().HasType("second")
	}, 5*time.Second, 50*time.Millisecond)
	assert.Equal(t, "scoped", p.Resolver().StoreKey())

	f, err := p.Factory(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, f.Allowed("second"))
	assert.False(t, f.Allowed("first"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
