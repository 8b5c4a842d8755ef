package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/codenest/ahem"
	"github.com/codenest/ahem/pkg/httpserver"
	"github.com/codenest/ahem/pkg/logger"
)

const (
	clientCookie    = "ahem_client"
	noticesSelector = "#notices"
)

type clientKey struct{}

func newRouter(p *ahem.Provider, b *backend, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, b.checks...))

	r.Group(func(r chi.Router) {
		r.Use(b.middleware...)
		if b.shared {
			r.Use(identifyClient)
		}
		r.Use(p.Middleware)

		r.Get("/", showNotices)
		r.Post("/notices/{type}", createNotice(log))
		r.Get("/notices/stream", streamNotices(log))
		r.Get("/notices.json", exportNotices)
	})
	return r
}

// identifyClient gives every browser a random id cookie so shared backends
// keep one flash per client.
func identifyClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(clientCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     clientCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), clientKey{}, id)))
	})
}

func clientScope(r *http.Request) string {
	id, _ := r.Context().Value(clientKey{}).(string)
	return id
}

func showNotices(w http.ResponseWriter, r *http.Request) {
	f := ahem.MustFromContext(r.Context())
	if ahem.IsDataStar(r) {
		if err := ahem.PatchNotices(w, r, f, noticesSelector); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page(f).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// createNotice flashes a notice from the form and redirects back to the
// page, which shows it once.
func createNotice(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := ahem.MustFromContext(r.Context())
		typ := chi.URLParam(r, "type")
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		field := r.PostFormValue("field")
		var opts []ahem.MakeOption
		for _, m := range r.PostForm["message"] {
			if m == "" {
				continue
			}
			if field != "" {
				opts = append(opts, ahem.WithKeyedMessage(field, m))
			} else {
				opts = append(opts, ahem.WithMessage(m))
			}
		}
		if h := r.PostFormValue("heading"); h != "" {
			opts = append(opts, ahem.WithHeading(h))
		}

		n, err := f.Make(r.Context(), typ, opts...)
		if err != nil {
			writeError(w, err)
			return
		}
		log.InfoContext(r.Context(), "notice flashed", logger.NoticeType(typ), logger.NoticeID(n.ID()))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func streamNotices(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := ahem.MustFromContext(r.Context())
		if err := ahem.PatchNotices(w, r, f, noticesSelector, r.URL.Query()["type"]...); err != nil {
			log.WarnContext(r.Context(), "stream notices", logger.Error(err))
			writeError(w, err)
		}
	}
}

// exportNotices returns the pending notices as JSON and flashes them again,
// so the next request still sees them.
func exportNotices(w http.ResponseWriter, r *http.Request) {
	f := ahem.MustFromContext(r.Context())
	data, err := f.JSON(r.URL.Query()["type"]...)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := f.Container().StoreAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ahem.ErrInvalidNotificationType) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// page renders the demo page. Notices are rendered, and so consumed, inside
// the notices container.
func page(f *ahem.Factory) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html><head><meta charset="utf-8"><title>ahem</title>`+
			`<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"></script>`+
			`</head><body><div id="notices">`); err != nil {
			return err
		}
		if err := f.Component().Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div><button data-on-click="@get('/notices/stream')">Refresh</button>`); err != nil {
			return err
		}
		for _, typ := range f.AllowedTypes() {
			action := templ.EscapeString("/notices/" + typ)
			label := templ.EscapeString(typ)
			if _, err := io.WriteString(w, `<form method="post" action="`+action+`">`+
				`<input name="heading" placeholder="heading">`+
				`<input name="message" placeholder="message">`+
				`<button type="submit">`+label+`</button></form>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}
