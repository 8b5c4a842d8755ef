// Package ahem collects transient notices (success, warning, error and any
// custom type) during a request, flashes them to the next request and renders
// them as HTML.
//
// A Factory is built per request over a container.Container whose snapshot
// store is usually a flash.Store. Types must be declared in the settings
// (see pkg/settings) or registered with Extend; using any other type fails
// with ErrInvalidNotificationType before anything is changed.
//
// Basic usage:
//
//	f, err := ahem.New(ctx, container.New(flash.NewStore(backend, key)), settings.Default())
//	if err != nil {
//		return err
//	}
//	f.Make(ctx, "success", ahem.WithMessage("Profile saved"))
//
//	// next request
//	html, err := f.RenderAll(ctx, nil) // renders and clears
//
// Per-type accessors avoid repeating the type:
//
//	f.For("error").Make(ctx, ahem.WithKeyedMessage("email", "is taken"))
//	f.For("error").AddTo(ctx, "0", "name", "is required")
//
// Custom types:
//
//	f.Extend("promo", func(n *notice.Notice) {
//		n.Wrapper("section", "promo").BeforeMessage("")
//	})
//
// HTTP integration:
//
// Provider builds one Factory per request from a BackendFunc and stores it in
// the request context:
//
//	p := ahem.NewProvider(resolver, ahem.StaticBackend(flash.NewRedisBackend(client, time.Hour)),
//		ahem.WithScope(clientID),
//	)
//	r.Use(p.Middleware)
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		f := ahem.MustFromContext(r.Context())
//		...
//	}
//
// Factory.Component renders notices inside templ templates and PatchNotices
// streams them to a DataStar client.
package ahem
