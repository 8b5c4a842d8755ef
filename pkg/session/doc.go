// Package session provides anonymous server-side sessions tracked by an
// encrypted token cookie.
//
// A Manager issues sessions on demand and persists them in a Store. A
// concurrent in-memory store ships with the package; any datastore that
// satisfies Store can be plugged in. Besides arbitrary values a Session holds
// flash blobs: PutFlash replaces one, TakeFlash returns and removes it.
//
//	cookies, _ := cookie.New([]string{secret})
//	manager := session.New(session.WithCookieManager(cookies))
//
//	mux.Handle("/", manager.Middleware(handler))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		sess := session.MustFromContext(r.Context())
//		sess.PutFlash("notices", data)
//		_ = manager.Save(r.Context(), sess)
//	}
//
// Stores copy sessions on Create, Get and Update, so changes to a session
// value are only visible to other requests after Save.
//
// Errors: ErrSessionNotFound for a missing or unreadable token,
// ErrSessionExpired for a session past its expiry and ErrInvalidSession for a
// session without a token.
package session
