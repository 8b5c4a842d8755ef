package flash

import (
	"context"
	"errors"
	"net/http"

	"github.com/codenest/ahem/pkg/cookie"
)

// CookieBackend keeps the flash in an encrypted cookie of the current
// request. Writes must happen before the response body starts; a flash put
// afterwards never reaches the client.
type CookieBackend struct {
	cookies *cookie.Manager
	w       http.ResponseWriter
	r       *http.Request
}

func NewCookieBackend(cookies *cookie.Manager, w http.ResponseWriter, r *http.Request) *CookieBackend {
	return &CookieBackend{cookies: cookies, w: w, r: r}
}

// Take reads and expires the flash cookie. Cookies that cannot be decrypted
// are treated as missing.
func (b *CookieBackend) Take(_ context.Context, key string) ([]byte, error) {
	data, err := b.cookies.TakeFlash(b.w, b.r, key)
	if errors.Is(err, cookie.ErrDecryptionFailed) || errors.Is(err, cookie.ErrInvalidFormat) {
		return nil, nil
	}
	return data, err
}

func (b *CookieBackend) Put(_ context.Context, key string, data []byte) error {
	return b.cookies.PutFlash(b.w, key, data)
}
