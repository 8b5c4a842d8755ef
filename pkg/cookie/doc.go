// Package cookie stores small encrypted blobs in HTTP cookies, including
// single-use flash values.
//
// A Manager is built from one or more secrets of at least 32 bytes. Values
// are sealed with AES-256-GCM using the first secret and a random nonce
// prepended to the ciphertext; decryption tries every secret so old cookies
// stay readable while secrets rotate.
//
//	man, err := cookie.New([]string{os.Getenv("COOKIE_SECRETS")})
//	if err != nil {
//		return err
//	}
//	_ = man.PutFlash(w, "ahem_notifications", data)
//	data, err = man.TakeFlash(w, r, "ahem_notifications")
//
// TakeFlash expires the cookie it reads. A request that both takes and puts
// the same flash sends two Set-Cookie headers for one name; browsers apply
// them in order so the put wins.
//
// Cookie values are capped at MaxValueSize; Set reports ErrTooLarge instead
// of emitting a cookie the browser would drop.
//
// Config carries env tags for github.com/caarlos0/env; only non-zero fields
// are applied by NewFromConfig.
package cookie
