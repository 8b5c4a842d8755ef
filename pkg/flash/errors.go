package flash

import "errors"

var (
	// ErrDecode indicates the flashed blob is not a valid snapshot
	ErrDecode = errors.New("flash.decode_failed")

	// ErrBackend wraps failures of the underlying backend
	ErrBackend = errors.New("flash.backend_failed")

	// ErrNotReady indicates a backend server did not answer within the retry budget
	ErrNotReady = errors.New("flash.backend_not_ready")

	// ErrInvalidURL indicates a connection URL that cannot be parsed
	ErrInvalidURL = errors.New("flash.invalid_url")

	// ErrMigrate indicates the flash table migrations failed
	ErrMigrate = errors.New("flash.migrate_failed")
)
