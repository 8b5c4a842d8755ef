package ahem

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidNotificationType is returned when a type is neither configured
// nor registered with Extend.
var ErrInvalidNotificationType = errors.New("ahem.invalid_notification_type")

// ErrNoBackend is returned by a Provider built without a BackendFunc.
var ErrNoBackend = errors.New("ahem.no_backend")

// invalidType reports typ as not allowed for the operation op.
func invalidType(typ, op string) error {
	if typ == "" {
		return fmt.Errorf("%w: invalid notification type [%s]", ErrInvalidNotificationType, op)
	}
	return fmt.Errorf("%w: %s is an invalid notification type [%s]", ErrInvalidNotificationType, upperFirst(typ), op)
}

func upperFirst(s string) string {
	// Casers carry state and are not shared between goroutines.
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + s[size:]
}
