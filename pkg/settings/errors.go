package settings

import "errors"

var (
	// ErrParse indicates the settings document is not valid YAML or has the wrong shape
	ErrParse = errors.New("settings.parse_failed")

	// ErrRead indicates the settings file could not be read
	ErrRead = errors.New("settings.read_failed")
)
