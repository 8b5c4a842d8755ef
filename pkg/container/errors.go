package container

import "errors"

var (
	// ErrUnknownType is returned for operations on a type that was never registered
	ErrUnknownType = errors.New("container.unknown_type")

	// ErrNoticeNotFound is returned when no notice exists at the requested type and id
	ErrNoticeNotFound = errors.New("container.notice_not_found")

	// ErrStore wraps failures of the snapshot store
	ErrStore = errors.New("container.store_failed")
)
