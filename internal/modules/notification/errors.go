package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNotificationInternal = errors.New("internal error")

	// ErrRosterResolution wraps a failure to resolve the tenant staff roster.
	// It is fatal to the whole dispatch: nothing is sent.
	ErrRosterResolution = errors.New("failed to resolve tenant staff roster")
)
