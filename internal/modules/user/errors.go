package user

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserInternal = errors.New("internal error")

	// ErrEmailTaken is returned on sign-up or invite acceptance when the
	// email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is deactivated")
)
