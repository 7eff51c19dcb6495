package tenant

import "errors"

var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantInternal   = errors.New("internal tenant error")
	ErrInviteNotFound   = errors.New("invite not found")
	ErrInviteExpired    = errors.New("invite expired")
	ErrInviteUsed       = errors.New("invite already used")
	ErrLogoUploadFailed = errors.New("failed to upload tenant logo")
)
