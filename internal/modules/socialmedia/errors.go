package socialmedia

import "errors"

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanInternal = errors.New("internal error")

	// ErrPlanInvalidInput covers validation failures not caught by the
	// request validator, e.g. an assignee from another tenant.
	ErrPlanInvalidInput = errors.New("invalid input for plan operation")
)
