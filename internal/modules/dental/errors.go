package dental

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrDentalInternal  = errors.New("internal error")
)
