package healthtourism

import "errors"

var (
	ErrPatientNotFound       = errors.New("health tourism patient not found")
	ErrHealthTourismInternal = errors.New("internal health tourism error")
)
