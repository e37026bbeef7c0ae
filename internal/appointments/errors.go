package appointments

import "errors"

var (
	// ErrMissingPatient is returned when no patient is referenced
	ErrMissingPatient = errors.New("patientId is required")

	// ErrMissingTime is returned when the time is empty
	ErrMissingTime = errors.New("time is required")

	// ErrInvalidDate is returned when the date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
)
