package patients

import "errors"

var (
	// ErrInvalidName is returned when the name is missing
	ErrInvalidName = errors.New("patient name is required")

	// ErrInvalidPhone is returned when the phone is not a 10-11 digit number
	ErrInvalidPhone = errors.New("patient phone must be 10 or 11 digits")

	// ErrPatientNotFound is returned when no patient matches the lookup
	ErrPatientNotFound = errors.New("patient not found")

	// ErrDuplicatePhone is returned when a patient with the phone already exists
	ErrDuplicatePhone = errors.New("patient with this phone already exists")
)
