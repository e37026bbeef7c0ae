package patients

import (
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^\d{10,11}$`)

// Patient is a clinic patient identified by phone number.
type Patient struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	FirstVisit *time.Time `json:"firstVisit"`
}

// CreatePatientRequest holds the fields needed to register a patient.
type CreatePatientRequest struct {
	Name       string
	Phone      string
	FirstVisit *time.Time
}

// Validate validates the create patient request
func (r *CreatePatientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if !phonePattern.MatchString(strings.TrimSpace(r.Phone)) {
		return ErrInvalidPhone
	}
	return nil
}
