package appointments

import (
	"strings"
	"time"
)

const (
	// StatusConfirmed is the status assigned to bookings made through chat.
	StatusConfirmed = "confirmed"
	// StatusPending is the default status for rows created without one.
	StatusPending = "pending"

	// DefaultReason is used when the patient gave no reason.
	DefaultReason = "General consultation"

	dateLayout = "2006-01-02"
)

// Appointment is a booked clinic visit.
type Appointment struct {
	ID        int64     `json:"id"`
	PatientID int64     `json:"patientId"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Listing is an appointment joined with its patient for admin views.
type Listing struct {
	Appointment
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateAppointmentRequest represents the data required to book a visit.
type CreateAppointmentRequest struct {
	PatientID int64  `json:"patientId"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Reason    string `json:"reason"`
	Status    string `json:"-"`
}

// Validate validates the create appointment request
func (r *CreateAppointmentRequest) Validate() error {
	if r.PatientID <= 0 {
		return ErrMissingPatient
	}
	if strings.TrimSpace(r.Time) == "" {
		return ErrMissingTime
	}
	if _, err := time.Parse(dateLayout, strings.TrimSpace(r.Date)); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (r *CreateAppointmentRequest) normalized() CreateAppointmentRequest {
	out := CreateAppointmentRequest{
		PatientID: r.PatientID,
		Date:      strings.TrimSpace(r.Date),
		Time:      strings.TrimSpace(r.Time),
		Reason:    strings.TrimSpace(r.Reason),
		Status:    strings.TrimSpace(r.Status),
	}
	if out.Status == "" {
		out.Status = StatusPending
	}
	return out
}

// ListFilter narrows admin listings. An empty Date returns the latest rows.
type ListFilter struct {
	Date  string
	Limit int
}

func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return 50
	}
	return f.Limit
}
