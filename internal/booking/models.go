package booking

import (
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// Wizard step numbers. The flow is linear: department and doctor, then date
// and time, then intake, then confirmation.
const (
	StepDoctor  = 1
	StepSlot    = 2
	StepIntake  = 3
	StepConfirm = 4
)

// FormState is everything the wizard has collected so far. Fields fill in as
// the patient moves forward; going back never clears them.
type FormState struct {
	Department string `json:"department"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
}

// Session is one patient's in-progress booking.
type Session struct {
	ID          string                 `json:"id"`
	PatientID   string                 `json:"patient_id"`
	PatientName string                 `json:"patient_name"`
	Step        int                    `json:"step"`
	Form        FormState              `json:"form"`
	Errors      validation.FieldErrors `json:"errors,omitempty"`
	// AppointmentID is set once the session has been submitted successfully.
	AppointmentID string `json:"appointment_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// StartSessionRequest opens a new wizard session for a patient.
type StartSessionRequest struct {
	PatientID   string `json:"patient_id" validate:"required"`
	PatientName string `json:"patient_name" validate:"required"`
}

// UpdateFormRequest patches the collected form state. Absent fields are left
// alone.
type UpdateFormRequest struct {
	Department *string `json:"department,omitempty"`
	DoctorID   *string `json:"doctor_id,omitempty"`
	Date       *string `json:"date,omitempty"`
	Time       *string `json:"time,omitempty"`
	Type       *string `json:"type,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}
