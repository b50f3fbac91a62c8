package appointment

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// Type classifies the visit.
type Type string

const (
	TypeCheckup      Type = "checkup"
	TypeFollowup     Type = "followup"
	TypeEmergency    Type = "emergency"
	TypeConsultation Type = "consultation"
)

// DateLayout is the calendar-day format used on the wire and in the store.
const DateLayout = "2006-01-02"

// Appointment is the persisted scheduling entity. Patient and doctor names
// are snapshots taken at booking time; a later rename of the canonical
// person does not rewrite history.
type Appointment struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	PatientName string    `json:"patient_name"`
	DoctorID    string    `json:"doctor_id"`
	DoctorName  string    `json:"doctor_name"`
	Department  string    `json:"department"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time"` // slot, e.g. "09:30"
	Type        Type      `json:"type"`
	Status      Status    `json:"status"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAppointmentRequest books a new appointment directly (front desk
// path; patients go through the booking wizard instead).
type CreateAppointmentRequest struct {
	PatientID   string `json:"patient_id" validate:"required"`
	PatientName string `json:"patient_name" validate:"required"`
	DoctorID    string `json:"doctor_id" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required"`
	Type        Type   `json:"type" validate:"required,oneof=checkup followup emergency consultation"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// UpdateAppointmentRequest is the bounded patch allowed while an appointment
// is still editable. Identity and patient linkage are not patchable.
type UpdateAppointmentRequest struct {
	DoctorID *string `json:"doctor_id,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Type     *Type   `json:"type,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}
