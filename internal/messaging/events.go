package messaging

import (
	"fmt"
	"time"
)

// Event routing keys as constants
const (
	// Appointment lifecycle events
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentConfirmed = "appointment.confirmed"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"

	// Medical record events
	EventMedicalRecordCreated   = "medical_record.created"
	EventMedicalRecordUpdated   = "medical_record.updated"
	EventMedicalRecordCompleted = "medical_record.completed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// AppointmentEvent carries the appointment state after a lifecycle change.
type AppointmentEvent struct {
	BaseEvent
	Data AppointmentEventData `json:"data"`
}

type AppointmentEventData struct {
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	PatientName   string    `json:"patient_name"`
	DoctorID      string    `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name"`
	Department    string    `json:"department"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	Type          string    `json:"type"`
	OldStatus     string    `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// MedicalRecordEvent carries record identity plus its linkage, never the
// clinical payload.
type MedicalRecordEvent struct {
	BaseEvent
	Data MedicalRecordEventData `json:"data"`
}

type MedicalRecordEventData struct {
	RecordID      string    `json:"record_id"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	Status        string    `json:"status"`
	ChangedAt     time.Time `json:"changed_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     fmt.Sprintf("%d", time.Now().UnixNano()),
		Timestamp:   time.Now().UTC(),
		ServiceName: "frontdesk-service",
	}
}
