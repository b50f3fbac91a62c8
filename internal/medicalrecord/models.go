package medicalrecord

import "time"

// Status is the record lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// VitalSigns are the optional measurements taken at the visit. Free-form
// strings: units and notation are up to clinical staff.
type VitalSigns struct {
	Temperature     string `json:"temperature,omitempty"`
	BloodPressure   string `json:"blood_pressure,omitempty"`
	HeartRate       string `json:"heart_rate,omitempty"`
	RespiratoryRate string `json:"respiratory_rate,omitempty"`
	Weight          string `json:"weight,omitempty"`
	Height          string `json:"height,omitempty"`
}

// PrescriptionItem is one medication line on the record.
type PrescriptionItem struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
	Quantity     int    `json:"quantity"`
}

// MedicalRecord is the clinical record derived from a confirmed appointment.
// The patient/doctor/visit fields are a denormalized snapshot taken at
// creation time and are immutable afterwards; only clinical content is
// editable.
type MedicalRecord struct {
	ID            string `json:"id"`
	AppointmentID string `json:"appointment_id"`
	PatientID     string `json:"patient_id"`
	PatientName   string `json:"patient_name"`
	DoctorID      string `json:"doctor_id"`
	DoctorName    string `json:"doctor_name"`
	Department    string `json:"department"`
	VisitDate     string `json:"visit_date"`
	VisitTime     string `json:"visit_time"`

	ChiefComplaint       string             `json:"chief_complaint"`
	Symptoms             string             `json:"symptoms,omitempty"`
	VitalSigns           VitalSigns         `json:"vital_signs"`
	PhysicalExamination  string             `json:"physical_examination,omitempty"`
	Diagnosis            string             `json:"diagnosis"`
	ICDCode              string             `json:"icd_code,omitempty"`
	Treatment            string             `json:"treatment"`
	Prescription         []PrescriptionItem `json:"prescription"`
	LabTests             []string           `json:"lab_tests"`
	FollowUpDate         string             `json:"follow_up_date,omitempty"`
	FollowUpInstructions string             `json:"follow_up_instructions,omitempty"`

	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateRecordRequest derives a new record from a confirmed appointment.
type CreateRecordRequest struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// UpdateRecordRequest is the bounded clinical patch. Linkage and visit
// snapshot fields are deliberately absent: they cannot be edited.
type UpdateRecordRequest struct {
	ChiefComplaint       *string     `json:"chief_complaint,omitempty"`
	Symptoms             *string     `json:"symptoms,omitempty"`
	VitalSigns           *VitalSigns `json:"vital_signs,omitempty"`
	PhysicalExamination  *string     `json:"physical_examination,omitempty"`
	Diagnosis            *string     `json:"diagnosis,omitempty"`
	ICDCode              *string     `json:"icd_code,omitempty"`
	Treatment            *string     `json:"treatment,omitempty"`
	FollowUpDate         *string     `json:"follow_up_date,omitempty"`
	FollowUpInstructions *string     `json:"follow_up_instructions,omitempty"`
}
