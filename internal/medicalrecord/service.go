package medicalrecord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/messaging"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/telemetry"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// AppointmentSource supplies the appointment a record derives from. The
// scheduling service satisfies it; record creation only reads, never owns.
type AppointmentSource interface {
	Get(ctx context.Context, id string) (*appointment.Appointment, error)
}

type Service struct {
	repo         RepositoryInterface
	appointments AppointmentSource
	ids          idgen.Generator
	validate     *validation.Validator
	publisher    messaging.PublisherInterface
	metrics      *telemetry.Metrics
	now          func() time.Time
}

func NewService(repo RepositoryInterface, appointments AppointmentSource, ids idgen.Generator, validate *validation.Validator, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		ids:          ids,
		validate:     validate,
		publisher:    publisher,
		metrics:      metrics,
		now:          time.Now,
	}
}

// CreateFromAppointment derives a draft record from a confirmed appointment.
// Both preconditions (confirmed source, no existing record) are checked
// before any mutation.
func (s *Service) CreateFromAppointment(ctx context.Context, req CreateRecordRequest) (*MedicalRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	appt, err := s.appointments.Get(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to fetch appointment: %w", err)
	}
	if appt.Status != appointment.StatusConfirmed {
		return nil, fmt.Errorf("%w (current status: %s)", ErrAppointmentNotConfirmed, appt.Status)
	}
	if _, exists := s.repo.GetByAppointment(ctx, appt.ID); exists {
		return nil, ErrRecordExists
	}

	now := s.now()
	rec := MedicalRecord{
		ID:            s.ids.NewID(),
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		PatientName:   appt.PatientName,
		DoctorID:      appt.DoctorID,
		DoctorName:    appt.DoctorName,
		Department:    appt.Department,
		VisitDate:     appt.Date,
		VisitTime:     appt.Time,
		Prescription:  []PrescriptionItem{},
		LabTests:      []string{},
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.repo.Insert(ctx, rec)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyMedicalRecords)
	}

	s.metrics.RecordMedicalRecordOperation(ctx, "create")
	s.publishEvent(ctx, messaging.EventMedicalRecordCreated, rec)
	return &rec, err
}

func (s *Service) List(ctx context.Context) ([]MedicalRecord, error) {
	return s.repo.List(ctx), nil
}

func (s *Service) Get(ctx context.Context, id string) (*MedicalRecord, error) {
	rec, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

// Update applies a clinical patch. Linkage and visit snapshot fields are not
// part of the patch type and therefore can never change.
func (s *Service) Update(ctx context.Context, id string, req UpdateRecordRequest) (*MedicalRecord, error) {
	rec, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrRecordNotFound
	}

	if req.ChiefComplaint != nil {
		rec.ChiefComplaint = *req.ChiefComplaint
	}
	if req.Symptoms != nil {
		rec.Symptoms = *req.Symptoms
	}
	if req.VitalSigns != nil {
		rec.VitalSigns = *req.VitalSigns
	}
	if req.PhysicalExamination != nil {
		rec.PhysicalExamination = *req.PhysicalExamination
	}
	if req.Diagnosis != nil {
		rec.Diagnosis = *req.Diagnosis
	}
	if req.ICDCode != nil {
		rec.ICDCode = *req.ICDCode
	}
	if req.Treatment != nil {
		rec.Treatment = *req.Treatment
	}
	if req.FollowUpDate != nil {
		rec.FollowUpDate = *req.FollowUpDate
	}
	if req.FollowUpInstructions != nil {
		rec.FollowUpInstructions = *req.FollowUpInstructions
	}
	rec.UpdatedAt = s.now()

	err := s.repo.Replace(ctx, rec)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyMedicalRecords)
	}

	s.metrics.RecordMedicalRecordOperation(ctx, "update")
	s.publishEvent(ctx, messaging.EventMedicalRecordUpdated, rec)
	return &rec, err
}

// Complete marks the record completed. Chief complaint, diagnosis and
// treatment must be filled in; violations come back as field errors, not a
// failure of the session.
func (s *Service) Complete(ctx context.Context, id string) (*MedicalRecord, error) {
	rec, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrRecordNotFound
	}

	fields := validation.FieldErrors{}
	if strings.TrimSpace(rec.ChiefComplaint) == "" {
		fields["chief_complaint"] = "is required"
	}
	if strings.TrimSpace(rec.Diagnosis) == "" {
		fields["diagnosis"] = "is required"
	}
	if strings.TrimSpace(rec.Treatment) == "" {
		fields["treatment"] = "is required"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	rec.Status = StatusCompleted
	rec.UpdatedAt = s.now()

	err := s.repo.Replace(ctx, rec)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to complete medical record: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyMedicalRecords)
	}

	s.metrics.RecordMedicalRecordOperation(ctx, "complete")
	s.publishEvent(ctx, messaging.EventMedicalRecordCompleted, rec)
	return &rec, err
}

// AddPrescription appends one medication line.
func (s *Service) AddPrescription(ctx context.Context, id string, item PrescriptionItem) (*MedicalRecord, error) {
	return s.mutateLists(ctx, id, func(rec *MedicalRecord) error {
		rec.Prescription = append(rec.Prescription, item)
		return nil
	})
}

// RemovePrescription removes the medication line at index.
func (s *Service) RemovePrescription(ctx context.Context, id string, index int) (*MedicalRecord, error) {
	return s.mutateLists(ctx, id, func(rec *MedicalRecord) error {
		if index < 0 || index >= len(rec.Prescription) {
			return ErrIndexOutOfRange
		}
		rec.Prescription = append(rec.Prescription[:index], rec.Prescription[index+1:]...)
		return nil
	})
}

// AddLabTest appends one lab test name.
func (s *Service) AddLabTest(ctx context.Context, id string, name string) (*MedicalRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, validation.FieldErrors{"name": "is required"}
	}
	return s.mutateLists(ctx, id, func(rec *MedicalRecord) error {
		rec.LabTests = append(rec.LabTests, name)
		return nil
	})
}

// RemoveLabTest removes the lab test at index.
func (s *Service) RemoveLabTest(ctx context.Context, id string, index int) (*MedicalRecord, error) {
	return s.mutateLists(ctx, id, func(rec *MedicalRecord) error {
		if index < 0 || index >= len(rec.LabTests) {
			return ErrIndexOutOfRange
		}
		rec.LabTests = append(rec.LabTests[:index], rec.LabTests[index+1:]...)
		return nil
	})
}

func (s *Service) mutateLists(ctx context.Context, id string, apply func(*MedicalRecord) error) (*MedicalRecord, error) {
	rec, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrRecordNotFound
	}
	if err := apply(&rec); err != nil {
		return nil, err
	}
	rec.UpdatedAt = s.now()

	err := s.repo.Replace(ctx, rec)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyMedicalRecords)
	}

	s.metrics.RecordMedicalRecordOperation(ctx, "update")
	return &rec, err
}

func (s *Service) publishEvent(ctx context.Context, routingKey string, rec MedicalRecord) {
	if s.publisher == nil {
		return
	}
	event := messaging.MedicalRecordEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.MedicalRecordEventData{
			RecordID:      rec.ID,
			AppointmentID: rec.AppointmentID,
			PatientID:     rec.PatientID,
			DoctorID:      rec.DoctorID,
			Status:        string(rec.Status),
			ChangedAt:     rec.UpdatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
