package appointment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/messaging"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/telemetry"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

type Service struct {
	repo      RepositoryInterface
	ref       *refdata.Provider
	ids       idgen.Generator
	validate  *validation.Validator
	publisher messaging.PublisherInterface
	metrics   *telemetry.Metrics
	now       func() time.Time
}

func NewService(repo RepositoryInterface, ref *refdata.Provider, ids idgen.Generator, validate *validation.Validator, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) *Service {
	return &Service{
		repo:      repo,
		ref:       ref,
		ids:       ids,
		validate:  validate,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Create books a new appointment in scheduled status. The conflict check runs
// before any mutation; a colliding triple rejects the whole operation.
func (s *Service) Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	doctor, ok := s.ref.DoctorByID(req.DoctorID)
	if !ok {
		return nil, validation.FieldErrors{"doctor_id": "unknown doctor"}
	}
	if !s.ref.IsTimeSlot(req.Time) {
		return nil, validation.FieldErrors{"time": "not a bookable time slot"}
	}

	if HasConflict(s.repo.List(ctx), req.DoctorID, req.Date, req.Time, "") {
		s.metrics.RecordConflict(ctx, "create")
		return nil, ErrTimeConflict
	}

	now := s.now()
	a := Appointment{
		ID:          s.ids.NewID(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		DoctorID:    doctor.ID,
		DoctorName:  doctor.Name,
		Department:  doctor.Department,
		Date:        req.Date,
		Time:        req.Time,
		Type:        req.Type,
		Status:      StatusScheduled,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.repo.Insert(ctx, a)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyAppointments)
	}

	s.metrics.RecordAppointmentOperation(ctx, "create")
	s.publishStatusEvent(ctx, messaging.EventAppointmentCreated, a, "")
	return &a, err
}

// List returns appointments, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status) ([]Appointment, error) {
	items := s.repo.List(ctx)
	if status == "" {
		return items, nil
	}
	filtered := items[:0:0]
	for _, a := range items {
		if a.Status == status {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	a, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

// Update applies a bounded patch while the appointment is still editable.
// Any change to the (doctor, date, time) triple re-runs the conflict check,
// excluding the appointment's own id.
func (s *Service) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*Appointment, error) {
	current, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrNotFound
	}
	if !IsEditable(current.Status) {
		return nil, ErrNotEditable
	}

	next := current
	if req.DoctorID != nil {
		doctor, ok := s.ref.DoctorByID(*req.DoctorID)
		if !ok {
			return nil, validation.FieldErrors{"doctor_id": "unknown doctor"}
		}
		next.DoctorID = doctor.ID
		next.DoctorName = doctor.Name
		next.Department = doctor.Department
	}
	if req.Date != nil {
		if _, err := time.Parse(DateLayout, *req.Date); err != nil {
			return nil, validation.FieldErrors{"date": "must match format " + DateLayout}
		}
		next.Date = *req.Date
	}
	if req.Time != nil {
		if !s.ref.IsTimeSlot(*req.Time) {
			return nil, validation.FieldErrors{"time": "not a bookable time slot"}
		}
		next.Time = *req.Time
	}
	if req.Type != nil {
		switch *req.Type {
		case TypeCheckup, TypeFollowup, TypeEmergency, TypeConsultation:
			next.Type = *req.Type
		default:
			return nil, validation.FieldErrors{"type": "must be one of: checkup followup emergency consultation"}
		}
	}
	if req.Notes != nil {
		next.Notes = *req.Notes
	}

	if HasConflict(s.repo.List(ctx), next.DoctorID, next.Date, next.Time, next.ID) {
		s.metrics.RecordConflict(ctx, "update")
		return nil, ErrTimeConflict
	}

	next.UpdatedAt = s.now()

	err := s.repo.Replace(ctx, next)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyAppointments)
	}

	s.metrics.RecordAppointmentOperation(ctx, "update")
	s.publishStatusEvent(ctx, messaging.EventAppointmentUpdated, next, string(current.Status))
	return &next, err
}

// Confirm moves a scheduled appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusConfirmed, messaging.EventAppointmentConfirmed)
}

// Cancel releases the slot. Valid from scheduled or confirmed; irreversible.
func (s *Service) Cancel(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCancelled, messaging.EventAppointmentCancelled)
}

// Complete closes out a confirmed appointment.
func (s *Service) Complete(ctx context.Context, id string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, messaging.EventAppointmentCompleted)
}

func (s *Service) transition(ctx context.Context, id string, to Status, event string) (*Appointment, error) {
	current, ok := s.repo.Get(ctx, id)
	if !ok {
		return nil, ErrNotFound
	}
	if !CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, to)
	}

	next := current
	next.Status = to
	next.UpdatedAt = s.now()

	err := s.repo.Replace(ctx, next)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}
	if errors.Is(err, store.ErrWriteFailed) {
		s.metrics.RecordStoreWriteFailure(ctx, store.KeyAppointments)
	}

	s.metrics.RecordAppointmentOperation(ctx, string(to))
	s.publishStatusEvent(ctx, event, next, string(current.Status))
	return &next, err
}

// AvailableTimes returns the bookable slots for a doctor on a date, with
// slots held by non-cancelled appointments removed.
func (s *Service) AvailableTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	if _, ok := s.ref.DoctorByID(doctorID); !ok {
		return nil, ErrUnknownDoctor
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, validation.FieldErrors{"date": "must match format " + DateLayout}
	}

	existing := s.repo.List(ctx)
	var free []string
	for _, slot := range s.ref.TimeSlots() {
		if !HasConflict(existing, doctorID, date, slot, "") {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (s *Service) publishStatusEvent(ctx context.Context, routingKey string, a Appointment, oldStatus string) {
	if s.publisher == nil {
		return
	}
	event := messaging.AppointmentEvent{
		BaseEvent: messaging.NewBaseEvent(routingKey),
		Data: messaging.AppointmentEventData{
			AppointmentID: a.ID,
			PatientID:     a.PatientID,
			PatientName:   a.PatientName,
			DoctorID:      a.DoctorID,
			DoctorName:    a.DoctorName,
			Department:    a.Department,
			Date:          a.Date,
			Time:          a.Time,
			Type:          string(a.Type),
			OldStatus:     oldStatus,
			NewStatus:     string(a.Status),
			ChangedAt:     a.UpdatedAt,
		},
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
