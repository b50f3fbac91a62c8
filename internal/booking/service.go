package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/telemetry"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// Scheduler is the slice of the scheduling service the wizard needs: final
// booking and slot-level availability. The scheduling service owns the
// conflict rules; the wizard only consumes them.
type Scheduler interface {
	Create(ctx context.Context, req appointment.CreateAppointmentRequest) (*appointment.Appointment, error)
	AvailableTimes(ctx context.Context, doctorID, date string) ([]string, error)
}

// Service manages wizard sessions. Sessions live in memory only: a booking
// in progress is session state, not a domain entity, and does not survive a
// restart.
type Service struct {
	wizard    *Wizard
	scheduler Scheduler
	ids       idgen.Generator
	validate  *validation.Validator
	metrics   *telemetry.Metrics
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewService(wizard *Wizard, scheduler Scheduler, ids idgen.Generator, validate *validation.Validator, metrics *telemetry.Metrics) *Service {
	return &Service{
		wizard:    wizard,
		scheduler: scheduler,
		ids:       ids,
		validate:  validate,
		metrics:   metrics,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Start opens a new session at the first step.
func (s *Service) Start(ctx context.Context, req StartSessionRequest) (*Session, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	now := s.now()
	sess := &Session{
		ID:          s.ids.NewID(),
		PatientID:   req.PatientID,
		PatientName: req.PatientName,
		Step:        StepDoctor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.metrics.RecordBookingSessionOperation(ctx, "start")
	out := *sess
	return &out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := *sess
	return &out, nil
}

// UpdateForm patches the collected form. Selecting a different department
// invalidates the doctor choice, so the doctor field resets with it.
func (s *Service) UpdateForm(ctx context.Context, id string, req UpdateFormRequest) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.AppointmentID != "" {
		return nil, ErrAlreadyDone
	}

	if req.Department != nil && *req.Department != sess.Form.Department {
		sess.Form.Department = *req.Department
		sess.Form.DoctorID = ""
	}
	if req.DoctorID != nil {
		sess.Form.DoctorID = *req.DoctorID
	}
	if req.Date != nil {
		sess.Form.Date = *req.Date
	}
	if req.Time != nil {
		sess.Form.Time = *req.Time
	}
	if req.Type != nil {
		sess.Form.Type = *req.Type
	}
	if req.Reason != nil {
		sess.Form.Reason = *req.Reason
	}
	sess.UpdatedAt = s.now()

	out := *sess
	return &out, nil
}

// Next advances one step if the current step validates; otherwise the session
// stays put and carries the step's field errors.
func (s *Service) Next(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.AppointmentID != "" {
		return nil, ErrAlreadyDone
	}

	if errs := s.wizard.ValidateStep(sess.Step, sess.Form); errs != nil {
		sess.Errors = errs
		sess.UpdatedAt = s.now()
		out := *sess
		return &out, errs
	}

	sess.Errors = nil
	if sess.Step < StepConfirm {
		sess.Step++
	}
	sess.UpdatedAt = s.now()

	out := *sess
	return &out, nil
}

// Previous steps back and clears step-level errors. Collected form data is
// kept.
func (s *Service) Previous(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.Errors = nil
	if sess.Step > StepDoctor {
		sess.Step--
	}
	sess.UpdatedAt = s.now()

	out := *sess
	return &out, nil
}

// Availability returns the offerable dates and, once a doctor and date are
// chosen, the free slots for that pair.
func (s *Service) Availability(ctx context.Context, id string) ([]string, []string, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	dates := s.wizard.AvailableDates()
	if sess.Form.DoctorID == "" || sess.Form.Date == "" {
		return dates, nil, nil
	}
	times, err := s.scheduler.AvailableTimes(ctx, sess.Form.DoctorID, sess.Form.Date)
	if err != nil {
		return nil, nil, err
	}
	return dates, times, nil
}

// Submit re-validates everything and hands a scheduled appointment to the
// scheduling service. The conflict check runs inside Create as the
// last-moment guard; a collision aborts the submission with no state change.
func (s *Service) Submit(ctx context.Context, id string) (*Session, *appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	if sess.AppointmentID != "" {
		return nil, nil, ErrAlreadyDone
	}
	if sess.Step != StepConfirm {
		return nil, nil, ErrNotAtConfirm
	}

	if errs := s.wizard.ValidateStep(StepConfirm, sess.Form); errs != nil {
		sess.Errors = errs
		sess.UpdatedAt = s.now()
		return nil, nil, errs
	}

	apptType := sess.Form.Type
	if apptType == "" {
		apptType = string(appointment.TypeConsultation)
	}

	a, err := s.scheduler.Create(ctx, appointment.CreateAppointmentRequest{
		PatientID:   sess.PatientID,
		PatientName: sess.PatientName,
		DoctorID:    sess.Form.DoctorID,
		Date:        sess.Form.Date,
		Time:        sess.Form.Time,
		Type:        appointment.Type(apptType),
		Notes:       sess.Form.Reason,
	})
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		return nil, nil, err
	}

	sess.AppointmentID = a.ID
	sess.Errors = nil
	sess.UpdatedAt = s.now()

	s.metrics.RecordBookingSessionOperation(ctx, "submit")
	out := *sess
	return &out, a, err
}
