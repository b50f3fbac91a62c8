package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/messaging"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/testutil"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *testutil.RecordingPublisher) {
	t.Helper()
	st := store.NewMemoryStore()
	repo, err := NewRepository(context.Background(), st)
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	pub := &testutil.RecordingPublisher{}
	svc := NewService(repo, refdata.NewProvider(), &idgen.Sequence{}, validation.New(), pub, nil)
	return svc, st, pub
}

func validRequest() CreateAppointmentRequest {
	return CreateAppointmentRequest{
		PatientID:   "pat-1",
		PatientName: "John Doe",
		DoctorID:    "doc-gm-01",
		Date:        "2025-06-19",
		Time:        "09:00",
		Type:        TypeCheckup,
		Notes:       "first visit",
	}
}

func TestCreate_Success(t *testing.T) {
	svc, _, pub := newTestService(t)

	a, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("Expected status scheduled, got %s", a.Status)
	}
	if a.DoctorName != "Dr. Sarah Mitchell" || a.Department != "General Medicine" {
		t.Errorf("Expected doctor snapshot from reference data, got %s / %s", a.DoctorName, a.Department)
	}
	if a.ID == "" {
		t.Error("Expected an assigned id")
	}

	keys := pub.RoutingKeys()
	if len(keys) != 1 || keys[0] != messaging.EventAppointmentCreated {
		t.Errorf("Expected appointment.created event, got %v", keys)
	}
}

func TestCreate_DoubleBookingRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := validRequest()
	second.PatientID = "pat-2"
	second.PatientName = "Jane Roe"

	_, err = svc.Create(ctx, second)
	if !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("Expected ErrTimeConflict, got: %v", err)
	}

	// First booking unaffected, no second appointment created.
	items, _ := svc.List(ctx, "")
	if len(items) != 1 {
		t.Fatalf("Expected 1 appointment, got %d", len(items))
	}
	if items[0].ID != first.ID || items[0].Status != StatusScheduled {
		t.Errorf("First booking was affected by rejected double-booking: %+v", items[0])
	}
}

func TestCreate_CancelledSlotCanBeRebooked(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, validRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	req := validRequest()
	req.PatientID = "pat-2"
	if _, err := svc.Create(ctx, req); err != nil {
		t.Errorf("Expected cancelled slot to be bookable again, got: %v", err)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _, _ := newTestService(t)

	req := validRequest()
	req.PatientName = ""
	req.Date = "19-06-2025"

	_, err := svc.Create(context.Background(), req)
	var fields validation.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Expected FieldErrors, got: %v", err)
	}
	if _, ok := fields["patient_name"]; !ok {
		t.Errorf("Expected patient_name field error, got %v", fields)
	}
	if _, ok := fields["date"]; !ok {
		t.Errorf("Expected date field error, got %v", fields)
	}
}

func TestCreate_UnknownDoctorAndBadSlot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := validRequest()
	req.DoctorID = "doc-nope"
	_, err := svc.Create(ctx, req)
	var fields validation.FieldErrors
	if !errors.As(err, &fields) {
		t.Fatalf("Expected FieldErrors for unknown doctor, got: %v", err)
	}
	if _, ok := fields["doctor_id"]; !ok {
		t.Errorf("Expected doctor_id field error, got %v", fields)
	}

	req = validRequest()
	req.Time = "12:15"
	_, err = svc.Create(ctx, req)
	if !errors.As(err, &fields) {
		t.Fatalf("Expected FieldErrors for bad slot, got: %v", err)
	}
	if _, ok := fields["time"]; !ok {
		t.Errorf("Expected time field error, got %v", fields)
	}
}

func TestConfirm_OnlyFromScheduled(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())

	confirmed, err := svc.Confirm(ctx, a.ID)
	if err != nil {
		t.Fatalf("Confirm from scheduled: %v", err)
	}
	if confirmed.Status != StatusConfirmed {
		t.Fatalf("Expected confirmed, got %s", confirmed.Status)
	}

	// Re-confirming must not change status.
	_, err = svc.Confirm(ctx, a.ID)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got: %v", err)
	}
	got, _ := svc.Get(ctx, a.ID)
	if got.Status != StatusConfirmed {
		t.Errorf("Status changed by invalid transition: %s", got.Status)
	}
}

func TestCancel_IsTerminal(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())
	if _, err := svc.Cancel(ctx, a.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	for name, op := range map[string]func(context.Context, string) (*Appointment, error){
		"confirm":  svc.Confirm,
		"complete": svc.Complete,
		"cancel":   svc.Cancel,
	} {
		if _, err := op(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s after cancel: expected ErrInvalidTransition, got %v", name, err)
		}
	}

	got, _ := svc.Get(ctx, a.ID)
	if got.Status != StatusCancelled {
		t.Errorf("Expected status to remain cancelled, got %s", got.Status)
	}
}

func TestComplete_OnlyFromConfirmed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())

	if _, err := svc.Complete(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Complete from scheduled: expected ErrInvalidTransition, got %v", err)
	}

	svc.Confirm(ctx, a.ID)
	done, err := svc.Complete(ctx, a.ID)
	if err != nil {
		t.Fatalf("Complete from confirmed: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("Expected completed, got %s", done.Status)
	}
}

func TestUpdate_ConflictRejectedWithoutMutation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a1, _ := svc.Create(ctx, validRequest())

	req2 := validRequest()
	req2.PatientID = "pat-2"
	req2.Time = "09:30"
	a2, _ := svc.Create(ctx, req2)

	// Moving a2 onto a1's slot must fail and leave a2 untouched.
	newTime := "09:00"
	_, err := svc.Update(ctx, a2.ID, UpdateAppointmentRequest{Time: &newTime})
	if !errors.Is(err, ErrTimeConflict) {
		t.Fatalf("Expected ErrTimeConflict, got: %v", err)
	}
	got, _ := svc.Get(ctx, a2.ID)
	if got.Time != "09:30" {
		t.Errorf("Rejected edit mutated the appointment: time = %s", got.Time)
	}
	_ = a1
}

func TestUpdate_SelfSlotAllowed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())

	// Keeping the same slot while editing notes must not self-conflict.
	notes := "bring previous lab results"
	updated, err := svc.Update(ctx, a.ID, UpdateAppointmentRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Notes != notes {
		t.Errorf("Expected notes updated, got %q", updated.Notes)
	}
}

func TestUpdate_DoctorChangeRefreshesSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())

	newDoctor := "doc-ca-01"
	updated, err := svc.Update(ctx, a.ID, UpdateAppointmentRequest{DoctorID: &newDoctor})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.DoctorName != "Dr. Elena Petrova" || updated.Department != "Cardiology" {
		t.Errorf("Expected refreshed doctor snapshot, got %s / %s", updated.DoctorName, updated.Department)
	}
	if updated.PatientID != a.PatientID {
		t.Errorf("Patient linkage changed on edit")
	}
}

func TestUpdate_TerminalStateNotEditable(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Create(ctx, validRequest())
	svc.Cancel(ctx, a.ID)

	notes := "too late"
	_, err := svc.Update(ctx, a.ID, UpdateAppointmentRequest{Notes: &notes})
	if !errors.Is(err, ErrNotEditable) {
		t.Errorf("Expected ErrNotEditable, got: %v", err)
	}
}

func TestAvailableTimes_ExcludesBookedSlots(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	svc.Create(ctx, validRequest()) // doc-gm-01 at 09:00

	times, err := svc.AvailableTimes(ctx, "doc-gm-01", "2025-06-19")
	if err != nil {
		t.Fatalf("AvailableTimes: %v", err)
	}
	for _, slot := range times {
		if slot == "09:00" {
			t.Error("Booked slot 09:00 offered as available")
		}
	}
	if len(times) != 11 {
		t.Errorf("Expected 11 remaining slots, got %d", len(times))
	}

	// Another doctor's calendar is unaffected.
	times, _ = svc.AvailableTimes(ctx, "doc-ca-01", "2025-06-19")
	if len(times) != 12 {
		t.Errorf("Expected all 12 slots for unbooked doctor, got %d", len(times))
	}
}

func TestCreate_WriteFailureKeepsMemoryAndReports(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	st.FailWrites = true

	a, err := svc.Create(ctx, validRequest())
	if !errors.Is(err, store.ErrWriteFailed) {
		t.Fatalf("Expected ErrWriteFailed to surface, got: %v", err)
	}
	if a == nil {
		t.Fatal("Expected the appointment despite the failed write")
	}

	// In-memory collection remains the source of truth.
	got, err2 := svc.Get(ctx, a.ID)
	if err2 != nil {
		t.Fatalf("Get after failed write: %v", err2)
	}
	if got.Status != StatusScheduled {
		t.Errorf("Expected scheduled, got %s", got.Status)
	}
}
