package e2e

import (
	"net/http"
	"testing"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/booking"
	"github.com/carepoint-health/frontdesk-service/internal/medicalrecord"
)

// Walks the whole front-desk flow over the wire: wizard booking, rejected
// double-booking, confirmation, record derivation, record completion.
func TestFrontDeskFlow(t *testing.T) {
	ts := SetupE2ETest(t)
	date := BookableDate(3)

	// Start a wizard session.
	var sessResp booking.SessionResponse
	code := ts.DoJSON(t, http.MethodPost, "/api/booking/sessions",
		booking.StartSessionRequest{PatientID: "pat-1", PatientName: "John Doe"}, &sessResp)
	if code != http.StatusCreated {
		t.Fatalf("start session: status %d", code)
	}
	sessID := sessResp.Session.ID

	// Step 1: department and doctor.
	dept, doctor := "General Medicine", "doc-gm-01"
	ts.DoJSON(t, http.MethodPut, "/api/booking/sessions/"+sessID+"/form",
		booking.UpdateFormRequest{Department: &dept, DoctorID: &doctor}, nil)
	ts.DoJSON(t, http.MethodPost, "/api/booking/sessions/"+sessID+"/next", nil, &sessResp)
	if sessResp.Session.Step != booking.StepSlot {
		t.Fatalf("step = %d after valid step 1, want %d", sessResp.Session.Step, booking.StepSlot)
	}

	// Step 2 gate: advancing without a slot fails and keeps the step.
	ts.DoJSON(t, http.MethodPost, "/api/booking/sessions/"+sessID+"/next", nil, &sessResp)
	if sessResp.Success || sessResp.Session.Step != booking.StepSlot {
		t.Fatalf("empty step 2 advanced: %+v", sessResp)
	}

	// Pick a slot the availability endpoint offers.
	slot := "09:00"
	ts.DoJSON(t, http.MethodPut, "/api/booking/sessions/"+sessID+"/form",
		booking.UpdateFormRequest{Date: &date, Time: &slot}, nil)

	var avail booking.AvailabilityResponse
	ts.DoJSON(t, http.MethodGet, "/api/booking/sessions/"+sessID+"/availability", nil, &avail)
	if len(avail.AvailableTimes) != 12 {
		t.Fatalf("free slots before booking = %d, want 12", len(avail.AvailableTimes))
	}

	ts.DoJSON(t, http.MethodPost, "/api/booking/sessions/"+sessID+"/next", nil, &sessResp)

	// Step 3: intake, then submit from the confirmation step.
	reason := "annual physical"
	ts.DoJSON(t, http.MethodPut, "/api/booking/sessions/"+sessID+"/form",
		booking.UpdateFormRequest{Reason: &reason}, nil)
	ts.DoJSON(t, http.MethodPost, "/api/booking/sessions/"+sessID+"/next", nil, &sessResp)

	var submitResp booking.SubmitResponse
	code = ts.DoJSON(t, http.MethodPost, "/api/booking/sessions/"+sessID+"/submit", nil, &submitResp)
	if code != http.StatusCreated {
		t.Fatalf("submit: status %d", code)
	}
	appt := submitResp.Appointment
	if appt.Status != appointment.StatusScheduled {
		t.Fatalf("booked status = %q, want scheduled", appt.Status)
	}

	// Double-booking the same doctor/date/time is rejected.
	var errResp appointment.ErrorResponse
	code = ts.DoJSON(t, http.MethodPost, "/api/appointments", appointment.CreateAppointmentRequest{
		PatientID:   "pat-2",
		PatientName: "Jane Roe",
		DoctorID:    doctor,
		Date:        date,
		Time:        slot,
		Type:        appointment.TypeCheckup,
	}, &errResp)
	if code != http.StatusConflict {
		t.Fatalf("double booking: status %d, want 409", code)
	}

	// The slot disappears from availability.
	var apptAvail appointment.AvailabilityResponse
	ts.DoJSON(t, http.MethodGet, "/api/appointments/availability?doctor_id="+doctor+"&date="+date, nil, &apptAvail)
	if len(apptAvail.AvailableTimes) != 11 {
		t.Fatalf("free slots after booking = %d, want 11", len(apptAvail.AvailableTimes))
	}

	// Deriving a record before confirmation fails.
	var recErr medicalrecord.ErrorResponse
	code = ts.DoJSON(t, http.MethodPost, "/api/medical-records",
		medicalrecord.CreateRecordRequest{AppointmentID: appt.ID}, &recErr)
	if code != http.StatusConflict {
		t.Fatalf("record from scheduled appointment: status %d, want 409", code)
	}

	// Confirm, then derive.
	var apptResp appointment.SuccessResponse
	ts.DoJSON(t, http.MethodPost, "/api/appointments/"+appt.ID+"/confirm", nil, &apptResp)
	if apptResp.Appointment.Status != appointment.StatusConfirmed {
		t.Fatalf("confirm: status = %q", apptResp.Appointment.Status)
	}

	var recResp medicalrecord.SuccessResponse
	code = ts.DoJSON(t, http.MethodPost, "/api/medical-records",
		medicalrecord.CreateRecordRequest{AppointmentID: appt.ID}, &recResp)
	if code != http.StatusCreated {
		t.Fatalf("derive record: status %d", code)
	}
	rec := recResp.Record
	if rec.Status != medicalrecord.StatusDraft || rec.AppointmentID != appt.ID {
		t.Fatalf("derived record = %+v", rec)
	}

	// A second record for the same appointment is rejected.
	code = ts.DoJSON(t, http.MethodPost, "/api/medical-records",
		medicalrecord.CreateRecordRequest{AppointmentID: appt.ID}, &recErr)
	if code != http.StatusConflict {
		t.Fatalf("second record: status %d, want 409", code)
	}

	// Fill in the clinical core and complete the record.
	complaint, diagnosis, treatment := "headache", "Hypertension", "Lifestyle + medication"
	ts.DoJSON(t, http.MethodPut, "/api/medical-records/"+rec.ID, medicalrecord.UpdateRecordRequest{
		ChiefComplaint: &complaint,
		Diagnosis:      &diagnosis,
		Treatment:      &treatment,
	}, &recResp)
	if recResp.Record.Diagnosis != diagnosis {
		t.Fatalf("update record: %+v", recResp.Record)
	}

	ts.DoJSON(t, http.MethodPost, "/api/medical-records/"+rec.ID+"/complete", nil, &recResp)
	if recResp.Record.Status != medicalrecord.StatusCompleted {
		t.Fatalf("complete record: status = %q", recResp.Record.Status)
	}

	// Close out the visit.
	ts.DoJSON(t, http.MethodPost, "/api/appointments/"+appt.ID+"/complete", nil, &apptResp)
	if apptResp.Appointment.Status != appointment.StatusCompleted {
		t.Fatalf("complete appointment: status = %q", apptResp.Appointment.Status)
	}

	// Events were published for every step of the flow.
	if len(ts.Publisher.RoutingKeys()) == 0 {
		t.Error("no domain events published")
	}
}

func TestCancelledAppointmentStaysCancelled(t *testing.T) {
	ts := SetupE2ETest(t)
	date := BookableDate(4)

	var created appointment.SuccessResponse
	code := ts.DoJSON(t, http.MethodPost, "/api/appointments", appointment.CreateAppointmentRequest{
		PatientID:   "pat-3",
		PatientName: "Sam Lee",
		DoctorID:    "doc-ca-01",
		Date:        date,
		Time:        "14:30",
		Type:        appointment.TypeConsultation,
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create: status %d", code)
	}
	id := created.Appointment.ID

	var resp appointment.SuccessResponse
	ts.DoJSON(t, http.MethodPost, "/api/appointments/"+id+"/cancel", nil, &resp)
	if resp.Appointment.Status != appointment.StatusCancelled {
		t.Fatalf("cancel: status = %q", resp.Appointment.Status)
	}

	var errResp appointment.ErrorResponse
	code = ts.DoJSON(t, http.MethodPost, "/api/appointments/"+id+"/confirm", nil, &errResp)
	if code != http.StatusConflict {
		t.Fatalf("confirm after cancel: status %d, want 409", code)
	}

	var got appointment.SuccessResponse
	ts.DoJSON(t, http.MethodGet, "/api/appointments/"+id, nil, &got)
	if got.Appointment.Status != appointment.StatusCancelled {
		t.Errorf("status after rejected confirm = %q, want cancelled", got.Appointment.Status)
	}

	// The cancelled slot is bookable again.
	code = ts.DoJSON(t, http.MethodPost, "/api/appointments", appointment.CreateAppointmentRequest{
		PatientID:   "pat-4",
		PatientName: "Ana Silva",
		DoctorID:    "doc-ca-01",
		Date:        date,
		Time:        "14:30",
		Type:        appointment.TypeCheckup,
	}, &created)
	if code != http.StatusCreated {
		t.Errorf("rebooking cancelled slot: status %d, want 201", code)
	}
}
