package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// mockService implements ServiceInterface for handler tests
type mockService struct {
	createFunc         func(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	listFunc           func(ctx context.Context, status Status) ([]Appointment, error)
	getFunc            func(ctx context.Context, id string) (*Appointment, error)
	updateFunc         func(ctx context.Context, id string, req UpdateAppointmentRequest) (*Appointment, error)
	confirmFunc        func(ctx context.Context, id string) (*Appointment, error)
	cancelFunc         func(ctx context.Context, id string) (*Appointment, error)
	completeFunc       func(ctx context.Context, id string) (*Appointment, error)
	availableTimesFunc func(ctx context.Context, doctorID, date string) ([]string, error)
}

func (m *mockService) Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) List(ctx context.Context, status Status) ([]Appointment, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Get(ctx context.Context, id string) (*Appointment, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*Appointment, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Confirm(ctx context.Context, id string) (*Appointment, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Cancel(ctx context.Context, id string) (*Appointment, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) Complete(ctx context.Context, id string) (*Appointment, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockService) AvailableTimes(ctx context.Context, doctorID, date string) ([]string, error) {
	if m.availableTimesFunc != nil {
		return m.availableTimesFunc(ctx, doctorID, date)
	}
	return nil, errors.New("not implemented")
}

func TestHandlerCreate_Success(t *testing.T) {
	handler := NewHandler(&mockService{
		createFunc: func(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
			return &Appointment{
				ID:          "appt-1",
				PatientName: req.PatientName,
				DoctorID:    req.DoctorID,
				Date:        req.Date,
				Time:        req.Time,
				Status:      StatusScheduled,
			}, nil
		},
	})

	body, _ := json.Marshal(CreateAppointmentRequest{
		PatientID:   "pat-1",
		PatientName: "John Doe",
		DoctorID:    "doc-gm-01",
		Date:        "2025-06-19",
		Time:        "09:00",
		Type:        TypeCheckup,
	})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rr.Code)
	}
	var resp SuccessResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Appointment.Status != StatusScheduled {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestHandlerCreate_InvalidJSON(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestHandlerCreate_Conflict(t *testing.T) {
	handler := NewHandler(&mockService{
		createFunc: func(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error) {
			return nil, ErrTimeConflict
		},
	})

	body, _ := json.Marshal(CreateAppointmentRequest{})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected status 409, got %d", rr.Code)
	}
	var resp ErrorResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Error != "time_conflict" {
		t.Errorf("Expected time_conflict, got %s", resp.Error)
	}
}

func TestHandlerConfirm_InvalidTransition(t *testing.T) {
	handler := NewHandler(&mockService{
		confirmFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return nil, ErrInvalidTransition
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/appointments/appt-1/confirm", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "appt-1"})
	rr := httptest.NewRecorder()

	handler.Confirm(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rr.Code)
	}
}

func TestHandlerGet_NotFound(t *testing.T) {
	handler := NewHandler(&mockService{
		getFunc: func(ctx context.Context, id string) (*Appointment, error) {
			return nil, ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments/appt-9", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "appt-9"})
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestHandlerAvailability_MissingParams(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/appointments/availability", nil)
	rr := httptest.NewRecorder()

	handler.Availability(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestHandlerAvailability_Success(t *testing.T) {
	handler := NewHandler(&mockService{
		availableTimesFunc: func(ctx context.Context, doctorID, date string) ([]string, error) {
			return []string{"09:00", "09:30"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments/availability?doctor_id=doc-gm-01&date=2025-06-19", nil)
	rr := httptest.NewRecorder()

	handler.Availability(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var resp AvailabilityResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.AvailableTimes) != 2 {
		t.Errorf("Expected 2 available times, got %d", len(resp.AvailableTimes))
	}
}

func TestHandlerList_Paginated(t *testing.T) {
	handler := NewHandler(&mockService{
		listFunc: func(ctx context.Context, status Status) ([]Appointment, error) {
			items := make([]Appointment, 25)
			for i := range items {
				items[i] = Appointment{ID: "appt", Status: StatusScheduled}
			}
			return items, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/appointments?page=2&limit=10", nil)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var resp ListResponse
	json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Appointments) != 10 {
		t.Errorf("Expected 10 appointments on page 2, got %d", len(resp.Appointments))
	}
	if resp.Pagination.TotalRecords != 25 {
		t.Errorf("Expected total 25, got %d", resp.Pagination.TotalRecords)
	}
}
