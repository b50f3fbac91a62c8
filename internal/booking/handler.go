package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type SessionResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Session *Session `json:"session,omitempty"`
}

type SubmitResponse struct {
	Success     bool                     `json:"success"`
	Message     string                   `json:"message"`
	Session     *Session                 `json:"session,omitempty"`
	Appointment *appointment.Appointment `json:"appointment,omitempty"`
}

type AvailabilityResponse struct {
	Success        bool     `json:"success"`
	AvailableDates []string `json:"available_dates"`
	AvailableTimes []string `json:"available_times"`
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	sess, err := h.service.Start(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SessionResponse{
		Success: true,
		Message: "Booking session started",
		Session: sess,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Message: "Booking session retrieved",
		Session: sess,
	})
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	sess, err := h.service.UpdateForm(r.Context(), id, req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Message: "Form updated",
		Session: sess,
	})
}

// Next returns 200 with the step's field errors attached to the session when
// the gate fails, rather than a bare 400: the session itself is the resource
// the client renders.
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := h.service.Next(r.Context(), id)

	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		respondJSON(w, http.StatusOK, SessionResponse{
			Success: false,
			Message: "Current step is incomplete",
			Session: sess,
		})
		return
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Message: "Moved to next step",
		Session: sess,
	})
}

func (h *Handler) Previous(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := h.service.Previous(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SessionResponse{
		Success: true,
		Message: "Moved to previous step",
		Session: sess,
	})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	dates, times, err := h.service.Availability(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AvailabilityResponse{
		Success:        true,
		AvailableDates: dates,
		AvailableTimes: times,
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, a, err := h.service.Submit(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}

	message := "Appointment booked"
	if errors.Is(err, store.ErrWriteFailed) {
		message += " (changes not saved; storage unavailable)"
	}
	respondJSON(w, http.StatusCreated, SubmitResponse{
		Success:     true,
		Message:     message,
		Session:     sess,
		Appointment: a,
	})
}

func respondDomainError(w http.ResponseWriter, err error) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:   "validation_error",
			Message: "One or more fields are invalid",
			Fields:  fields,
		})
	case errors.Is(err, ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, appointment.ErrTimeConflict):
		respondError(w, http.StatusConflict, "time_conflict", "The selected slot is no longer available")
	case errors.Is(err, ErrNotAtConfirm):
		respondError(w, http.StatusConflict, "not_at_confirmation", err.Error())
	case errors.Is(err, ErrAlreadyDone):
		respondError(w, http.StatusConflict, "already_submitted", err.Error())
	case errors.Is(err, appointment.ErrUnknownDoctor):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
