package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carepoint-health/frontdesk-service/internal/pagination"
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

type SuccessResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

type ListResponse struct {
	Success      bool            `json:"success"`
	Appointments []Appointment   `json:"appointments"`
	Pagination   pagination.Meta `json:"pagination"`
}

type AvailabilityResponse struct {
	Success        bool     `json:"success"`
	DoctorID       string   `json:"doctor_id"`
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	a, err := h.service.Create(r.Context(), req)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{
		Success:     true,
		Message:     withSaveWarning("Appointment booked", err),
		Appointment: a,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := Status(r.URL.Query().Get("status"))
	items, err := h.service.List(r.Context(), status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	params := pagination.ParseParams(r)
	start, end := params.Window(len(items))
	respondJSON(w, http.StatusOK, ListResponse{
		Success:      true,
		Appointments: items[start:end],
		Pagination:   params.MetaFor(len(items)),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{
		Success:     true,
		Message:     "Appointment retrieved",
		Appointment: a,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	a, err := h.service.Update(r.Context(), id, req)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success:     true,
		Message:     withSaveWarning("Appointment updated", err),
		Appointment: a,
	})
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Confirm, "Appointment confirmed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel, "Appointment cancelled")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Complete, "Appointment completed")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*Appointment, error), message string) {
	id := mux.Vars(r)["id"]
	a, err := op(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{
		Success:     true,
		Message:     withSaveWarning(message, err),
		Appointment: a,
	})
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")
	date := r.URL.Query().Get("date")
	if doctorID == "" || date == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "doctor_id and date query parameters are required")
		return
	}

	times, err := h.service.AvailableTimes(r.Context(), doctorID, date)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AvailabilityResponse{
		Success:        true,
		DoctorID:       doctorID,
		Date:           date,
		AvailableTimes: times,
	})
}

func withSaveWarning(message string, err error) string {
	if errors.Is(err, store.ErrWriteFailed) {
		return message + " (changes not saved; storage unavailable)"
	}
	return message
}

func respondDomainError(w http.ResponseWriter, err error) {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		respondFieldErrors(w, fields)
	case errors.Is(err, ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrTimeConflict):
		respondError(w, http.StatusConflict, "time_conflict", err.Error())
	case errors.Is(err, ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, ErrNotEditable):
		respondError(w, http.StatusConflict, "not_editable", err.Error())
	case errors.Is(err, ErrUnknownDoctor):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func respondFieldErrors(w http.ResponseWriter, fields validation.FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   "validation_error",
		Message: "One or more fields are invalid",
		Fields:  fields,
	})
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
