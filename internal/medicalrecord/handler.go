package medicalrecord

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Record  *MedicalRecord `json:"record,omitempty"`
}

type ListResponse struct {
	Success    bool            `json:"success"`
	Records    []MedicalRecord `json:"records"`
	Pagination pagination.Meta `json:"pagination"`
}

// AddLabTestRequest carries the single test name to append.
type AddLabTestRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	rec, err := h.service.CreateFromAppointment(r.Context(), req)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Message: withSaveWarning("Medical record created", err),
		Record:  rec,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "fetch_failed", err.Error())
		return
	}

	params := pagination.ParseParams(r)
	start, end := params.Window(len(items))
	respondJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Records:    items[start:end],
		Pagination: params.MetaFor(len(items)),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Medical record retrieved",
		Record:  rec,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	rec, err := h.service.Update(r.Context(), id, req)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: withSaveWarning("Medical record updated", err),
		Record:  rec,
	})
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, id string) (*MedicalRecord, error) {
		return h.service.Complete(ctx, id)
	}, "Medical record completed")
}

func (h *Handler) AddPrescription(w http.ResponseWriter, r *http.Request) {
	var item PrescriptionItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (*MedicalRecord, error) {
		return h.service.AddPrescription(ctx, id, item)
	}, "Prescription added")
}

func (h *Handler) RemovePrescription(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (*MedicalRecord, error) {
		return h.service.RemovePrescription(ctx, id, index)
	}, "Prescription removed")
}

func (h *Handler) AddLabTest(w http.ResponseWriter, r *http.Request) {
	var req AddLabTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (*MedicalRecord, error) {
		return h.service.AddLabTest(ctx, id, req.Name)
	}, "Lab test added")
}

func (h *Handler) RemoveLabTest(w http.ResponseWriter, r *http.Request) {
	index, ok := indexVar(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(ctx context.Context, id string) (*MedicalRecord, error) {
		return h.service.RemoveLabTest(ctx, id, index)
	}, "Lab test removed")
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*MedicalRecord, error), message string) {
	id := mux.Vars(r)["id"]
	rec, err := op(r.Context(), id)
	if err != nil && !errors.Is(err, store.ErrWriteFailed) {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: withSaveWarning(message, err),
		Record:  rec,
	})
}

func indexVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := mux.Vars(r)["index"]
	index, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "index must be an integer")
		return 0, false
	}
	return index, true
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
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{
			Error:   "validation_error",
			Message: "One or more fields are invalid",
			Fields:  fields,
		})
	case errors.Is(err, ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrAppointmentNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ErrAppointmentNotConfirmed):
		respondError(w, http.StatusConflict, "appointment_not_confirmed", err.Error())
	case errors.Is(err, ErrRecordExists):
		respondError(w, http.StatusConflict, "record_exists", err.Error())
	case errors.Is(err, ErrIndexOutOfRange):
		respondError(w, http.StatusBadRequest, "index_out_of_range", err.Error())
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
