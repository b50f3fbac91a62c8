package refdata

import (
	"encoding/json"
	"net/http"
)

// Handler exposes the static catalogs read-only. There are no mutations:
// reference data is supplied at startup and never changes.
type Handler struct {
	provider *Provider
}

func NewHandler(provider *Provider) *Handler {
	return &Handler{provider: provider}
}

type DepartmentsResponse struct {
	Success     bool     `json:"success"`
	Departments []string `json:"departments"`
}

type DoctorsResponse struct {
	Success bool     `json:"success"`
	Doctors []Doctor `json:"doctors"`
}

type SlotsResponse struct {
	Success   bool     `json:"success"`
	TimeSlots []string `json:"time_slots"`
}

func (h *Handler) Departments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, DepartmentsResponse{
		Success:     true,
		Departments: h.provider.Departments(),
	})
}

// Doctors returns the full roster, or one department's roster when the
// department query parameter is set.
func (h *Handler) Doctors(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")

	var doctors []Doctor
	if department == "" {
		for _, d := range h.provider.Departments() {
			doctors = append(doctors, h.provider.DoctorsByDepartment(d)...)
		}
	} else {
		doctors = h.provider.DoctorsByDepartment(department)
	}
	if doctors == nil {
		doctors = []Doctor{}
	}

	respondJSON(w, DoctorsResponse{
		Success: true,
		Doctors: doctors,
	})
}

func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, SlotsResponse{
		Success:   true,
		TimeSlots: h.provider.TimeSlots(),
	})
}

func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}
