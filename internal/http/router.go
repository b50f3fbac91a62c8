package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
	"github.com/carepoint-health/frontdesk-service/internal/booking"
	"github.com/carepoint-health/frontdesk-service/internal/idgen"
	"github.com/carepoint-health/frontdesk-service/internal/medicalrecord"
	"github.com/carepoint-health/frontdesk-service/internal/messaging"
	"github.com/carepoint-health/frontdesk-service/internal/refdata"
	"github.com/carepoint-health/frontdesk-service/internal/store"
	"github.com/carepoint-health/frontdesk-service/internal/telemetry"
	"github.com/carepoint-health/frontdesk-service/internal/validation"
)

// SetupRouter wires repositories, services and handlers over the given store
// and returns the full route table. Collections load from the store here,
// once, before any request is served.
func SetupRouter(ctx context.Context, st store.Store, ref *refdata.Provider, ids idgen.Generator, publisher messaging.PublisherInterface, metrics *telemetry.Metrics) (*mux.Router, error) {
	validate := validation.New()

	apptRepo, err := appointment.NewRepository(ctx, st)
	if err != nil {
		return nil, err
	}
	apptService := appointment.NewService(apptRepo, ref, ids, validate, publisher, metrics)
	apptHandler := appointment.NewHandler(apptService)

	recordRepo, err := medicalrecord.NewRepository(ctx, st)
	if err != nil {
		return nil, err
	}
	recordService := medicalrecord.NewService(recordRepo, apptService, ids, validate, publisher, metrics)
	recordHandler := medicalrecord.NewHandler(recordService)

	bookingService := booking.NewService(booking.NewWizard(ref), apptService, ids, validate, metrics)
	bookingHandler := booking.NewHandler(bookingService)

	refHandler := refdata.NewHandler(ref)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("frontdesk-service"))
	r.Use(metricsMiddleware(metrics))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"frontdesk-service"}`))
	}).Methods("GET")

	// Reference data (read-only)
	r.HandleFunc("/api/reference/departments", refHandler.Departments).Methods("GET")
	r.HandleFunc("/api/reference/doctors", refHandler.Doctors).Methods("GET")
	r.HandleFunc("/api/reference/slots", refHandler.Slots).Methods("GET")

	// Appointments
	r.HandleFunc("/api/appointments", apptHandler.Create).Methods("POST")
	r.HandleFunc("/api/appointments", apptHandler.List).Methods("GET")
	r.HandleFunc("/api/appointments/availability", apptHandler.Availability).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", apptHandler.Get).Methods("GET")
	r.HandleFunc("/api/appointments/{id}", apptHandler.Update).Methods("PUT")
	r.HandleFunc("/api/appointments/{id}/confirm", apptHandler.Confirm).Methods("POST")
	r.HandleFunc("/api/appointments/{id}/cancel", apptHandler.Cancel).Methods("POST")
	r.HandleFunc("/api/appointments/{id}/complete", apptHandler.Complete).Methods("POST")

	// Medical records
	r.HandleFunc("/api/medical-records", recordHandler.Create).Methods("POST")
	r.HandleFunc("/api/medical-records", recordHandler.List).Methods("GET")
	r.HandleFunc("/api/medical-records/{id}", recordHandler.Get).Methods("GET")
	r.HandleFunc("/api/medical-records/{id}", recordHandler.Update).Methods("PUT")
	r.HandleFunc("/api/medical-records/{id}/complete", recordHandler.Complete).Methods("POST")
	r.HandleFunc("/api/medical-records/{id}/prescriptions", recordHandler.AddPrescription).Methods("POST")
	r.HandleFunc("/api/medical-records/{id}/prescriptions/{index}", recordHandler.RemovePrescription).Methods("DELETE")
	r.HandleFunc("/api/medical-records/{id}/lab-tests", recordHandler.AddLabTest).Methods("POST")
	r.HandleFunc("/api/medical-records/{id}/lab-tests/{index}", recordHandler.RemoveLabTest).Methods("DELETE")

	// Booking wizard
	r.HandleFunc("/api/booking/sessions", bookingHandler.Start).Methods("POST")
	r.HandleFunc("/api/booking/sessions/{id}", bookingHandler.Get).Methods("GET")
	r.HandleFunc("/api/booking/sessions/{id}/form", bookingHandler.UpdateForm).Methods("PUT")
	r.HandleFunc("/api/booking/sessions/{id}/next", bookingHandler.Next).Methods("POST")
	r.HandleFunc("/api/booking/sessions/{id}/previous", bookingHandler.Previous).Methods("POST")
	r.HandleFunc("/api/booking/sessions/{id}/availability", bookingHandler.Availability).Methods("GET")
	r.HandleFunc("/api/booking/sessions/{id}/submit", bookingHandler.Submit).Methods("POST")

	return r, nil
}

// metricsMiddleware records request count and duration per route.
func metricsMiddleware(metrics *telemetry.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			metrics.RecordHTTPRequest(r.Context(), r.Method, route, rec.status, float64(time.Since(start).Milliseconds()))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
