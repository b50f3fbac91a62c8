package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	AppointmentTotal    metric.Int64Counter
	MedicalRecordTotal  metric.Int64Counter
	BookingSessionTotal metric.Int64Counter
	ConflictTotal       metric.Int64Counter
	StoreWriteFailures  metric.Int64Counter
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/carepoint-health/frontdesk-service")

	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	appointmentTotal, err := meter.Int64Counter(
		"appointment_total",
		metric.WithDescription("Total number of appointment operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	medicalRecordTotal, err := meter.Int64Counter(
		"medical_record_total",
		metric.WithDescription("Total number of medical record operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	bookingSessionTotal, err := meter.Int64Counter(
		"booking_session_total",
		metric.WithDescription("Total number of booking wizard session operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	conflictTotal, err := meter.Int64Counter(
		"scheduling_conflict_total",
		metric.WithDescription("Total number of rejected double-booking attempts"),
		metric.WithUnit("{conflict}"),
	)
	if err != nil {
		return nil, err
	}

	storeWriteFailures, err := meter.Int64Counter(
		"store_write_failures_total",
		metric.WithDescription("Total number of collection writes that failed to persist"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPDurationMs:      httpDurationMs,
		AppointmentTotal:    appointmentTotal,
		MedicalRecordTotal:  medicalRecordTotal,
		BookingSessionTotal: bookingSessionTotal,
		ConflictTotal:       conflictTotal,
		StoreWriteFailures:  storeWriteFailures,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}
	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordAppointmentOperation records an appointment operation metric
func (m *Metrics) RecordAppointmentOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.AppointmentTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordMedicalRecordOperation records a medical record operation metric
func (m *Metrics) RecordMedicalRecordOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.MedicalRecordTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordBookingSessionOperation records a wizard session operation metric
func (m *Metrics) RecordBookingSessionOperation(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.BookingSessionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

// RecordConflict records a rejected double-booking attempt
func (m *Metrics) RecordConflict(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.ConflictTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
	))
}

// RecordStoreWriteFailure records a failed collection write
func (m *Metrics) RecordStoreWriteFailure(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.StoreWriteFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("collection", key),
	))
}
