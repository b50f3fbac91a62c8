package appointment

import "context"

// ServiceInterface is the scheduling subsystem's operation surface. UI-facing
// callers (handlers, the booking wizard) go through it and never touch the
// repository directly.
type ServiceInterface interface {
	Create(ctx context.Context, req CreateAppointmentRequest) (*Appointment, error)
	List(ctx context.Context, status Status) ([]Appointment, error)
	Get(ctx context.Context, id string) (*Appointment, error)
	Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*Appointment, error)
	Confirm(ctx context.Context, id string) (*Appointment, error)
	Cancel(ctx context.Context, id string) (*Appointment, error)
	Complete(ctx context.Context, id string) (*Appointment, error)
	AvailableTimes(ctx context.Context, doctorID, date string) ([]string, error)
}

var _ ServiceInterface = (*Service)(nil)
