package booking

import (
	"context"

	"github.com/carepoint-health/frontdesk-service/internal/appointment"
)

// ServiceInterface is the wizard session operation surface.
type ServiceInterface interface {
	Start(ctx context.Context, req StartSessionRequest) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	UpdateForm(ctx context.Context, id string, req UpdateFormRequest) (*Session, error)
	Next(ctx context.Context, id string) (*Session, error)
	Previous(ctx context.Context, id string) (*Session, error)
	Availability(ctx context.Context, id string) (dates []string, times []string, err error)
	Submit(ctx context.Context, id string) (*Session, *appointment.Appointment, error)
}

var _ ServiceInterface = (*Service)(nil)
