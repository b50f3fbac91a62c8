package appointment

import "context"

// RepositoryInterface is the mutation surface over the appointment
// collection. All writes persist the whole collection; a write failure is
// reported via an error wrapping store.ErrWriteFailed while the in-memory
// collection keeps the mutation.
type RepositoryInterface interface {
	List(ctx context.Context) []Appointment
	Get(ctx context.Context, id string) (Appointment, bool)
	Insert(ctx context.Context, a Appointment) error
	Replace(ctx context.Context, a Appointment) error
}

var _ RepositoryInterface = (*Repository)(nil)
