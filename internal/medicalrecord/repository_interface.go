package medicalrecord

import "context"

// RepositoryInterface is the mutation surface over the medical record
// collection. Records are never deleted. Writes persist the whole
// collection; failures wrap store.ErrWriteFailed with the in-memory copy
// left intact.
type RepositoryInterface interface {
	List(ctx context.Context) []MedicalRecord
	Get(ctx context.Context, id string) (MedicalRecord, bool)
	GetByAppointment(ctx context.Context, appointmentID string) (MedicalRecord, bool)
	Insert(ctx context.Context, rec MedicalRecord) error
	Replace(ctx context.Context, rec MedicalRecord) error
}

var _ RepositoryInterface = (*Repository)(nil)
