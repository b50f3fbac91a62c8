package medicalrecord

import "context"

// ServiceInterface is the medical record operation surface.
type ServiceInterface interface {
	CreateFromAppointment(ctx context.Context, req CreateRecordRequest) (*MedicalRecord, error)
	List(ctx context.Context) ([]MedicalRecord, error)
	Get(ctx context.Context, id string) (*MedicalRecord, error)
	Update(ctx context.Context, id string, req UpdateRecordRequest) (*MedicalRecord, error)
	Complete(ctx context.Context, id string) (*MedicalRecord, error)
	AddPrescription(ctx context.Context, id string, item PrescriptionItem) (*MedicalRecord, error)
	RemovePrescription(ctx context.Context, id string, index int) (*MedicalRecord, error)
	AddLabTest(ctx context.Context, id string, name string) (*MedicalRecord, error)
	RemoveLabTest(ctx context.Context, id string, index int) (*MedicalRecord, error)
}

var _ ServiceInterface = (*Service)(nil)
