package medicalrecord

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/carepoint-health/frontdesk-service/internal/store"
)

// Repository owns the in-memory medical record collection, mirrored to the
// store with whole-collection writes.
type Repository struct {
	st store.Store

	mu    sync.Mutex
	items []MedicalRecord
}

func NewRepository(ctx context.Context, st store.Store) (*Repository, error) {
	r := &Repository{st: st}
	if err := st.Load(ctx, store.KeyMedicalRecords, &r.items); err != nil {
		return nil, fmt.Errorf("failed to load medical records: %w", err)
	}
	log.Printf("✓ Loaded %d medical records", len(r.items))
	return r, nil
}

func (r *Repository) List(ctx context.Context) []MedicalRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]MedicalRecord, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Repository) Get(ctx context.Context, id string) (MedicalRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			return r.items[i], true
		}
	}
	return MedicalRecord{}, false
}

// GetByAppointment finds the record referencing an appointment. At most one
// exists; Insert enforces that.
func (r *Repository) GetByAppointment(ctx context.Context, appointmentID string) (MedicalRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].AppointmentID == appointmentID {
			return r.items[i], true
		}
	}
	return MedicalRecord{}, false
}

func (r *Repository) Insert(ctx context.Context, rec MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].AppointmentID == rec.AppointmentID {
			return ErrRecordExists
		}
	}
	r.items = append(r.items, rec)
	return r.saveLocked(ctx)
}

func (r *Repository) Replace(ctx context.Context, rec MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == rec.ID {
			r.items[i] = rec
			return r.saveLocked(ctx)
		}
	}
	return ErrRecordNotFound
}

func (r *Repository) saveLocked(ctx context.Context) error {
	snapshot := make([]MedicalRecord, len(r.items))
	copy(snapshot, r.items)
	if err := r.st.Save(ctx, store.KeyMedicalRecords, snapshot); err != nil {
		log.Printf("Warning: medical record changes not saved: %v", err)
		return err
	}
	return nil
}
