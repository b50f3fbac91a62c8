package appointment

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/carepoint-health/frontdesk-service/internal/store"
)

// Repository owns the in-memory appointment collection and mirrors every
// mutation to the store as a whole-collection write. The in-memory copy is
// the source of truth for the session; see store.ErrWriteFailed for the
// degraded path.
type Repository struct {
	st store.Store

	mu    sync.Mutex
	items []Appointment
}

// NewRepository loads the collection from the store. A missing or corrupt
// entry starts the collection empty.
func NewRepository(ctx context.Context, st store.Store) (*Repository, error) {
	r := &Repository{st: st}
	if err := st.Load(ctx, store.KeyAppointments, &r.items); err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	log.Printf("✓ Loaded %d appointments", len(r.items))
	return r, nil
}

// List returns a copy of the full collection.
func (r *Repository) List(ctx context.Context) []Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Appointment, len(r.items))
	copy(out, r.items)
	return out
}

// Get returns the appointment with the given id.
func (r *Repository) Get(ctx context.Context, id string) (Appointment, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			return r.items[i], true
		}
	}
	return Appointment{}, false
}

// Insert appends a new appointment and persists the collection.
func (r *Repository) Insert(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, a)
	return r.saveLocked(ctx)
}

// Replace swaps the stored appointment with the same id and persists the
// collection.
func (r *Repository) Replace(ctx context.Context, a Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == a.ID {
			r.items[i] = a
			return r.saveLocked(ctx)
		}
	}
	return ErrNotFound
}

func (r *Repository) saveLocked(ctx context.Context) error {
	snapshot := make([]Appointment, len(r.items))
	copy(snapshot, r.items)
	if err := r.st.Save(ctx, store.KeyAppointments, snapshot); err != nil {
		log.Printf("Warning: appointment changes not saved: %v", err)
		return err
	}
	return nil
}
