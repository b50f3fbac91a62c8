package store

import (
	"context"
	"errors"
)

// Well-known collection keys. One key per entity type; the value under a key
// is always the entire collection, serialized as a JSON array.
const (
	KeyAppointments   = "appointments"
	KeyMedicalRecords = "medical_records"
)

// ErrWriteFailed is returned (wrapped) when a collection could not be
// persisted. The caller's in-memory copy is still valid and remains the
// source of truth for the session; the failure must be surfaced, not
// swallowed.
var ErrWriteFailed = errors.New("store: write failed")

// Store is the persistent store capability. Load never fails on a missing or
// corrupt entry: it leaves dest at its zero value so the caller starts from an
// empty collection. Save replaces the entire collection under key.
type Store interface {
	Load(ctx context.Context, key string, dest interface{}) error
	Save(ctx context.Context, key string, value interface{}) error
}
