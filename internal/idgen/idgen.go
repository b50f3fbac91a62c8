package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator is the identity generator capability. Uniqueness is the only
// contract; callers must not parse ids.
type Generator interface {
	NewID() string
}

// UUID generates random UUIDv4 ids. Production default.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates deterministic ids for tests ("id-1", "id-2", ...).
type Sequence struct {
	n atomic.Int64
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}
