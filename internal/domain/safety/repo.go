package safety

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores verification audit records. The interface is
// deliberately write-once: records are created and read, never updated or
// deleted, so every administration attempt stays independently auditable.
type Repository interface {
	Create(ctx context.Context, v *Verification) error
	GetByID(ctx context.Context, id uuid.UUID) (*Verification, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Verification, int, error)
}
