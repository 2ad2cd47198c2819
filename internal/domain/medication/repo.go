package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a patient or order is structurally absent.
// It is the only condition the engine surfaces as a hard error (everything
// else degrades to a warning-level finding).
var ErrNotFound = errors.New("not found")

// Repository assembles the engine's inputs. Implementations resolve
// allergies and orders eagerly so downstream computation needs no I/O.
type Repository interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*MedicationOrder, error)
	ListActiveOrdersByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicationOrder, error)
	// ListActiveAdmissions returns active admissions with Patient and
	// Orders preloaded. An empty ward means no ward filter.
	ListActiveAdmissions(ctx context.Context, ward string) ([]*Admission, error)
}
