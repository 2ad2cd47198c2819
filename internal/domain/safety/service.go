package safety

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/medsafety/internal/domain/medication"
	"github.com/ehr/medsafety/internal/reference"
)

// VerifyRequest is the administration-time verification input from the
// nursing client. At defaults to wall-clock now when omitted.
type VerifyRequest struct {
	OrderID        uuid.UUID  `json:"order_id"`
	ScannedBarcode string     `json:"scanned_barcode"`
	VerifiedBy     *uuid.UUID `json:"verified_by"`
	At             *time.Time `json:"at"`
}

// Service assembles verification inputs, runs the check pipeline and
// persists the resulting audit record.
type Service struct {
	meds     medication.Repository
	repo     Repository
	verifier *Verifier
}

func NewService(meds medication.Repository, repo Repository, ref reference.Data) *Service {
	return &Service{meds: meds, repo: repo, verifier: NewVerifier(ref)}
}

// VerifyAdministration runs one verification attempt for an order. A missing
// patient or order short-circuits as medication.ErrNotFound before any
// scoring; everything else degrades to findings on the record.
func (s *Service) VerifyAdministration(ctx context.Context, req VerifyRequest) (*Verification, error) {
	if req.OrderID == uuid.Nil {
		return nil, errors.New("order_id is required")
	}

	order, err := s.meds.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	patient, err := s.meds.GetPatient(ctx, order.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load patient: %w", err)
	}

	active, err := s.meds.ListActiveOrdersByPatient(ctx, order.PatientID)
	if err != nil {
		return nil, fmt.Errorf("load active medications: %w", err)
	}
	others := make([]*medication.MedicationOrder, 0, len(active))
	for _, m := range active {
		if m.ID != order.ID {
			others = append(others, m)
		}
	}

	now := time.Now()
	if req.At != nil {
		now = *req.At
	}

	v := s.verifier.Verify(Input{
		Patient:        patient,
		Order:          order,
		ActiveMeds:     others,
		ScannedBarcode: req.ScannedBarcode,
		VerifiedBy:     req.VerifiedBy,
		Now:            now,
	})
	v.ID = uuid.New()
	v.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("persist verification: %w", err)
	}
	return v, nil
}

// GetVerification returns one stored audit record.
func (s *Service) GetVerification(ctx context.Context, id uuid.UUID) (*Verification, error) {
	return s.repo.GetByID(ctx, id)
}

// ListVerificationsByPatient returns a patient's audit trail, newest first.
func (s *Service) ListVerificationsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Verification, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
