package medication

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL-backed input repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientCols = `id, mrn, first_name, last_name, date_of_birth, allergies, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.MRN, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.Allergies, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *repoPG) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

const orderCols = `id, prescription_id, patient_id, drug_name, generic_name, dose, dose_unit,
	route, frequency, instructions, prescriber_id, status, dispensed, dispensed_at, dispensed_by, created_at`

func scanOrder(row pgx.Row) (*MedicationOrder, error) {
	var o MedicationOrder
	err := row.Scan(&o.ID, &o.PrescriptionID, &o.PatientID, &o.DrugName, &o.GenericName, &o.Dose, &o.DoseUnit,
		&o.Route, &o.Frequency, &o.Instructions, &o.PrescriberID, &o.Status, &o.Dispensed, &o.DispensedAt, &o.DispensedBy, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &o, err
}

func (r *repoPG) GetOrder(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	return scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderCols+` FROM medication_order WHERE id = $1`, id))
}

func (r *repoPG) ListActiveOrdersByPatient(ctx context.Context, patientID uuid.UUID) ([]*MedicationOrder, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderCols+` FROM medication_order
		WHERE patient_id = $1 AND status = 'active'
		ORDER BY created_at`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	var out []*MedicationOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repoPG) ListActiveAdmissions(ctx context.Context, ward string) ([]*Admission, error) {
	query := `
		SELECT a.id, a.patient_id, a.ward, a.bed, a.admitted_at, a.active
		FROM admission a
		WHERE a.active = TRUE`
	args := []interface{}{}
	if ward != "" {
		query += ` AND a.ward = $1`
		args = append(args, ward)
	}
	query += ` ORDER BY a.ward, a.bed`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active admissions: %w", err)
	}
	defer rows.Close()

	var admissions []*Admission
	for rows.Next() {
		var a Admission
		if err := rows.Scan(&a.ID, &a.PatientID, &a.Ward, &a.Bed, &a.AdmittedAt, &a.Active); err != nil {
			return nil, err
		}
		admissions = append(admissions, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range admissions {
		p, err := r.GetPatient(ctx, a.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load patient for admission %s: %w", a.ID, err)
		}
		a.Patient = p

		orders, err := r.ListActiveOrdersByPatient(ctx, a.PatientID)
		if err != nil {
			return nil, fmt.Errorf("load orders for admission %s: %w", a.ID, err)
		}
		a.Orders = orders
	}

	return admissions, nil
}
