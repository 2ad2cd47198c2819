package safety

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ehr/medsafety/internal/domain/medication"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL-backed audit store. Checks and
// recommendations are stored as JSONB so the record round-trips verbatim.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const verificationCols = `id, patient_id, order_id, verified_by, scanned_barcode, score,
	disposition, requires_double_check, checks, recommendations, created_at`

func scanVerification(row pgx.Row) (*Verification, error) {
	var (
		v               Verification
		checks          []byte
		recommendations []byte
	)
	err := row.Scan(&v.ID, &v.PatientID, &v.OrderID, &v.VerifiedBy, &v.ScannedBarcode, &v.Score,
		&v.Disposition, &v.RequiresDoubleCheck, &checks, &recommendations, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, medication.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(checks, &v.Checks); err != nil {
		return nil, fmt.Errorf("decode checks: %w", err)
	}
	if err := json.Unmarshal(recommendations, &v.Recommendations); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return &v, nil
}

func (r *repoPG) Create(ctx context.Context, v *Verification) error {
	checks, err := json.Marshal(v.Checks)
	if err != nil {
		return fmt.Errorf("encode checks: %w", err)
	}
	recommendations, err := json.Marshal(v.Recommendations)
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO safety_verification (id, patient_id, order_id, verified_by, scanned_barcode,
			score, disposition, requires_double_check, checks, recommendations, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		v.ID, v.PatientID, v.OrderID, v.VerifiedBy, v.ScannedBarcode,
		v.Score, v.Disposition, v.RequiresDoubleCheck, checks, recommendations, v.CreatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Verification, error) {
	return scanVerification(r.pool.QueryRow(ctx,
		`SELECT `+verificationCols+` FROM safety_verification WHERE id = $1`, id))
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Verification, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM safety_verification WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count verifications: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+verificationCols+` FROM safety_verification
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	var out []*Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}
