// Package safety implements point-of-care administration verification:
// a fixed pipeline of clinical checks producing a composite safety score,
// a go/no-go disposition, and an immutable audit record.
package safety

import (
	"time"

	"github.com/google/uuid"
)

// CheckStatus is the outcome of one verification check.
type CheckStatus string

const (
	CheckVerified CheckStatus = "VERIFIED"
	CheckClear    CheckStatus = "CLEAR"
	CheckWarning  CheckStatus = "WARNING"
	CheckFailed   CheckStatus = "FAILED"
	CheckNA       CheckStatus = "NA"
)

// Severity ranks an alert for display triage.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityModerate Severity = "MODERATE"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// Disposition is the aggregate go/no-go outcome of a verification.
type Disposition string

const (
	DispositionSafe    Disposition = "SAFE"
	DispositionCaution Disposition = "CAUTION"
	DispositionStop    Disposition = "STOP"
)

// Score bands for the disposition.
const (
	safeFloor    = 80
	cautionFloor = 50
)

// DispositionFor maps a composite score to its disposition band.
func DispositionFor(score int) Disposition {
	switch {
	case score >= safeFloor:
		return DispositionSafe
	case score >= cautionFloor:
		return DispositionCaution
	default:
		return DispositionStop
	}
}

// Alert types emitted by the verification checks.
const (
	AlertPatientMismatch  = "PATIENT_MISMATCH"
	AlertNoPatientScan    = "NO_PATIENT_SCAN"
	AlertAllergyConflict  = "ALLERGY_CONFLICT"
	AlertHighAlertMed     = "HIGH_ALERT_MEDICATION"
	AlertDrugInteraction  = "DRUG_INTERACTION"
	AlertDuplicateTherapy = "DUPLICATE_THERAPY"
	AlertTimingDeviation  = "TIMING_DEVIATION"
)

// Alert is one finding raised by a check.
type Alert struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Details  []string `json:"details,omitempty"`
}

// CheckResult is the outcome of one named check: its status, its own score
// (100 minus the penalties it assessed, floored at zero), and any alerts.
type CheckResult struct {
	Name   string      `json:"name"`
	Status CheckStatus `json:"status"`
	Score  int         `json:"score"`
	Alerts []Alert     `json:"alerts,omitempty"`
}

// Recommendation is one ranked nursing action derived from the fired alerts.
type Recommendation struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
}

// Verification is the persisted audit record of one administration check.
// Write-once: created at verification time, never updated or deleted.
type Verification struct {
	ID                  uuid.UUID        `db:"id" json:"id"`
	PatientID           uuid.UUID        `db:"patient_id" json:"patient_id"`
	OrderID             uuid.UUID        `db:"order_id" json:"order_id"`
	VerifiedBy          *uuid.UUID       `db:"verified_by" json:"verified_by,omitempty"`
	ScannedBarcode      string           `db:"scanned_barcode" json:"scanned_barcode,omitempty"`
	Score               int              `db:"score" json:"score"`
	Disposition         Disposition      `db:"disposition" json:"disposition"`
	RequiresDoubleCheck bool             `db:"requires_double_check" json:"requires_double_check"`
	Checks              []CheckResult    `db:"checks" json:"checks"`
	Recommendations     []Recommendation `db:"recommendations" json:"recommendations"`
	CreatedAt           time.Time        `db:"created_at" json:"created_at"`
}
