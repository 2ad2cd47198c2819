// Package medication holds the prescription-side entities the safety engine
// consumes: patients with their allergy lists, inpatient admissions, and
// medication orders. The engine never loads these itself — repositories
// assemble them and hand fully-resolved values in.
package medication

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of a medication order.
type OrderStatus string

const (
	OrderActive    OrderStatus = "active"
	OrderOnHold    OrderStatus = "on-hold"
	OrderCompleted OrderStatus = "completed"
	OrderStopped   OrderStatus = "stopped"
)

var validOrderStatuses = map[OrderStatus]bool{
	OrderActive: true, OrderOnHold: true, OrderCompleted: true, OrderStopped: true,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool { return validOrderStatuses[s] }

// Patient maps to the patient table. Allergies are display names; the
// safety engine matches them against drug names by substring containment.
type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	MRN         string     `db:"mrn" json:"mrn"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Allergies   []string   `db:"allergies" json:"allergies"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// FullName returns "First Last" for display on the nursing queue.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Admission maps to the admission table. Patient and Orders are preloaded
// by ListActiveAdmissions so queue building needs no further lookups.
type Admission struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Ward       string    `db:"ward" json:"ward"`
	Bed        string    `db:"bed" json:"bed"`
	AdmittedAt time.Time `db:"admitted_at" json:"admitted_at"`
	Active     bool      `db:"active" json:"active"`

	Patient *Patient           `db:"-" json:"patient,omitempty"`
	Orders  []*MedicationOrder `db:"-" json:"orders,omitempty"`
}

// MedicationOrder maps to the medication_order table: one prescribed drug
// line. Immutable once created except for the dispense metadata appended by
// pharmacy staff.
type MedicationOrder struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	PrescriptionID uuid.UUID   `db:"prescription_id" json:"prescription_id"`
	PatientID      uuid.UUID   `db:"patient_id" json:"patient_id"`
	DrugName       string      `db:"drug_name" json:"drug_name"`
	GenericName    string      `db:"generic_name" json:"generic_name"`
	Dose           float64     `db:"dose" json:"dose"`
	DoseUnit       string      `db:"dose_unit" json:"dose_unit"`
	Route          string      `db:"route" json:"route"`
	Frequency      string      `db:"frequency" json:"frequency"`
	Instructions   *string     `db:"instructions" json:"instructions,omitempty"`
	PrescriberID   uuid.UUID   `db:"prescriber_id" json:"prescriber_id"`
	Status         OrderStatus `db:"status" json:"status"`
	Dispensed      bool        `db:"dispensed" json:"dispensed"`
	DispensedAt    *time.Time  `db:"dispensed_at" json:"dispensed_at,omitempty"`
	DispensedBy    *uuid.UUID  `db:"dispensed_by" json:"dispensed_by,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
}

// Administrable reports whether the order is eligible for the due queue:
// active and already dispensed by pharmacy.
func (o *MedicationOrder) Administrable() bool {
	return o.Status == OrderActive && o.Dispensed
}
