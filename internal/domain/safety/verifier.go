package safety

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ehr/medsafety/internal/domain/medication"
	"github.com/ehr/medsafety/internal/domain/schedule"
	"github.com/ehr/medsafety/internal/reference"
)

// Check penalties. Each check subtracts from a starting composite of 100.
const (
	penaltyMismatch    = 50
	penaltyNoScan      = 5
	penaltyAllergy     = 50
	penaltyHighAlert   = 5
	penaltyInteraction = 10
	penaltyDuplicate   = 10
	penaltyTiming      = 10
)

// timingTolerance is how far from the nearest scheduled instant an
// administration may drift before the timing check fires.
const timingTolerance = 60 * time.Minute

// Input is the fully-resolved fact set one verification runs over. Callers
// assemble it (repo lookups included) before invoking the verifier; nothing
// here triggers I/O.
type Input struct {
	Patient *medication.Patient
	Order   *medication.MedicationOrder
	// ActiveMeds are the patient's other currently active medication
	// orders, with the target order excluded.
	ActiveMeds     []*medication.MedicationOrder
	ScannedBarcode string
	VerifiedBy     *uuid.UUID
	Now            time.Time
}

// Verifier runs the fixed check pipeline over one (patient, order) pair.
// Pure: identical inputs always produce an identical verification, and the
// caller owns persistence and identity assignment.
type Verifier struct {
	resolver *schedule.Resolver
	ref      reference.Data
}

func NewVerifier(ref reference.Data) *Verifier {
	return &Verifier{resolver: schedule.NewResolver(ref), ref: ref}
}

// Verify runs all six checks and reduces them to a composite score,
// disposition and ranked recommendations. ID and CreatedAt are left zero
// for the caller to assign at persistence time.
func (v *Verifier) Verify(in Input) *Verification {
	checks := []CheckResult{
		v.patientCheck(in),
		v.allergyCheck(in),
		v.highAlertCheck(in),
		v.interactionCheck(in),
		v.duplicateCheck(in),
		v.timingCheck(in),
	}

	score := 100
	for _, c := range checks {
		score -= 100 - c.Score
	}
	if score < 0 {
		score = 0
	}

	out := &Verification{
		PatientID:       in.Patient.ID,
		OrderID:         in.Order.ID,
		VerifiedBy:      in.VerifiedBy,
		ScannedBarcode:  in.ScannedBarcode,
		Score:           score,
		Disposition:     DispositionFor(score),
		Checks:          checks,
		Recommendations: v.recommendations(checks),
	}
	for _, c := range checks {
		for _, a := range c.Alerts {
			if a.Type == AlertHighAlertMed {
				out.RequiresDoubleCheck = true
			}
		}
	}
	return out
}

// patientCheck verifies scanned identity against the patient's MRN.
// A missing scan is advisory, not blocking.
func (v *Verifier) patientCheck(in Input) CheckResult {
	c := CheckResult{Name: "patientCheck", Score: 100}
	switch {
	case in.ScannedBarcode == "":
		c.Status = CheckWarning
		c.Score -= penaltyNoScan
		c.Alerts = append(c.Alerts, Alert{
			Type:     AlertNoPatientScan,
			Severity: SeverityModerate,
			Message:  "no patient barcode scanned; identity not electronically verified",
		})
	case !strings.EqualFold(in.ScannedBarcode, in.Patient.MRN):
		c.Status = CheckFailed
		c.Score -= penaltyMismatch
		c.Alerts = append(c.Alerts, Alert{
			Type:     AlertPatientMismatch,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("scanned barcode %q does not match patient MRN %q", in.ScannedBarcode, in.Patient.MRN),
		})
	default:
		c.Status = CheckVerified
	}
	return c
}

// allergyCheck matches each recorded allergy against the order's drug and
// generic names by substring containment in either direction. This is a
// name-level heuristic, not an ontology match: "Penicillin" vs "Amoxicillin"
// does not fire.
func (v *Verifier) allergyCheck(in Input) CheckResult {
	c := CheckResult{Name: "allergyCheck", Status: CheckClear, Score: 100}
	for _, allergy := range in.Patient.Allergies {
		if !namesOverlap(allergy, in.Order.DrugName) && !namesOverlap(allergy, in.Order.GenericName) {
			continue
		}
		c.Status = CheckFailed
		c.Score -= penaltyAllergy
		c.Alerts = append(c.Alerts, Alert{
			Type:     AlertAllergyConflict,
			Severity: SeverityCritical,
			Message:  fmt.Sprintf("patient has a documented allergy to %q matching %s", allergy, in.Order.DrugName),
		})
	}
	if c.Score < 0 {
		c.Score = 0
	}
	return c
}

func (v *Verifier) highAlertCheck(in Input) CheckResult {
	c := CheckResult{Name: "highAlertCheck", Status: CheckClear, Score: 100}
	m := v.ref.ClassifyHighAlert(in.Order.DrugName)
	if !m.IsHighAlert {
		m = v.ref.ClassifyHighAlert(in.Order.GenericName)
	}
	if m.IsHighAlert {
		c.Status = CheckWarning
		c.Score -= penaltyHighAlert
		c.Alerts = append(c.Alerts, Alert{
			Type:     AlertHighAlertMed,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%s is a high-alert medication (%s)", in.Order.DrugName, m.Category),
			Details:  m.RequiredChecks,
		})
	}
	return c
}

// interactionCheck screens the order against every other active medication
// using the known interaction pair table. Each interacting pair accumulates
// its own penalty.
func (v *Verifier) interactionCheck(in Input) CheckResult {
	c := CheckResult{Name: "interactionCheck", Status: CheckClear, Score: 100}
	for _, med := range in.ActiveMeds {
		for _, pair := range v.ref.Interactions {
			if !pairMatches(in.Order, med, pair) {
				continue
			}
			c.Status = CheckWarning
			c.Score -= penaltyInteraction
			c.Alerts = append(c.Alerts, Alert{
				Type:     AlertDrugInteraction,
				Severity: SeverityModerate,
				Message:  fmt.Sprintf("%s interacts with active medication %s: %s", in.Order.DrugName, med.DrugName, pair.Effect),
			})
		}
	}
	if c.Score < 0 {
		c.Score = 0
	}
	return c
}

// duplicateCheck flags another active order carrying the same drug or
// generic name.
func (v *Verifier) duplicateCheck(in Input) CheckResult {
	c := CheckResult{Name: "duplicateCheck", Status: CheckClear, Score: 100}
	for _, med := range in.ActiveMeds {
		if med.ID == in.Order.ID {
			continue
		}
		if !sameDrug(in.Order, med) {
			continue
		}
		c.Status = CheckWarning
		c.Score -= penaltyDuplicate
		c.Alerts = append(c.Alerts, Alert{
			Type:     AlertDuplicateTherapy,
			Severity: SeverityModerate,
			Message:  fmt.Sprintf("active order for %s duplicates this therapy", med.DrugName),
		})
	}
	if c.Score < 0 {
		c.Score = 0
	}
	return c
}

// timingCheck compares now against the nearest scheduled instant for the
// order's frequency. PRN orders have no schedule and are exempt.
func (v *Verifier) timingCheck(in Input) CheckResult {
	c := CheckResult{Name: "timingCheck", Score: 100}
	nearest, ok := v.resolver.Nearest(in.Order.Frequency, in.Now)
	if !ok {
		c.Status = CheckNA
		return c
	}

	drift := in.Now.Sub(nearest)
	if drift <= timingTolerance && drift >= -timingTolerance {
		c.Status = CheckClear
		return c
	}

	direction := "late"
	minutes := int(drift.Minutes())
	if drift < 0 {
		direction = "early"
		minutes = -minutes
	}
	c.Status = CheckWarning
	c.Score -= penaltyTiming
	c.Alerts = append(c.Alerts, Alert{
		Type:     AlertTimingDeviation,
		Severity: SeverityLow,
		Message:  fmt.Sprintf("administration is %d minutes %s of the %s schedule", minutes, direction, nearest.Format("15:04")),
	})
	return c
}

// recommendations maps fired alert types through the catalog, at most one
// action per category, ordered by ascending priority.
func (v *Verifier) recommendations(checks []CheckResult) []Recommendation {
	fired := map[string]bool{}
	for _, c := range checks {
		for _, a := range c.Alerts {
			fired[a.Type] = true
		}
	}

	var out []Recommendation
	// Catalog order is already ascending by priority.
	for _, entry := range v.ref.Recommendations {
		if fired[entry.AlertType] {
			out = append(out, Recommendation{Priority: entry.Priority, Action: entry.Action})
		}
	}
	return out
}

func namesOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func pairMatches(order, med *medication.MedicationOrder, pair reference.InteractionEntry) bool {
	target := strings.ToLower(order.DrugName + " " + order.GenericName)
	other := strings.ToLower(med.DrugName + " " + med.GenericName)
	return (strings.Contains(target, pair.DrugA) && strings.Contains(other, pair.DrugB)) ||
		(strings.Contains(target, pair.DrugB) && strings.Contains(other, pair.DrugA))
}

func sameDrug(a, b *medication.MedicationOrder) bool {
	if strings.EqualFold(a.DrugName, b.DrugName) {
		return true
	}
	return a.GenericName != "" && strings.EqualFold(a.GenericName, b.GenericName)
}
