package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ehr/medsafety/internal/domain/medication"
)

func TestPatientLookup(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := medication.NewRepoPG(globalDB.Pool)

	p := seedPatient(t, ctx, "MRN000111", "Maria", "Santos", []string{"Penicillin", "Sulfa"})

	got, err := repo.GetPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPatient() error = %v", err)
	}
	if got.MRN != "MRN000111" {
		t.Errorf("MRN = %q, want %q", got.MRN, "MRN000111")
	}
	if len(got.Allergies) != 2 || got.Allergies[0] != "Penicillin" {
		t.Errorf("Allergies = %v, want [Penicillin Sulfa]", got.Allergies)
	}

	if _, err := repo.GetPatient(ctx, uuid.New()); !errors.Is(err, medication.ErrNotFound) {
		t.Errorf("GetPatient(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestListActiveOrdersByPatient(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := medication.NewRepoPG(globalDB.Pool)

	p := seedPatient(t, ctx, "MRN000222", "James", "Okafor", nil)
	seedOrder(t, ctx, p.ID, "Lisinopril", "lisinopril", "once daily")
	seedOrder(t, ctx, p.ID, "Metformin", "metformin", "twice daily")

	// Stopped order must not appear.
	stopped := seedOrder(t, ctx, p.ID, "Warfarin", "warfarin", "once daily")
	if _, err := globalDB.Pool.Exec(ctx,
		`UPDATE medication_order SET status = 'stopped' WHERE id = $1`, stopped); err != nil {
		t.Fatalf("stop order: %v", err)
	}

	orders, err := repo.ListActiveOrdersByPatient(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListActiveOrdersByPatient() error = %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("got %d orders, want 2", len(orders))
	}
	for _, o := range orders {
		if o.Status != medication.OrderActive {
			t.Errorf("order %s status = %q, want active", o.DrugName, o.Status)
		}
	}
}

func TestListActiveAdmissions_PreloadsPatientAndOrders(t *testing.T) {
	ctx := context.Background()
	truncateAll(t, ctx)
	repo := medication.NewRepoPG(globalDB.Pool)

	p1 := seedPatient(t, ctx, "MRN000333", "Aisha", "Khan", nil)
	seedAdmission(t, ctx, p1.ID, "ICU", "3A")
	seedOrder(t, ctx, p1.ID, "Insulin Glargine", "insulin glargine", "once daily")

	p2 := seedPatient(t, ctx, "MRN000444", "Tom", "Reed", nil)
	seedAdmission(t, ctx, p2.ID, "Medical", "12B")

	admissions, err := repo.ListActiveAdmissions(ctx, "")
	if err != nil {
		t.Fatalf("ListActiveAdmissions() error = %v", err)
	}
	if len(admissions) != 2 {
		t.Fatalf("got %d admissions, want 2", len(admissions))
	}
	for _, a := range admissions {
		if a.Patient == nil {
			t.Fatalf("admission %s has nil Patient", a.ID)
		}
	}

	icu, err := repo.ListActiveAdmissions(ctx, "ICU")
	if err != nil {
		t.Fatalf("ListActiveAdmissions(ICU) error = %v", err)
	}
	if len(icu) != 1 {
		t.Fatalf("got %d ICU admissions, want 1", len(icu))
	}
	if icu[0].Patient.MRN != "MRN000333" {
		t.Errorf("ICU patient MRN = %q, want MRN000333", icu[0].Patient.MRN)
	}
	if len(icu[0].Orders) != 1 {
		t.Errorf("ICU admission has %d orders, want 1", len(icu[0].Orders))
	}
}
