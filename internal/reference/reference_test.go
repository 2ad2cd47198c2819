package reference

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_FrequencyTableOrder(t *testing.T) {
	d := Default()

	// First-match semantics make the declared order part of the contract;
	// enumerate it so an accidental reorder fails loudly.
	want := []string{
		"bid", "twice", "tid", "three times", "qid", "four times",
		"every 4 hours", "q4h", "every 6 hours", "q6h",
		"every 8 hours", "q8h", "every 12 hours", "q12h",
		"once daily", "every morning", "qam", "at bedtime", "qhs",
		"nightly", "daily", "qd", "weekly",
	}
	if len(d.Frequencies) != len(want) {
		t.Fatalf("expected %d frequency entries, got %d", len(want), len(d.Frequencies))
	}
	for i, m := range want {
		if d.Frequencies[i].Match != m {
			t.Errorf("entry %d: expected %q, got %q", i, m, d.Frequencies[i].Match)
		}
	}
}

func TestDefault_AnchorSets(t *testing.T) {
	d := Default()
	byMatch := map[string][]int{}
	for _, e := range d.Frequencies {
		byMatch[e.Match] = e.Hours
	}

	cases := []struct {
		match string
		hours []int
	}{
		{"bid", []int{9, 21}},
		{"q8h", []int{0, 8, 16}},
		{"q4h", []int{0, 4, 8, 12, 16, 20}},
		{"daily", []int{9}},
		{"qhs", []int{21}},
	}
	for _, c := range cases {
		got, ok := byMatch[c.match]
		if !ok {
			t.Fatalf("missing entry %q", c.match)
		}
		if len(got) != len(c.hours) {
			t.Fatalf("%s: expected %v, got %v", c.match, c.hours, got)
		}
		for i := range got {
			if got[i] != c.hours[i] {
				t.Errorf("%s: expected %v, got %v", c.match, c.hours, got)
				break
			}
		}
	}
}

func TestClassifyHighAlert(t *testing.T) {
	d := Default()

	tests := []struct {
		drug     string
		isHigh   bool
		category string
	}{
		{"Warfarin 5mg", true, "anticoagulant"},
		{"Insulin Glargine", true, "insulin"},
		{"MORPHINE sulfate", true, "opioid"},
		{"Potassium Chloride 20mEq", true, "concentrated electrolyte"},
		{"Amoxicillin", false, ""},
		{"", false, ""},
	}
	for _, tt := range tests {
		got := d.ClassifyHighAlert(tt.drug)
		if got.IsHighAlert != tt.isHigh {
			t.Errorf("%q: expected isHighAlert=%v, got %v", tt.drug, tt.isHigh, got.IsHighAlert)
		}
		if got.Category != tt.category {
			t.Errorf("%q: expected category %q, got %q", tt.drug, tt.category, got.Category)
		}
		if tt.isHigh && len(got.RequiredChecks) == 0 {
			t.Errorf("%q: expected required checks for high-alert drug", tt.drug)
		}
	}
}

func TestClassifyHighAlert_FirstMatchWins(t *testing.T) {
	d := Data{
		HighAlertDrugs: []HighAlertEntry{
			{Match: "heparin", Category: "first"},
			{Match: "heparin sodium", Category: "second"},
		},
	}
	got := d.ClassifyHighAlert("Heparin Sodium Injection")
	if got.Category != "first" {
		t.Errorf("expected first declared entry to win, got %q", got.Category)
	}
}

func TestRecommendationFor(t *testing.T) {
	d := Default()
	r, ok := d.RecommendationFor(AlertAllergyConflict)
	if !ok {
		t.Fatal("expected recommendation for allergy conflict")
	}
	if r.Priority != 1 {
		t.Errorf("expected priority 1, got %d", r.Priority)
	}
	if _, ok := d.RecommendationFor("NO_SUCH_ALERT"); ok {
		t.Error("expected no recommendation for unknown alert type")
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	d, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Frequencies) == 0 || len(d.HighAlertDrugs) == 0 {
		t.Error("expected default tables")
	}
}

func TestLoad_OverridesOnlyPresentSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reference.yaml")
	content := `interactions:
  - drug_a: alpha
    drug_b: beta
    effect: test effect
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Interactions) != 1 || d.Interactions[0].DrugA != "alpha" {
		t.Errorf("expected overridden interactions, got %+v", d.Interactions)
	}
	if len(d.Frequencies) == 0 {
		t.Error("expected frequency defaults to survive partial override")
	}
	if d.DefaultAnchorHour != 9 {
		t.Errorf("expected default anchor hour 9, got %d", d.DefaultAnchorHour)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/reference.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
